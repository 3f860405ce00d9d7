package api_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/adapter/api"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestProductsQuery(t *testing.T) {
	t.Run("RepeatedSizesAndOmittedFields", func(t *testing.T) {
		q := api.ProductsQuery(0, 0, domain.ProductFilter{
			Sizes: []string{"S", "M"},
			Min:   ptr(10.0),
		})
		assert.Contains(t, q, "size=S&size=M&min=10")
		assert.NotContains(t, q, "max")
		assert.NotContains(t, q, "search")
	})

	t.Run("FullOrder", func(t *testing.T) {
		q := api.ProductsQuery(2, 12, domain.ProductFilter{
			Sort:   "price_asc",
			Sizes:  []string{"L"},
			Min:    ptr(9.5),
			Max:    ptr(100.0),
			Search: "red shirt",
		})
		assert.Equal(t,
			"page=2&limit=12&sort=price_asc&size=L&min=9.5&max=100&search=red+shirt", q)
	})

	t.Run("ZeroMinIsPresent", func(t *testing.T) {
		q := api.ProductsQuery(1, 10, domain.ProductFilter{Min: ptr(0.0)})
		assert.Equal(t, "page=1&limit=10&min=0", q)
	})

	t.Run("BlankSizesSkipped", func(t *testing.T) {
		q := api.ProductsQuery(1, 10, domain.ProductFilter{Sizes: []string{"", " "}})
		assert.Equal(t, "page=1&limit=10", q)
	})
}
