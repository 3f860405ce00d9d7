package api

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductsAPI = (*ProductsAPI)(nil)

type ProductsAPI struct {
	res resource
}

func NewProductsAPI(rq Requester, prefix string) ProductsAPI {
	return ProductsAPI{newResource("ProductsAPI", prefix, rq)}
}

func (a ProductsAPI) ProductsWithFilters(
	ctx context.Context, page, limit int, f domain.ProductFilter,
) (domain.ProductPage, error) {
	const op = "ProductsWithFilters"

	var v productPageDTO
	path := a.res.path("products", "get-products-with-filters")
	if err := a.res.rq.Get(ctx, path, ProductsQuery(page, limit, f), &v); err != nil {
		return domain.ProductPage{}, a.res.opErr(op, err)
	}
	return v.toDomain(), nil
}

func (a ProductsAPI) Product(
	ctx context.Context, slug string,
) (domain.Product, error) {
	const op = "Product"

	var v productDTO
	path := a.res.path("products", "get-product", escape(slug))
	if err := a.res.rq.Get(ctx, path, "", &v); err != nil {
		return domain.Product{}, a.res.opErr(op, err)
	}
	return v.toDomain(), nil
}

func (a ProductsAPI) RecentProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "RecentProducts"

	var vs []productDTO
	path := a.res.path("products", "get-recent-products")
	if err := a.res.rq.Get(ctx, path, "", &vs); err != nil {
		return nil, a.res.opErr(op, err)
	}
	return productsToDomain(vs), nil
}
