package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

// A queryBuilder keeps insertion order, url.Values sorts keys.
type queryBuilder struct {
	b strings.Builder
}

func (q *queryBuilder) add(key, value string) {
	if q.b.Len() != 0 {
		q.b.WriteByte('&')
	}
	q.b.WriteString(url.QueryEscape(key))
	q.b.WriteByte('=')
	q.b.WriteString(url.QueryEscape(value))
}

func (q *queryBuilder) String() string {
	return q.b.String()
}

// ProductsQuery encodes the product listing query.
//
// Order is page, limit, sort, size (repeated), min, max, search. Absent
// filter fields are omitted.
func ProductsQuery(page, limit int, f domain.ProductFilter) string {
	var q queryBuilder

	if page > 0 {
		q.add("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.add("limit", strconv.Itoa(limit))
	}
	if f.Sort != "" {
		q.add("sort", f.Sort)
	}
	for _, s := range f.Sizes {
		if s = strings.TrimSpace(s); s != "" {
			q.add("size", s)
		}
	}
	if f.Min != nil {
		q.add("min", formatFloat(*f.Min))
	}
	if f.Max != nil {
		q.add("max", formatFloat(*f.Max))
	}
	if f.Search != "" {
		q.add("search", f.Search)
	}
	return q.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
