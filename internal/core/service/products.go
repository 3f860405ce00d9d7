package service

import (
	"context"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/query"
)

func (s *Service) Products(
	ctx context.Context, page, limit int, f domain.ProductFilter,
) (query.Result[domain.ProductPage], error) {
	const op = "Service.Products"

	if err := f.Validate(); err != nil {
		return query.Result[domain.ProductPage]{}, opErr(op, err)
	}

	ctx = scope(ctx)
	key := query.NewKey(resProducts, page, limit, f)
	r, err := query.Fetch(ctx, s.q, key, s.queryPolicy(true),
		func(ctx context.Context) (domain.ProductPage, error) {
			return s.products.ProductsWithFilters(ctx, page, limit, f)
		})
	if err != nil {
		return r, opErr(op, err)
	}

	if isFiltered(f) {
		s.emit(ctx, domain.ClientEvent{
			Kind:     domain.EventSearch,
			Search:   f.Search,
			Sizes:    f.Sizes,
			MinPrice: formatPrice(f.Min),
			MaxPrice: formatPrice(f.Max),
		})
	}
	return r, nil
}

func (s *Service) Product(
	ctx context.Context, slug string,
) (query.Result[domain.Product], error) {
	const op = "Service.Product"

	r, err := s.product(scope(ctx), slug)
	if err != nil {
		return r, opErr(op, err)
	}
	if r.Status != query.StatusIdle {
		s.emit(ctx, domain.ClientEvent{Kind: domain.EventView, Subject: slug})
	}
	return r, nil
}

func (s *Service) product(
	ctx context.Context, slug string,
) (query.Result[domain.Product], error) {
	key := query.NewKey(resProduct, slug)
	return query.Fetch(ctx, s.q, key, s.queryPolicy(slug != ""),
		func(ctx context.Context) (domain.Product, error) {
			return s.products.Product(ctx, slug)
		})
}

// ProductSizes returns the sizes offered in color. A color the product does
// not have yields a group without sizes.
func (s *Service) ProductSizes(
	ctx context.Context, slug, color string,
) (query.Result[domain.VariantGroup], error) {
	const op = "Service.ProductSizes"

	ctx = scope(ctx)
	key := query.NewKey(resProductSizes, slug, color)
	r, err := query.Fetch(ctx, s.q, key, s.queryPolicy(slug != "" && color != ""),
		func(ctx context.Context) (domain.VariantGroup, error) {
			p, err := s.product(ctx, slug)
			if err != nil {
				return domain.VariantGroup{}, err
			}
			groups := domain.GroupProductVariants(p.Data.Variants)
			g, ok := domain.FindVariantGroup(groups, color)
			if !ok {
				return domain.VariantGroup{Color: color}, nil
			}
			return g, nil
		})
	if err != nil {
		return r, opErr(op, err)
	}
	return r, nil
}

func (s *Service) RecentProducts(
	ctx context.Context,
) (query.Result[[]domain.Product], error) {
	const op = "Service.RecentProducts"

	r, err := query.Fetch(scope(ctx), s.q, query.NewKey(resRecentProducts), s.queryPolicy(true),
		s.products.RecentProducts)
	if err != nil {
		return r, opErr(op, err)
	}
	return r, nil
}

func isFiltered(f domain.ProductFilter) bool {
	return f.Search != "" || len(f.Sizes) != 0 || f.Min != nil || f.Max != nil
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
