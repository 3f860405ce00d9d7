package service

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/query"
)

// Cart returns the server cart. Every fetched cart, including background
// refreshes, is mirrored into the cart store.
func (s *Service) Cart(ctx context.Context) (query.Result[domain.Cart], error) {
	const op = "Service.Cart"

	r, err := query.Fetch(scope(ctx), s.q, query.NewKey(resCart), s.queryPolicy(true),
		func(ctx context.Context) (domain.Cart, error) {
			c, err := s.cart.CartItems(ctx)
			if err != nil {
				return domain.Cart{}, err
			}
			s.cartStore.SetCart(c)
			return c, nil
		})
	if err != nil {
		return r, opErr(op, err)
	}
	return r, nil
}

func (s *Service) CartInfo(
	ctx context.Context, variantID string,
) (query.Result[domain.CartItemInfo], error) {
	const op = "Service.CartInfo"

	key := query.NewKey(resCartInfo, variantID)
	r, err := query.Fetch(scope(ctx), s.q, key, s.queryPolicy(variantID != ""),
		func(ctx context.Context) (domain.CartItemInfo, error) {
			return s.cart.CartInfoByVariantID(ctx, variantID)
		})
	if err != nil {
		return r, opErr(op, err)
	}
	return r, nil
}

func (s *Service) AddItemToCart(ctx context.Context, item domain.AddCartItem) error {
	const op = "Service.AddItemToCart"

	_, err := query.Mutate(scope(ctx), s.q, s.mutation(resCart, resCartInfo),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.cart.AddItem(ctx, item)
		})
	if err != nil {
		return opErr(op, err)
	}

	s.emit(ctx, domain.ClientEvent{
		Kind:     domain.EventCartAdd,
		Subject:  item.VariantID,
		Quantity: item.Quantity,
	})
	return nil
}

func (s *Service) DeleteCartItem(ctx context.Context, variantID string) error {
	const op = "Service.DeleteCartItem"

	_, err := query.Mutate(scope(ctx), s.q, s.mutation(resCart, resCartInfo),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.cart.DeleteItem(ctx, variantID)
		})
	if err != nil {
		return opErr(op, err)
	}

	s.emit(ctx, domain.ClientEvent{Kind: domain.EventCartRemove, Subject: variantID})
	return nil
}
