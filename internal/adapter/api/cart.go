package api

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartAPI = (*CartAPI)(nil)

var ErrInvalidQuantity = domain.ErrInvalidQuantity

type CartAPI struct {
	res resource
}

func NewCartAPI(rq Requester, prefix string) CartAPI {
	return CartAPI{newResource("CartAPI", prefix, rq)}
}

func (a CartAPI) CartItems(ctx context.Context) (domain.Cart, error) {
	const op = "CartItems"

	var v cartDTO
	if err := a.res.rq.Get(ctx, a.res.path("carts", "get-cart-items"), "", &v); err != nil {
		return domain.Cart{}, a.res.opErr(op, err)
	}
	return v.toDomain(), nil
}

func (a CartAPI) AddItem(ctx context.Context, item domain.AddCartItem) error {
	const op = "AddItem"

	if item.Quantity <= 0 {
		return a.res.opErr(op, ErrInvalidQuantity)
	}

	body := addCartItemDTO{VariantID: item.VariantID, Quantity: item.Quantity}
	if err := a.res.rq.Post(ctx, a.res.path("carts", "add-item-to-cart"), body, nil); err != nil {
		return a.res.opErr(op, err)
	}
	return nil
}

func (a CartAPI) DeleteItem(ctx context.Context, variantID string) error {
	const op = "DeleteItem"

	path := a.res.path("carts", "delete-cart-item", escape(variantID))
	if err := a.res.rq.Delete(ctx, path, nil); err != nil {
		return a.res.opErr(op, err)
	}
	return nil
}

func (a CartAPI) CartInfoByVariantID(
	ctx context.Context, variantID string,
) (domain.CartItemInfo, error) {
	const op = "CartInfoByVariantID"

	var v cartItemInfoDTO
	path := a.res.path("carts", "get-cart-info-by-variant-id", escape(variantID))
	if err := a.res.rq.Get(ctx, path, "", &v); err != nil {
		return domain.CartItemInfo{}, a.res.opErr(op, err)
	}
	return v.toDomain(variantID), nil
}
