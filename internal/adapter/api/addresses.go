package api

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ShippingAddressesAPI = (*ShippingAddressesAPI)(nil)

// ShippingAddressesAPI is served outside the common /api prefix, so it takes
// its own prefix.
type ShippingAddressesAPI struct {
	res resource
}

func NewShippingAddressesAPI(rq Requester, prefix string) ShippingAddressesAPI {
	return ShippingAddressesAPI{newResource("ShippingAddressesAPI", prefix, rq)}
}

func (a ShippingAddressesAPI) ShippingAddresses(
	ctx context.Context,
) ([]domain.ShippingAddress, error) {
	const op = "ShippingAddresses"

	var vs []shippingAddressDTO
	path := a.res.path("shipping-addresses", "get-shipping-addresses")
	if err := a.res.rq.Get(ctx, path, "", &vs); err != nil {
		return nil, a.res.opErr(op, err)
	}

	out := make([]domain.ShippingAddress, len(vs))
	for i, v := range vs {
		out[i] = v.toDomain()
	}
	return out, nil
}

func (a ShippingAddressesAPI) AddShippingAddress(
	ctx context.Context, in domain.AddShippingAddress,
) (domain.ShippingAddress, error) {
	const op = "AddShippingAddress"

	body := addShippingAddressDTO{
		RecipientName: in.RecipientName,
		Phone:         in.Phone,
		AddressLine:   in.AddressLine,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		Country:       in.Country,
		IsDefault:     in.IsDefault,
	}

	var v shippingAddressDTO
	path := a.res.path("shipping-addresses", "add-shipping-address")
	if err := a.res.rq.Post(ctx, path, body, &v); err != nil {
		return domain.ShippingAddress{}, a.res.opErr(op, err)
	}
	return v.toDomain(), nil
}
