package service

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/query"
)

// ShippingAddresses lists saved addresses. When nothing is selected yet the
// default address becomes the selection.
func (s *Service) ShippingAddresses(
	ctx context.Context,
) (query.Result[[]domain.ShippingAddress], error) {
	const op = "Service.ShippingAddresses"

	r, err := query.Fetch(scope(ctx), s.q, query.NewKey(resAddresses), s.queryPolicy(true),
		s.addresses.ShippingAddresses)
	if err != nil {
		return r, opErr(op, err)
	}

	if _, ok := s.addressStore.SelectedAddressID(); !ok {
		for _, a := range r.Data {
			if a.IsDefault {
				s.addressStore.SelectAddress(a.ID)
				break
			}
		}
	}
	return r, nil
}

// AddShippingAddress saves a and selects it when it is the default or when
// nothing is selected.
func (s *Service) AddShippingAddress(
	ctx context.Context, a domain.AddShippingAddress,
) (domain.ShippingAddress, error) {
	const op = "Service.AddShippingAddress"

	created, err := query.Mutate(scope(ctx), s.q, s.mutation(resAddresses),
		func(ctx context.Context) (domain.ShippingAddress, error) {
			return s.addresses.AddShippingAddress(ctx, a)
		})
	if err != nil {
		return domain.ShippingAddress{}, opErr(op, err)
	}

	_, selected := s.addressStore.SelectedAddressID()
	if created.ID != "" && (created.IsDefault || !selected) {
		s.addressStore.SelectAddress(created.ID)
	}
	return created, nil
}

func (s *Service) SelectAddress(id string) {
	s.addressStore.SelectAddress(id)
}

func (s *Service) SelectedAddressID() (string, bool) {
	return s.addressStore.SelectedAddressID()
}

// UploadImage validates f before anything is sent.
func (s *Service) UploadImage(
	ctx context.Context, f domain.ImageFile, progress func(int),
) (domain.UploadedImage, error) {
	const op = "Service.UploadImage"

	open, err := rewindable(f)
	if err != nil {
		return domain.UploadedImage{}, opErr(op, err)
	}

	img, err := query.Mutate(scope(ctx), s.q, s.mutation(),
		func(ctx context.Context) (domain.UploadedImage, error) {
			return s.images.UploadImage(ctx, open(), progress)
		})
	if err != nil {
		return domain.UploadedImage{}, opErr(op, err)
	}
	return img, nil
}

func (s *Service) IsAdmin(ctx context.Context) (query.Result[bool], error) {
	const op = "Service.IsAdmin"

	r, err := query.Fetch(scope(ctx), s.q, query.NewKey(resIsAdmin), s.queryPolicy(true),
		s.auth.IsAdmin)
	if err != nil {
		return r, opErr(op, err)
	}
	return r, nil
}
