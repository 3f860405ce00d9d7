package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/query"
)

func (s *Service) OrderItems(
	ctx context.Context, transactionID string,
) (query.Result[[]domain.Order], error) {
	const op = "Service.OrderItems"

	key := query.NewKey(resOrders, transactionID)
	r, err := query.Fetch(scope(ctx), s.q, key, s.queryPolicy(true),
		func(ctx context.Context) ([]domain.Order, error) {
			return s.orders.OrderItems(ctx, transactionID)
		})
	if err != nil {
		return r, opErr(op, err)
	}
	return r, nil
}

// CreateOrder places an order. Without an explicit shipping address the
// selected one is used.
func (s *Service) CreateOrder(
	ctx context.Context, o domain.CreateOrder,
) (domain.CreatedOrder, error) {
	const op = "Service.CreateOrder"

	if o.ShippingAddressID == "" {
		id, ok := s.addressStore.SelectedAddressID()
		if !ok {
			return domain.CreatedOrder{}, opErr(op, domain.ErrNoShippingAddress)
		}
		o.ShippingAddressID = id
	}

	created, err := query.Mutate(scope(ctx), s.q, s.mutation(resOrders, resCart, resCartInfo),
		func(ctx context.Context) (domain.CreatedOrder, error) {
			return s.orders.CreateOrder(ctx, o)
		})
	if err != nil {
		return domain.CreatedOrder{}, opErr(op, err)
	}
	return created, nil
}

func (s *Service) CancelOrder(ctx context.Context, publicID string) error {
	const op = "Service.CancelOrder"

	_, err := query.Mutate(scope(ctx), s.q, s.mutation(resOrders),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.orders.CancelOrder(ctx, publicID)
		})
	if err != nil {
		return opErr(op, err)
	}
	return nil
}

// GeneratePaymentSignature signs a payment. The transaction uuid is fixed
// before the first attempt so a retry signs the same transaction.
func (s *Service) GeneratePaymentSignature(
	ctx context.Context, r domain.PaymentSignatureRequest,
) (domain.PaymentSignature, error) {
	const op = "Service.GeneratePaymentSignature"

	if r.TransactionUUID == "" {
		r.TransactionUUID = uuid.NewString()
	}

	sig, err := query.Mutate(scope(ctx), s.q, s.mutation(),
		func(ctx context.Context) (domain.PaymentSignature, error) {
			return s.payment.GenerateSignature(ctx, r)
		})
	if err != nil {
		return domain.PaymentSignature{}, opErr(op, err)
	}
	return sig, nil
}
