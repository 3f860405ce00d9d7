package api

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.OrdersAPI = (*OrdersAPI)(nil)

type OrdersAPI struct {
	res resource
}

func NewOrdersAPI(rq Requester, prefix string) OrdersAPI {
	return OrdersAPI{newResource("OrdersAPI", prefix, rq)}
}

func (a OrdersAPI) CreateOrder(
	ctx context.Context, o domain.CreateOrder,
) (domain.CreatedOrder, error) {
	const op = "CreateOrder"

	body := createOrderDTO{
		ShippingAddressID: o.ShippingAddressID,
		TransactionID:     o.TransactionID,
		PaymentMethod:     o.PaymentMethod,
	}

	var v createdOrderDTO
	if err := a.res.rq.Post(ctx, a.res.path("orders", "create-order"), body, &v); err != nil {
		return domain.CreatedOrder{}, a.res.opErr(op, err)
	}
	return domain.CreatedOrder{
		TransactionID: v.TransactionID,
		Orders:        ordersToDomain(v.Orders),
	}, nil
}

// OrderItems lists all order rows, or only those of transactionID when set.
func (a OrdersAPI) OrderItems(
	ctx context.Context, transactionID string,
) ([]domain.Order, error) {
	const op = "OrderItems"

	path := a.res.path("orders", "order-items")
	if transactionID != "" {
		path = a.res.path("orders", "order-items", escape(transactionID))
	}

	var vs []orderDTO
	if err := a.res.rq.Get(ctx, path, "", &vs); err != nil {
		return nil, a.res.opErr(op, err)
	}
	return ordersToDomain(vs), nil
}

func (a OrdersAPI) CancelOrder(ctx context.Context, publicID string) error {
	const op = "CancelOrder"

	path := a.res.path("orders", "cancel-order", escape(publicID))
	if err := a.res.rq.Delete(ctx, path, nil); err != nil {
		return a.res.opErr(op, err)
	}
	return nil
}
