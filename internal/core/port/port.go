package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

type closer interface {
	Close()
}

type ProductsAPI interface {
	ProductsWithFilters(
		ctx context.Context, page, limit int, f domain.ProductFilter,
	) (domain.ProductPage, error)
	Product(ctx context.Context, slug string) (domain.Product, error)
	RecentProducts(ctx context.Context) ([]domain.Product, error)
}

type CartAPI interface {
	CartItems(ctx context.Context) (domain.Cart, error)
	AddItem(ctx context.Context, item domain.AddCartItem) error
	DeleteItem(ctx context.Context, variantID string) error
	CartInfoByVariantID(
		ctx context.Context, variantID string,
	) (domain.CartItemInfo, error)
}

type OrdersAPI interface {
	CreateOrder(
		ctx context.Context, o domain.CreateOrder,
	) (domain.CreatedOrder, error)
	OrderItems(ctx context.Context, transactionID string) ([]domain.Order, error)
	CancelOrder(ctx context.Context, publicID string) error
}

type PaymentAPI interface {
	GenerateSignature(
		ctx context.Context, r domain.PaymentSignatureRequest,
	) (domain.PaymentSignature, error)
}

type ReviewsAPI interface {
	AddReview(ctx context.Context, r domain.AddReview) (domain.Review, error)
	Reviews(ctx context.Context, productID string) ([]domain.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error
}

type ShippingAddressesAPI interface {
	ShippingAddresses(ctx context.Context) ([]domain.ShippingAddress, error)
	AddShippingAddress(
		ctx context.Context, a domain.AddShippingAddress,
	) (domain.ShippingAddress, error)
}

type ImagesAPI interface {
	UploadImage(
		ctx context.Context, f domain.ImageFile, progress func(int),
	) (domain.UploadedImage, error)
}

type AuthAPI interface {
	IsAdmin(ctx context.Context) (bool, error)
}

// A ClientEventsSender publishes storefront activity. Delivery is best-effort.
type ClientEventsSender interface {
	SendEvent(ctx context.Context, evt domain.ClientEvent) error
	closer
}

type CartStore interface {
	Cart() (domain.Cart, bool)
	SetCart(domain.Cart)
}

type AddressStore interface {
	SelectedAddressID() (string, bool)
	SelectAddress(id string)
	ClearSelectedAddress()
}
