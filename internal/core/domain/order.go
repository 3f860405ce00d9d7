package domain

import "time"

// An Order is one purchased variant row.
type Order struct {
	ID              string
	PublicID        string
	TransactionID   string
	ProductID       string
	ProductName     string
	ProductSlug     string
	VariantID       string
	Quantity        int
	UnitPrice       string
	Status          string
	RecipientName   string
	ShippingAddress string
	ShippingCity    string
	ShippingPhone   string
	Color           string
	Size            string
	ImageURL        string
	CreatedAt       time.Time
}

type CreateOrder struct {
	ShippingAddressID string
	TransactionID     string
	PaymentMethod     string
}

type CreatedOrder struct {
	TransactionID string
	Orders        []Order
}
