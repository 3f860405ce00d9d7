package domain

type ShippingAddress struct {
	ID            string
	RecipientName string
	Phone         string
	AddressLine   string
	City          string
	State         string
	PostalCode    string
	Country       string
	IsDefault     bool
	ShippingCost  string
}

type AddShippingAddress struct {
	RecipientName string
	Phone         string
	AddressLine   string
	City          string
	State         string
	PostalCode    string
	Country       string
	IsDefault     bool
}
