package domain

type Cart struct {
	ID         string
	UserID     string
	Type       string
	TotalPrice string
	Items      []CartItem
}

// A CartItem references a variant with the price captured when it was added.
type CartItem struct {
	VariantID   string
	ProductName string
	ProductSlug string
	Color       string
	Size        string
	ImageURL    string
	Quantity    int

	priceSnapshot string
}

// NewCartItem fixes the price snapshot; it can not be changed afterwards.
func NewCartItem(variantID string, quantity int, priceSnapshot string) CartItem {
	return CartItem{
		VariantID:     variantID,
		Quantity:      quantity,
		priceSnapshot: priceSnapshot,
	}
}

func (i CartItem) PriceSnapshot() string {
	return i.priceSnapshot
}

// Clone returns a copy that shares no memory with c.
func (c Cart) Clone() Cart {
	out := c
	if c.Items != nil {
		out.Items = make([]CartItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}

type AddCartItem struct {
	VariantID string
	Quantity  int
}

type CartItemInfo struct {
	VariantID string
	InCart    bool
	Quantity  int
}
