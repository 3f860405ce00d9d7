package api

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/storefront/internal/core/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// A flexString decodes a JSON string or number as its text; prices arrive
// both ways.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
		return nil
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*s = flexString(b)
		return nil
	default:
		return fmt.Errorf("unexpected JSON value %q", b)
	}
}

// A flexFloat decodes a JSON number or numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// A flexID decodes a JSON number or string identifier as text.
type flexID = flexString

type (
	productDTO struct {
		PublicID      string            `json:"public_id"`
		Slug          string            `json:"slug"`
		SKU           string            `json:"sku"`
		Name          string            `json:"name"`
		OriginalPrice flexString        `json:"original_price"`
		CurrentPrice  flexString        `json:"current_price"`
		RatingAverage flexFloat         `json:"rating_average"`
		RatingCount   int               `json:"rating_count"`
		Images        []productImageDTO `json:"images"`
		Variants      variantList       `json:"variants"`
		Details       string            `json:"details"`
	}

	productImageDTO struct {
		URL       string `json:"url"`
		AltText   string `json:"alt_text"`
		IsPrimary bool   `json:"is_primary"`
	}

	variantDTO struct {
		VariantID      flexID `json:"variant_id"`
		SKU            string `json:"sku"`
		Color          string `json:"color"`
		HexColor       string `json:"hex_color"`
		Size           string `json:"size"`
		StockAvailable int    `json:"stock_available"`
	}

	productPageDTO struct {
		Products   []productDTO `json:"products"`
		Data       []productDTO `json:"data"`
		Total      int          `json:"total"`
		Page       int          `json:"page"`
		TotalPages int          `json:"total_pages"`
	}
)

// A variantList decodes anything that is not a JSON array as empty.
type variantList []variantDTO

func (l *variantList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		*l = variantList{}
		return nil
	}
	var vs []variantDTO
	if err := json.Unmarshal(b, &vs); err != nil {
		return err
	}
	*l = vs
	return nil
}

func (p productDTO) toDomain() domain.Product {
	v := domain.Product{
		PublicID:      p.PublicID,
		Slug:          p.Slug,
		SKU:           p.SKU,
		Name:          p.Name,
		OriginalPrice: string(p.OriginalPrice),
		CurrentPrice:  string(p.CurrentPrice),
		RatingAverage: float64(p.RatingAverage),
		RatingCount:   p.RatingCount,
		Details:       p.Details,
	}

	v.Images = make([]domain.ProductImage, len(p.Images))
	for i, img := range p.Images {
		v.Images[i] = domain.ProductImage{
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
		}
	}

	v.Variants = make([]domain.ProductVariant, 0, len(p.Variants))
	for _, pv := range p.Variants {
		v.Variants = append(v.Variants, domain.ProductVariant{
			VariantID:      string(pv.VariantID),
			SKU:            pv.SKU,
			Color:          pv.Color,
			HexColor:       pv.HexColor,
			Size:           pv.Size,
			StockAvailable: pv.StockAvailable,
		})
	}
	return v
}

func productsToDomain(ps []productDTO) []domain.Product {
	out := make([]domain.Product, len(ps))
	for i, p := range ps {
		out[i] = p.toDomain()
	}
	return out
}

func (p productPageDTO) toDomain() domain.ProductPage {
	ps := p.Products
	if len(ps) == 0 {
		ps = p.Data
	}
	return domain.ProductPage{
		Products:   productsToDomain(ps),
		Total:      p.Total,
		Page:       p.Page,
		TotalPages: p.TotalPages,
	}
}

type (
	cartDTO struct {
		ID         flexID        `json:"id"`
		UserID     flexID        `json:"user_id"`
		Type       string        `json:"type"`
		TotalPrice flexString    `json:"total_price"`
		Items      []cartItemDTO `json:"items"`
	}

	cartItemDTO struct {
		VariantID     flexID     `json:"variant_id"`
		ProductName   string     `json:"product_name"`
		ProductSlug   string     `json:"slug"`
		Color         string     `json:"color"`
		Size          string     `json:"size"`
		ImageURL      string     `json:"image_url"`
		Quantity      int        `json:"quantity"`
		PriceSnapshot flexString `json:"price_snapshot"`
		Price         flexString `json:"price"`
	}

	addCartItemDTO struct {
		VariantID string `json:"variant_id"`
		Quantity  int    `json:"quantity"`
	}

	cartItemInfoDTO struct {
		VariantID flexID `json:"variant_id"`
		InCart    bool   `json:"in_cart"`
		Quantity  int    `json:"quantity"`
	}
)

func (c cartDTO) toDomain() domain.Cart {
	v := domain.Cart{
		ID:         string(c.ID),
		UserID:     string(c.UserID),
		Type:       c.Type,
		TotalPrice: string(c.TotalPrice),
		Items:      make([]domain.CartItem, len(c.Items)),
	}
	for i, it := range c.Items {
		price := it.PriceSnapshot
		if price == "" {
			price = it.Price
		}
		item := domain.NewCartItem(string(it.VariantID), it.Quantity, string(price))
		item.ProductName = it.ProductName
		item.ProductSlug = it.ProductSlug
		item.Color = it.Color
		item.Size = it.Size
		item.ImageURL = it.ImageURL
		v.Items[i] = item
	}
	return v
}

func (c cartItemInfoDTO) toDomain(variantID string) domain.CartItemInfo {
	return domain.CartItemInfo{
		VariantID: variantID,
		InCart:    c.InCart || c.Quantity > 0,
		Quantity:  c.Quantity,
	}
}

type (
	orderDTO struct {
		ID              flexID     `json:"id"`
		PublicID        string     `json:"public_id"`
		TransactionID   string     `json:"transaction_id"`
		ProductID       flexID     `json:"product_id"`
		ProductName     string     `json:"product_name"`
		ProductSlug     string     `json:"slug"`
		VariantID       flexID     `json:"variant_id"`
		Quantity        int        `json:"quantity"`
		UnitPrice       flexString `json:"unit_price"`
		Status          string     `json:"status"`
		RecipientName   string     `json:"recipient_name"`
		ShippingAddress string     `json:"shipping_address"`
		ShippingCity    string     `json:"shipping_city"`
		ShippingPhone   string     `json:"shipping_phone"`
		Color           string     `json:"color"`
		Size            string     `json:"size"`
		ImageURL        string     `json:"image_url"`
		CreatedAt       time.Time  `json:"created_at"`
	}

	createOrderDTO struct {
		ShippingAddressID string `json:"shipping_address_id"`
		TransactionID     string `json:"transaction_id,omitempty"`
		PaymentMethod     string `json:"payment_method,omitempty"`
	}

	createdOrderDTO struct {
		TransactionID string     `json:"transaction_id"`
		Orders        []orderDTO `json:"orders"`
	}
)

func (o orderDTO) toDomain() domain.Order {
	return domain.Order{
		ID:              string(o.ID),
		PublicID:        o.PublicID,
		TransactionID:   o.TransactionID,
		ProductID:       string(o.ProductID),
		ProductName:     o.ProductName,
		ProductSlug:     o.ProductSlug,
		VariantID:       string(o.VariantID),
		Quantity:        o.Quantity,
		UnitPrice:       string(o.UnitPrice),
		Status:          o.Status,
		RecipientName:   o.RecipientName,
		ShippingAddress: o.ShippingAddress,
		ShippingCity:    o.ShippingCity,
		ShippingPhone:   o.ShippingPhone,
		Color:           o.Color,
		Size:            o.Size,
		ImageURL:        o.ImageURL,
		CreatedAt:       o.CreatedAt,
	}
}

func ordersToDomain(os []orderDTO) []domain.Order {
	out := make([]domain.Order, len(os))
	for i, o := range os {
		out[i] = o.toDomain()
	}
	return out
}

type (
	paymentSignatureRequestDTO struct {
		TotalAmount     string `json:"total_amount"`
		TransactionUUID string `json:"transaction_uuid"`
		ProductCode     string `json:"product_code"`
	}

	paymentSignatureDTO struct {
		TransactionUUID  string `json:"transaction_uuid"`
		Signature        string `json:"signature"`
		SignedFieldNames string `json:"signed_field_names"`
	}
)

type reviewDTO struct {
	ID         flexID    `json:"id"`
	ProductID  flexID    `json:"product_id"`
	UserName   string    `json:"user_name"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Images     []string  `json:"images"`
	IsVerified bool      `json:"is_verified"`
	IsOwner    bool      `json:"is_owner"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r reviewDTO) toDomain() domain.Review {
	return domain.Review{
		ID:         string(r.ID),
		ProductID:  string(r.ProductID),
		UserName:   r.UserName,
		Rating:     r.Rating,
		Title:      r.Title,
		Body:       r.Body,
		Images:     r.Images,
		IsVerified: r.IsVerified,
		IsOwner:    r.IsOwner,
		CreatedAt:  r.CreatedAt,
	}
}

type (
	shippingAddressDTO struct {
		ID            flexID     `json:"id"`
		RecipientName string     `json:"recipient_name"`
		Phone         string     `json:"phone"`
		AddressLine   string     `json:"address_line"`
		City          string     `json:"city"`
		State         string     `json:"state"`
		PostalCode    string     `json:"postal_code"`
		Country       string     `json:"country"`
		IsDefault     bool       `json:"is_default"`
		ShippingCost  flexString `json:"shipping_cost"`
	}

	addShippingAddressDTO struct {
		RecipientName string `json:"recipient_name"`
		Phone         string `json:"phone"`
		AddressLine   string `json:"address_line"`
		City          string `json:"city"`
		State         string `json:"state,omitempty"`
		PostalCode    string `json:"postal_code,omitempty"`
		Country       string `json:"country,omitempty"`
		IsDefault     bool   `json:"is_default"`
	}
)

func (a shippingAddressDTO) toDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		ID:            string(a.ID),
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		AddressLine:   a.AddressLine,
		City:          a.City,
		State:         a.State,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
		IsDefault:     a.IsDefault,
		ShippingCost:  string(a.ShippingCost),
	}
}

type uploadedImageDTO struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type isAdminDTO struct {
	IsAdmin bool `json:"isAdmin"`
}
