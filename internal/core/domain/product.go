package domain

import "math"

type (
	Product struct {
		PublicID      string
		Slug          string
		SKU           string
		Name          string
		OriginalPrice string
		CurrentPrice  string
		RatingAverage float64
		RatingCount   int
		Images        []ProductImage
		Variants      []ProductVariant
		Details       string
	}

	ProductImage struct {
		URL       string
		AltText   string
		IsPrimary bool
	}

	ProductVariant struct {
		VariantID      string
		SKU            string
		Color          string
		HexColor       string
		Size           string
		StockAvailable int
	}
)

// PrimaryImage returns the image flagged as primary or the first one.
func (p Product) PrimaryImage() (ProductImage, bool) {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(p.Images) != 0 {
		return p.Images[0], true
	}
	return ProductImage{}, false
}

type ProductPage struct {
	Products   []Product
	Total      int
	Page       int
	TotalPages int
}

// A ProductFilter narrows the product listing.
//
// Zero values are treated as absent and never sent.
type ProductFilter struct {
	Sort   string   `json:"sort,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Search string   `json:"search,omitempty"`
	Sizes  []string `json:"sizes,omitempty"`
}

// Validate rejects NaN and infinite price bounds.
func (f ProductFilter) Validate() error {
	for _, v := range []*float64{f.Min, f.Max} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return ErrInvalidPrice
		}
	}
	return nil
}
