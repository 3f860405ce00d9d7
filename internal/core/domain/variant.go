package domain

type (
	VariantGroup struct {
		Color    string
		HexColor string
		Sizes    []VariantSize
	}

	VariantSize struct {
		SKU       string
		Size      string
		Available int
		VariantID string
	}
)

// GroupProductVariants groups variants by exact color in first-seen order.
//
// Every input variant lands in exactly one size entry. A nil slice yields an
// empty, non-nil result.
func GroupProductVariants(vs []ProductVariant) []VariantGroup {
	groups := make([]VariantGroup, 0)
	index := make(map[string]int, len(vs))

	for _, v := range vs {
		i, ok := index[v.Color]
		if !ok {
			i = len(groups)
			index[v.Color] = i
			groups = append(groups, VariantGroup{
				Color:    v.Color,
				HexColor: v.HexColor,
			})
		}
		groups[i].Sizes = append(groups[i].Sizes, VariantSize{
			SKU:       v.SKU,
			Size:      v.Size,
			Available: v.StockAvailable,
			VariantID: v.VariantID,
		})
	}
	return groups
}

// FindVariantGroup returns the group for color.
func FindVariantGroup(groups []VariantGroup, color string) (VariantGroup, bool) {
	for _, g := range groups {
		if g.Color == color {
			return g, true
		}
	}
	return VariantGroup{}, false
}
