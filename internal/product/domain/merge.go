package domain

// MatchCriteria identifies the existing product an upsert merges into:
// same name ignoring case, same category, and variants sharing at least one
// size and at least one color with the incoming ones (not necessarily on the same variant).
type MatchCriteria struct {
	Name       string
	CategoryID uint
	Sizes      []string
	Colors     []string
}

// NewMatchCriteria builds the criteria for incoming product data.
// ok is false when there are no incoming variants, in which case nothing can match.
func NewMatchCriteria(name string, categoryID uint, variants []Variant) (MatchCriteria, bool) {
	if len(variants) == 0 {
		return MatchCriteria{}, false
	}

	c := MatchCriteria{Name: name, CategoryID: categoryID}
	seenSize := make(map[string]bool)
	seenColor := make(map[string]bool)
	for _, v := range variants {
		if !seenSize[v.Size] {
			seenSize[v.Size] = true
			c.Sizes = append(c.Sizes, v.Size)
		}
		if !seenColor[v.Color] {
			seenColor[v.Color] = true
			c.Colors = append(c.Colors, v.Color)
		}
	}
	return c, true
}

// MergeInventory adds stock and merges incoming variants into the product.
// A variant with identical size and color gains the incoming quantity; any other
// variant is appended. Derived fields are not recomputed here.
func (p *Product) MergeInventory(stock *int, incoming []Variant) {
	if stock != nil {
		p.Stock += *stock
	}

	for _, in := range incoming {
		merged := false
		for i := range p.Variants {
			if p.Variants[i].Size == in.Size && p.Variants[i].Color == in.Color {
				p.Variants[i].Quantity += in.Quantity
				merged = true
				break
			}
		}
		if !merged {
			p.Variants = append(p.Variants, Variant{
				Size:     in.Size,
				Color:    in.Color,
				Quantity: in.Quantity,
			})
		}
	}
}
