package domain

import "time"

// ProductFilter is the structured form of the product list query.
// Search, Color and Size form one OR group; every other field is ANDed.
type ProductFilter struct {
	Search        string
	Color         string
	Size          string
	CategoryID    *uint
	MinPrice      *float64
	MaxPrice      *float64
	OnSale        bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// HasTextGroup reports whether any of search, color or size is set
func (f ProductFilter) HasTextGroup() bool {
	return f.Search != "" || f.Color != "" || f.Size != ""
}
