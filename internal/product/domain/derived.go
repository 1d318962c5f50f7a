package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ApplyDerivedFields recomputes stock and the sale state.
//
// Stock is the sum of variant quantities when variants exist, otherwise it keeps
// its explicit value. A positive discount drives the sale price; otherwise a sale
// price below the list price drives the discount; otherwise the product is not on sale.
func (p *Product) ApplyDerivedFields() {
	if len(p.Variants) > 0 {
		total := 0
		for _, v := range p.Variants {
			total += v.Quantity
		}
		p.Stock = total
	}

	price := decimal.NewFromFloat(p.Price)

	if p.DiscountPercentage > 0 {
		discount := decimal.NewFromFloat(p.DiscountPercentage)
		sale, _ := price.Mul(hundred.Sub(discount)).Div(hundred).Round(2).Float64()
		p.SalePrice = &sale
		p.IsOnSale = true
		return
	}

	if p.SalePrice != nil && price.IsPositive() {
		sale := decimal.NewFromFloat(*p.SalePrice)
		discount := price.Sub(sale).Div(price).Mul(hundred).Round(2)
		if discount.IsPositive() {
			p.DiscountPercentage, _ = discount.Float64()
			p.IsOnSale = true
			return
		}
	}

	p.clearSale()
}

func (p *Product) clearSale() {
	p.SalePrice = nil
	p.DiscountPercentage = 0
	p.IsOnSale = false
}
