package domain

import "github.com/shopspring/decimal"

// DefaultLowStockThreshold is used when the report query omits the threshold
const DefaultLowStockThreshold = 10

// LowStockReport lists products with stock strictly below the threshold
type LowStockReport struct {
	Threshold int       `json:"threshold"`
	Count     int       `json:"count"`
	Products  []Product `json:"products"`
}

// OnSaleReport lists products on sale and the stock value of their discounts
type OnSaleReport struct {
	Count int `json:"count"`
	// TotalDiscountValue is the sum of (price - salePrice) * stock, two decimals
	TotalDiscountValue string    `json:"totalDiscountValue"`
	Products           []Product `json:"products"`
}

// CategorySummary aggregates the products of one category.
// CategoryName is nil when the category was deleted.
type CategorySummary struct {
	CategoryID   uint    `json:"categoryId"`
	CategoryName *string `json:"categoryName"`
	ProductCount int64   `json:"productCount"`
	TotalStock   int64   `json:"totalStock"`
}

// InventorySummary aggregates the whole catalog
type InventorySummary struct {
	TotalProducts   int64             `json:"totalProducts"`
	TotalStock      int64             `json:"totalStock"`
	CategorySummary []CategorySummary `json:"categorySummary"`
}

// NewOnSaleReport computes the discount total with decimal arithmetic
func NewOnSaleReport(products []Product) OnSaleReport {
	total := decimal.Zero
	for _, p := range products {
		if p.SalePrice == nil {
			continue
		}
		perUnit := decimal.NewFromFloat(p.Price).Sub(decimal.NewFromFloat(*p.SalePrice))
		total = total.Add(perUnit.Mul(decimal.NewFromInt(int64(p.Stock))))
	}

	if products == nil {
		products = []Product{}
	}
	return OnSaleReport{
		Count:              len(products),
		TotalDiscountValue: total.StringFixed(2),
		Products:           products,
	}
}

// NewLowStockReport wraps the products found below threshold
func NewLowStockReport(threshold int, products []Product) LowStockReport {
	if products == nil {
		products = []Product{}
	}
	return LowStockReport{Threshold: threshold, Count: len(products), Products: products}
}
