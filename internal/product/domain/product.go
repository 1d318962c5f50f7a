package domain

import (
	"context"
	"encoding/json"
	"time"

	categorydomain "github.com/tair/product-catalog/internal/category/domain"
)

// Variant is one stocked configuration (size and color) of a product
type Variant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"-"`
	Position  int    `gorm:"not null;default:0" json:"-"`
	Size      string `gorm:"size:50;not null;index" json:"size" validate:"min=1,max=50"`
	Color     string `gorm:"size:50;not null;index" json:"color" validate:"min=1,max=50"`
	Quantity  int    `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
}

// TableName specifies the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// Product represents a catalog product.
// Stock and the sale fields are derived; call ApplyDerivedFields before persisting.
type Product struct {
	ID                 uint                     `gorm:"primaryKey" json:"id"`
	Name               string                   `gorm:"size:200;not null;index" json:"name"`
	Description        *string                  `gorm:"size:1000" json:"description,omitempty"`
	CategoryID         uint                     `gorm:"not null;index" json:"categoryId"`
	Category           *categorydomain.Category `gorm:"foreignKey:CategoryID" json:"category"`
	Price              float64                  `gorm:"not null" json:"price"`
	SalePrice          *float64                 `json:"salePrice"`
	DiscountPercentage float64                  `gorm:"not null;default:0" json:"discountPercentage"`
	IsOnSale           bool                     `gorm:"not null;default:false;index" json:"isOnSale"`
	Stock              int                      `gorm:"not null;default:0;index" json:"stock"`
	Image              *string                  `gorm:"size:2048" json:"image,omitempty"`
	Variants           []Variant                `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt          time.Time                `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time                `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}

// FinalPrice is the price a customer pays
func (p *Product) FinalPrice() float64 {
	if p.IsOnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// MarshalJSON adds finalPrice and always renders variants as a list
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	variants := p.Variants
	if variants == nil {
		variants = []Variant{}
	}
	return json.Marshal(struct {
		plain
		Variants   []Variant `json:"variants"`
		FinalPrice float64   `json:"finalPrice"`
	}{
		plain:      plain(p),
		Variants:   variants,
		FinalPrice: p.FinalPrice(),
	})
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	// Save persists every column of product and synchronises its variant list
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	// FindByIDForUpdate is FindByID taking a row lock where the database supports it
	FindByIDForUpdate(ctx context.Context, id uint) (*Product, error)
	// FindMatching returns the merge candidate for an upsert, or nil when none exists
	FindMatching(ctx context.Context, criteria MatchCriteria) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)

	FindLowStock(ctx context.Context, threshold int) ([]Product, error)
	FindOnSale(ctx context.Context) ([]Product, error)
	SummarizeInventory(ctx context.Context) (*InventorySummary, error)

	// Transaction runs fn against a repository bound to one database transaction
	Transaction(ctx context.Context, fn func(repo ProductRepository) error) error
}
