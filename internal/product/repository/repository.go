package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/pkg/apperror"
)

// ErrProductNotFound is returned when no product has the requested id
var ErrProductNotFound = apperror.NotFound("Product not found")

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// AutoMigrate creates or updates the products and product_variants tables
func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.Variant{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	for i := range product.Variants {
		product.Variants[i].Position = i
	}
	if err := r.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		return apperror.Storage(fmt.Errorf("failed to create product: %w", err))
	}
	return nil
}

// Save updates every product column, then upserts the variants in list order
// and removes variants no longer present.
func (r *GormProductRepository) Save(ctx context.Context, product *domain.Product) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Save(product).Error; err != nil {
		return apperror.Storage(fmt.Errorf("failed to update product: %w", err))
	}

	keep := make([]uint, 0, len(product.Variants))
	for i := range product.Variants {
		v := &product.Variants[i]
		v.ProductID = product.ID
		v.Position = i
		if err := db.Save(v).Error; err != nil {
			return apperror.Storage(fmt.Errorf("failed to save variant: %w", err))
		}
		keep = append(keep, v.ID)
	}

	stale := db.Where("product_id = ?", product.ID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&domain.Variant{}).Error; err != nil {
		return apperror.Storage(fmt.Errorf("failed to prune variants: %w", err))
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	return r.findByID(r.lock(r.db.WithContext(ctx)), id)
}

func (r *GormProductRepository) findByID(db *gorm.DB, id uint) (*domain.Product, error) {
	var product domain.Product
	if err := withAssociations(db).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperror.Storage(fmt.Errorf("failed to find product: %w", err))
	}
	return &product, nil
}

func (r *GormProductRepository) FindMatching(ctx context.Context, c domain.MatchCriteria) (*domain.Product, error) {
	var product domain.Product
	err := withAssociations(r.lock(r.db.WithContext(ctx))).
		Where("LOWER(products.name) = LOWER(?)", c.Name).
		Where("products.category_id = ?", c.CategoryID).
		Where("EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND pv.size IN ?)", c.Sizes).
		Where("EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND pv.color IN ?)", c.Colors).
		Order("products.id").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.Storage(fmt.Errorf("failed to find matching product: %w", err))
	}
	return &product, nil
}

func (r *GormProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products := []domain.Product{}
	err := withAssociations(r.db.WithContext(ctx)).
		Scopes(ApplyFilter(filter)).
		Order("products.id").
		Find(&products).Error
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("failed to list products: %w", err))
	}
	return products, nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Product{}, id)
		if result.Error != nil {
			return apperror.Storage(fmt.Errorf("failed to delete product: %w", result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.Variant{}).Error; err != nil {
			return apperror.Storage(fmt.Errorf("failed to delete variants: %w", err))
		}
		return nil
	})
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, apperror.Storage(fmt.Errorf("failed to count products: %w", err))
	}
	return count, nil
}

func (r *GormProductRepository) FindLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	products := []domain.Product{}
	err := withAssociations(r.db.WithContext(ctx)).
		Where("products.stock < ?", threshold).
		Order("products.stock, products.id").
		Find(&products).Error
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("failed to find low stock products: %w", err))
	}
	return products, nil
}

func (r *GormProductRepository) FindOnSale(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	err := withAssociations(r.db.WithContext(ctx)).
		Where("products.is_on_sale = ?", true).
		Order("products.id").
		Find(&products).Error
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("failed to find products on sale: %w", err))
	}
	return products, nil
}

// SummarizeInventory groups products by category id. Products whose category was
// deleted still form a group, with a nil name.
func (r *GormProductRepository) SummarizeInventory(ctx context.Context) (*domain.InventorySummary, error) {
	rows := []domain.CategorySummary{}
	err := r.db.WithContext(ctx).
		Table("products").
		Select(`products.category_id AS category_id,
			categories.name AS category_name,
			COUNT(products.id) AS product_count,
			COALESCE(SUM(products.stock), 0) AS total_stock`).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Group("products.category_id, categories.name").
		Order("products.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.Storage(fmt.Errorf("failed to summarize inventory: %w", err))
	}

	summary := &domain.InventorySummary{CategorySummary: rows}
	for _, row := range rows {
		summary.TotalProducts += row.ProductCount
		summary.TotalStock += row.TotalStock
	}
	return summary, nil
}

func (r *GormProductRepository) Transaction(ctx context.Context, fn func(repo domain.ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormProductRepository(tx))
	})
}

// lock adds SELECT ... FOR UPDATE on PostgreSQL. SQLite serialises writers on its own.
func (r *GormProductRepository) lock(db *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "products"}})
	}
	return db
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.position, product_variants.id")
		})
}
