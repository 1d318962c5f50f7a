package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/tair/product-catalog/internal/product/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ApplyFilter translates a ProductFilter into WHERE conditions on products.
// Search, color and size are case-insensitive substring matches ORed together;
// the group and every other condition are ANDed.
func ApplyFilter(f domain.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.HasTextGroup() {
			var conds []string
			var args []interface{}
			if f.Search != "" {
				conds = append(conds, `LOWER(products.name) LIKE ? ESCAPE '\'`)
				args = append(args, containsPattern(f.Search))
			}
			if f.Color != "" {
				conds = append(conds, `EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND LOWER(pv.color) LIKE ? ESCAPE '\')`)
				args = append(args, containsPattern(f.Color))
			}
			if f.Size != "" {
				conds = append(conds, `EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND LOWER(pv.size) LIKE ? ESCAPE '\')`)
				args = append(args, containsPattern(f.Size))
			}
			db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
		}

		if f.CategoryID != nil {
			db = db.Where("products.category_id = ?", *f.CategoryID)
		}
		if f.MinPrice != nil {
			db = db.Where("products.price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("products.price <= ?", *f.MaxPrice)
		}
		if f.OnSale {
			db = db.Where("products.is_on_sale = ?", true)
		}
		if f.CreatedAfter != nil {
			db = db.Where("products.created_at >= ?", *f.CreatedAfter)
		}
		if f.CreatedBefore != nil {
			db = db.Where("products.created_at <= ?", *f.CreatedBefore)
		}
		return db
	}
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
