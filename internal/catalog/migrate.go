package catalog

import (
	"fmt"

	"gorm.io/gorm"

	categoryrepo "github.com/tair/product-catalog/internal/category/repository"
	productrepo "github.com/tair/product-catalog/internal/product/repository"
	userrepo "github.com/tair/product-catalog/internal/user/repository"
)

type migrator interface {
	AutoMigrate() error
}

// Migrate creates or updates every table of the service
func Migrate(db *gorm.DB) error {
	steps := []struct {
		name string
		repo migrator
	}{
		{"categories", categoryrepo.NewGormCategoryRepository(db)},
		{"products", productrepo.NewGormProductRepository(db)},
		{"users", userrepo.NewGormUserRepository(db)},
	}

	for _, step := range steps {
		if err := step.repo.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", step.name, err)
		}
	}
	return nil
}
