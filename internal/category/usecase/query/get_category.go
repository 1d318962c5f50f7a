package query

import (
	"context"

	"github.com/tair/product-catalog/internal/category/domain"
)

// GetCategoryHandler handles get category query
type GetCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewGetCategoryHandler creates a new get category handler
func NewGetCategoryHandler(repo domain.CategoryRepository) *GetCategoryHandler {
	return &GetCategoryHandler{repo: repo}
}

// Handle executes the get category query
func (h *GetCategoryHandler) Handle(ctx context.Context, id uint) (*domain.Category, error) {
	return h.repo.FindByID(ctx, id)
}
