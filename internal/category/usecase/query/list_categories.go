package query

import (
	"context"

	"github.com/tair/product-catalog/internal/category/domain"
)

// ListCategoriesHandler handles list categories query
type ListCategoriesHandler struct {
	repo domain.CategoryRepository
}

// NewListCategoriesHandler creates a new list categories handler
func NewListCategoriesHandler(repo domain.CategoryRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

// Handle returns every category ordered by name
func (h *ListCategoriesHandler) Handle(ctx context.Context) ([]domain.Category, error) {
	return h.repo.FindAll(ctx)
}
