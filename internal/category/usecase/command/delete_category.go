package command

import (
	"context"

	"github.com/tair/product-catalog/internal/category/domain"
)

// DeleteCategoryHandler deletes a category. Products keep their (now dangling) reference.
type DeleteCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewDeleteCategoryHandler creates a new delete category handler
func NewDeleteCategoryHandler(repo domain.CategoryRepository) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{repo: repo}
}

// Handle executes the delete category command
func (h *DeleteCategoryHandler) Handle(ctx context.Context, id uint) error {
	return h.repo.Delete(ctx, id)
}
