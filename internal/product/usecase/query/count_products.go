package query

import (
	"context"

	"github.com/tair/product-catalog/internal/product/domain"
)

// CountProductsHandler counts the catalog; the handlers use it to refresh the products gauge
type CountProductsHandler struct {
	repo domain.ProductRepository
}

// NewCountProductsHandler creates a new count products handler
func NewCountProductsHandler(repo domain.ProductRepository) *CountProductsHandler {
	return &CountProductsHandler{repo: repo}
}

// Handle returns the number of products
func (h *CountProductsHandler) Handle(ctx context.Context) (int64, error) {
	return h.repo.Count(ctx)
}
