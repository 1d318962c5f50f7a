package command

import (
	"context"

	"github.com/tair/product-catalog/internal/category/domain"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/validate"
)

// ResolveCategoryHandler turns a category reference into an id.
// Ids are returned as given. Names are matched ignoring case and created when absent.
type ResolveCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewResolveCategoryHandler creates a new resolve category handler
func NewResolveCategoryHandler(repo domain.CategoryRepository) *ResolveCategoryHandler {
	return &ResolveCategoryHandler{repo: repo}
}

// Handle resolves ref. Only storage failures (and an empty ref) are errors.
func (h *ResolveCategoryHandler) Handle(ctx context.Context, ref domain.Ref) (uint, error) {
	if ref.IsID() {
		return ref.ID, nil
	}
	if ref.Name == "" {
		return 0, apperror.Validation(validate.FailedMessage, `"category" is required`)
	}

	existing, err := h.repo.FindByName(ctx, ref.Name)
	if err == nil {
		return existing.ID, nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return 0, err
	}

	category := &domain.Category{Name: ref.Name}
	if err := h.repo.Create(ctx, category); err != nil {
		// Lost a race with a concurrent create of the same name
		if again, findErr := h.repo.FindByName(ctx, ref.Name); findErr == nil {
			return again.ID, nil
		}
		return 0, err
	}

	logger.Info(ctx).Uint("category_id", category.ID).Str("name", category.Name).Msg("Category created on demand")
	return category.ID, nil
}
