package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/product-catalog/internal/category/domain"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/validate"
)

// CreateCategoryCommand represents the command to create a category
type CreateCategoryCommand struct {
	Name        string  `validate:"required,max=100"`
	Description *string `validate:"omitempty,max=500"`
}

// CreateCategoryHandler handles category creation
type CreateCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewCreateCategoryHandler creates a new create category handler
func NewCreateCategoryHandler(repo domain.CategoryRepository) *CreateCategoryHandler {
	return &CreateCategoryHandler{repo: repo}
}

// Handle validates the command and creates the category.
// A name already taken (ignoring case) is rejected.
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)

	v := validate.New()
	v.Struct(cmd)
	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := h.repo.FindByName(ctx, cmd.Name)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Validation(validate.FailedMessage, fmt.Sprintf("Category '%s' already exists", existing.Name))
	}

	category := &domain.Category{Name: cmd.Name, Description: cmd.Description}
	if err := h.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
