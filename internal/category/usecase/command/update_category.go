package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/product-catalog/internal/category/domain"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/validate"
)

// UpdateCategoryCommand is a partial update; nil fields are left unchanged
type UpdateCategoryCommand struct {
	ID          uint
	Name        *string `validate:"omitempty,min=1,max=100"`
	Description *string `validate:"omitempty,max=500"`
}

// UpdateCategoryHandler handles category updates
type UpdateCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewUpdateCategoryHandler creates a new update category handler
func NewUpdateCategoryHandler(repo domain.CategoryRepository) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{repo: repo}
}

// Handle executes the update category command
func (h *UpdateCategoryHandler) Handle(ctx context.Context, cmd UpdateCategoryCommand) (*domain.Category, error) {
	if cmd.Name != nil {
		trimmed := strings.TrimSpace(*cmd.Name)
		cmd.Name = &trimmed
	}

	v := validate.New()
	v.Struct(cmd)
	if err := v.Err(); err != nil {
		return nil, err
	}

	category, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && !strings.EqualFold(*cmd.Name, category.Name) {
		other, err := h.repo.FindByName(ctx, *cmd.Name)
		if err != nil && !apperror.Is(err, apperror.KindNotFound) {
			return nil, err
		}
		if other != nil && other.ID != category.ID {
			return nil, apperror.Validation(validate.FailedMessage, fmt.Sprintf("Category '%s' already exists", other.Name))
		}
	}

	if cmd.Name != nil {
		category.Name = *cmd.Name
	}
	if cmd.Description != nil {
		category.Description = cmd.Description
	}

	if err := h.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
