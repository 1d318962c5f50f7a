package command

import (
	"context"
	"strings"

	categorycommand "github.com/tair/product-catalog/internal/category/usecase/command"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/pkg/logger"
)

// UpdateProductCommand represents a partial update of a product
type UpdateProductCommand struct {
	ID    uint
	Patch ProductInput
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo     domain.ProductRepository
	resolver *categorycommand.ResolveCategoryHandler
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository, resolver *categorycommand.ResolveCategoryHandler) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, resolver: resolver}
}

// Handle applies the patch. Stock and variants are deltas merged into the current
// inventory; every other present field overwrites. An explicit null salePrice clears it.
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	patch := cmd.Patch
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if err := validateInput(patch, false); err != nil {
		return nil, err
	}

	var categoryID uint
	if patch.Category != nil {
		id, err := h.resolver.Handle(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		categoryID = id
	}

	var updated *domain.Product
	err := h.repo.Transaction(ctx, func(repo domain.ProductRepository) error {
		product, err := repo.FindByIDForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}

		product.MergeInventory(patch.Stock, incomingVariants(patch.Variants))
		applyPatch(product, patch, categoryID)
		product.ApplyDerivedFields()

		if err := repo.Save(ctx, product); err != nil {
			return err
		}

		updated, err = repo.FindByID(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("product_id", updated.ID).Int("stock", updated.Stock).Msg("Product updated")
	return updated, nil
}

func applyPatch(p *domain.Product, patch ProductInput, categoryID uint) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if categoryID != 0 {
		p.CategoryID = categoryID
		p.Category = nil
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.SalePrice.Set {
		p.SalePrice = patch.SalePrice.Value
	}
	if patch.DiscountPercentage != nil {
		p.DiscountPercentage = *patch.DiscountPercentage
	}
	if patch.Image != nil {
		p.Image = patch.Image
	}
}
