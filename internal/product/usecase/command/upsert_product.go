package command

import (
	"context"
	"strings"

	categorycommand "github.com/tair/product-catalog/internal/category/usecase/command"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/pkg/logger"
)

// UpsertProductHandler creates a product or merges the payload into an existing one
type UpsertProductHandler struct {
	repo     domain.ProductRepository
	resolver *categorycommand.ResolveCategoryHandler
}

// NewUpsertProductHandler creates a new upsert product handler
func NewUpsertProductHandler(repo domain.ProductRepository, resolver *categorycommand.ResolveCategoryHandler) *UpsertProductHandler {
	return &UpsertProductHandler{repo: repo, resolver: resolver}
}

// UpsertResult is the stored product and whether it was newly created
type UpsertResult struct {
	Product *domain.Product
	Created bool
}

// Handle validates input, resolves its category and then, in one transaction,
// either merges stock and variants into the matching product or creates a new one.
// Only inventory is merged; the other fields of a matched product are left as they are.
func (h *UpsertProductHandler) Handle(ctx context.Context, in ProductInput) (*UpsertResult, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := validateInput(in, true); err != nil {
		return nil, err
	}

	categoryID, err := h.resolver.Handle(ctx, *in.Category)
	if err != nil {
		return nil, err
	}

	variants := incomingVariants(in.Variants)
	result := &UpsertResult{}

	err = h.repo.Transaction(ctx, func(repo domain.ProductRepository) error {
		var existing *domain.Product
		if criteria, ok := domain.NewMatchCriteria(*in.Name, categoryID, variants); ok {
			found, err := repo.FindMatching(ctx, criteria)
			if err != nil {
				return err
			}
			existing = found
		}

		var id uint
		if existing != nil {
			existing.MergeInventory(in.Stock, variants)
			existing.ApplyDerivedFields()
			if err := repo.Save(ctx, existing); err != nil {
				return err
			}
			id = existing.ID
		} else {
			product := newProduct(in, categoryID, variants)
			if err := repo.Create(ctx, product); err != nil {
				return err
			}
			id = product.ID
			result.Created = true
		}

		stored, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		result.Product = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("product_id", result.Product.ID).
		Bool("created", result.Created).
		Int("stock", result.Product.Stock).
		Msg("Product upserted")

	return result, nil
}

func newProduct(in ProductInput, categoryID uint, variants []domain.Variant) *domain.Product {
	p := &domain.Product{
		Name:        *in.Name,
		Description: in.Description,
		CategoryID:  categoryID,
		Price:       *in.Price,
		SalePrice:   in.SalePrice.Value,
		Image:       in.Image,
		Variants:    variants,
	}
	if in.DiscountPercentage != nil {
		p.DiscountPercentage = *in.DiscountPercentage
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	p.ApplyDerivedFields()
	return p
}
