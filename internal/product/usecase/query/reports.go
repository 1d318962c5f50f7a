package query

import (
	"context"
	"math"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/pkg/validate"
)

// LowStockQuery carries the raw threshold parameter; nil means the default
type LowStockQuery struct {
	Threshold *string
}

// LowStockHandler reports products whose stock is below a threshold
type LowStockHandler struct {
	repo domain.ProductRepository
}

// NewLowStockHandler creates a new low stock report handler
func NewLowStockHandler(repo domain.ProductRepository) *LowStockHandler {
	return &LowStockHandler{repo: repo}
}

// Handle validates the threshold (an integer from 1 to 1000) and builds the report
func (h *LowStockHandler) Handle(ctx context.Context, q LowStockQuery) (*domain.LowStockReport, error) {
	threshold, err := parseThreshold(q.Threshold)
	if err != nil {
		return nil, err
	}

	products, err := h.repo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}

	report := domain.NewLowStockReport(threshold, products)
	return &report, nil
}

func parseThreshold(raw *string) (int, error) {
	if raw == nil {
		return domain.DefaultLowStockThreshold, nil
	}

	v := validate.New()
	f, ok := validate.ParseNumber(*raw)
	switch {
	case !ok:
		v.Addf("%q must be a number", "threshold")
	case f != math.Trunc(f):
		v.Addf("%q must be an integer", "threshold")
	default:
		v.Var("threshold", f, "gte=1,lte=1000")
	}
	if err := v.ErrWithMessage(validate.QueryFailedMessage); err != nil {
		return 0, err
	}
	return int(f), nil
}

// OnSaleHandler reports products on sale
type OnSaleHandler struct {
	repo domain.ProductRepository
}

// NewOnSaleHandler creates a new on-sale report handler
func NewOnSaleHandler(repo domain.ProductRepository) *OnSaleHandler {
	return &OnSaleHandler{repo: repo}
}

// Handle builds the on-sale report
func (h *OnSaleHandler) Handle(ctx context.Context) (*domain.OnSaleReport, error) {
	products, err := h.repo.FindOnSale(ctx)
	if err != nil {
		return nil, err
	}
	report := domain.NewOnSaleReport(products)
	return &report, nil
}

// InventorySummaryHandler reports stock totals per category
type InventorySummaryHandler struct {
	repo domain.ProductRepository
}

// NewInventorySummaryHandler creates a new inventory summary handler
func NewInventorySummaryHandler(repo domain.ProductRepository) *InventorySummaryHandler {
	return &InventorySummaryHandler{repo: repo}
}

// Handle builds the inventory summary
func (h *InventorySummaryHandler) Handle(ctx context.Context) (*domain.InventorySummary, error) {
	return h.repo.SummarizeInventory(ctx)
}
