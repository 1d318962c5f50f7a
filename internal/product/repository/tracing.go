package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/product-catalog/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

// TracingProductRepository wraps a ProductRepository with a span per call
type TracingProductRepository struct {
	next domain.ProductRepository
}

// NewTracingProductRepository decorates next with tracing
func NewTracingProductRepository(next domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{next: next}
}

func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Product.Create",
		trace.WithAttributes(
			attribute.String("product.name", product.Name),
			attribute.Int("product.category_id", int(product.CategoryID)),
			attribute.Int("product.variants", len(product.Variants)),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, product)
	if err == nil {
		span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	}
	return finish(span, err)
}

func (r *TracingProductRepository) Save(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Product.Save",
		trace.WithAttributes(
			attribute.Int("product.id", int(product.ID)),
			attribute.Int("product.stock", product.Stock),
			attribute.Int("product.variants", len(product.Variants)),
		),
	)
	defer span.End()

	return finish(span, r.next.Save(ctx, product))
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	return product, finish(span, err)
}

func (r *TracingProductRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindByIDForUpdate",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.next.FindByIDForUpdate(ctx, id)
	return product, finish(span, err)
}

func (r *TracingProductRepository) FindMatching(ctx context.Context, c domain.MatchCriteria) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindMatching",
		trace.WithAttributes(
			attribute.String("match.name", c.Name),
			attribute.Int("match.category_id", int(c.CategoryID)),
			attribute.StringSlice("match.sizes", c.Sizes),
			attribute.StringSlice("match.colors", c.Colors),
		),
	)
	defer span.End()

	product, err := r.next.FindMatching(ctx, c)
	span.SetAttributes(attribute.Bool("match.found", product != nil))
	return product, finish(span, err)
}

func (r *TracingProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.List",
		trace.WithAttributes(
			attribute.String("filter.search", f.Search),
			attribute.String("filter.color", f.Color),
			attribute.String("filter.size", f.Size),
			attribute.Bool("filter.on_sale", f.OnSale),
		),
	)
	defer span.End()

	products, err := r.next.List(ctx, f)
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, finish(span, err)
}

func (r *TracingProductRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.Product.Delete",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	return finish(span, r.next.Delete(ctx, id))
}

func (r *TracingProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	return count, finish(span, err)
}

func (r *TracingProductRepository) FindLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindLowStock",
		trace.WithAttributes(attribute.Int("report.threshold", threshold)),
	)
	defer span.End()

	products, err := r.next.FindLowStock(ctx, threshold)
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, finish(span, err)
}

func (r *TracingProductRepository) FindOnSale(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindOnSale")
	defer span.End()

	products, err := r.next.FindOnSale(ctx)
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, finish(span, err)
}

func (r *TracingProductRepository) SummarizeInventory(ctx context.Context) (*domain.InventorySummary, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.SummarizeInventory")
	defer span.End()

	summary, err := r.next.SummarizeInventory(ctx)
	return summary, finish(span, err)
}

// Transaction traces the transaction as a whole; the repository handed to fn is traced too
func (r *TracingProductRepository) Transaction(ctx context.Context, fn func(repo domain.ProductRepository) error) error {
	ctx, span := tracer.Start(ctx, "repository.Product.Transaction")
	defer span.End()

	err := r.next.Transaction(ctx, func(repo domain.ProductRepository) error {
		return fn(NewTracingProductRepository(repo))
	})
	return finish(span, err)
}

func finish(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
