package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/product-catalog/internal/category/domain"
)

var tracer = otel.Tracer("category-repository")

// TracingCategoryRepository wraps a CategoryRepository with a span per call
type TracingCategoryRepository struct {
	next domain.CategoryRepository
}

// NewTracingCategoryRepository decorates next with tracing
func NewTracingCategoryRepository(next domain.CategoryRepository) *TracingCategoryRepository {
	return &TracingCategoryRepository{next: next}
}

func (r *TracingCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	ctx, span := tracer.Start(ctx, "repository.Category.Create",
		trace.WithAttributes(attribute.String("category.name", category.Name)),
	)
	defer span.End()

	err := r.next.Create(ctx, category)
	if err == nil {
		span.SetAttributes(attribute.Int("category.id", int(category.ID)))
	}
	return finish(span, err)
}

func (r *TracingCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "repository.Category.FindByID",
		trace.WithAttributes(attribute.Int("category.id", int(id))),
	)
	defer span.End()

	category, err := r.next.FindByID(ctx, id)
	return category, finish(span, err)
}

func (r *TracingCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "repository.Category.FindByName",
		trace.WithAttributes(attribute.String("category.name", name)),
	)
	defer span.End()

	category, err := r.next.FindByName(ctx, name)
	return category, finish(span, err)
}

func (r *TracingCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "repository.Category.FindAll")
	defer span.End()

	categories, err := r.next.FindAll(ctx)
	span.SetAttributes(attribute.Int("result.count", len(categories)))
	return categories, finish(span, err)
}

func (r *TracingCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	ctx, span := tracer.Start(ctx, "repository.Category.Update",
		trace.WithAttributes(
			attribute.Int("category.id", int(category.ID)),
			attribute.String("category.name", category.Name),
		),
	)
	defer span.End()

	return finish(span, r.next.Update(ctx, category))
}

func (r *TracingCategoryRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.Category.Delete",
		trace.WithAttributes(attribute.Int("category.id", int(id))),
	)
	defer span.End()

	return finish(span, r.next.Delete(ctx, id))
}

func finish(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
