package ingest

import (
	"context"
	"encoding/json"

	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/internal/product/usecase/query"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/metrics"
	"github.com/tair/product-catalog/pkg/middleware"
)

// Handler feeds product.ingest messages into the merge engine.
// A message carries the same payload as POST /products.
type Handler struct {
	upsertHandler *command.UpsertProductHandler
	countHandler  *query.CountProductsHandler
	cache         *middleware.ResponseCache
	publisher     kafka.EventPublisher
	metrics       *metrics.CatalogMetrics
}

// NewHandler creates a new ingest handler
func NewHandler(
	upsertHandler *command.UpsertProductHandler,
	countHandler *query.CountProductsHandler,
	cache *middleware.ResponseCache,
	publisher kafka.EventPublisher,
	catalogMetrics *metrics.CatalogMetrics,
) *Handler {
	return &Handler{
		upsertHandler: upsertHandler,
		countHandler:  countHandler,
		cache:         cache,
		publisher:     publisher,
		metrics:       catalogMetrics,
	}
}

// Register subscribes the handler to product.ingest on consumer
func (h *Handler) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.EventTypeProductIngest, h.Handle)
}

// Handle upserts the product in value. Invalid payloads are rejected with the
// same validation error an HTTP client would get.
func (h *Handler) Handle(ctx context.Context, eventID string, value []byte) error {
	var in command.ProductInput
	if err := json.Unmarshal(value, &in); err != nil {
		return apperror.Validation("Invalid ingest payload", err.Error())
	}

	result, err := h.upsertHandler.Handle(ctx, in)
	if err != nil {
		return err
	}

	outcome, eventType := metrics.OutcomeMerged, kafka.EventTypeProductMerged
	if result.Created {
		outcome, eventType = metrics.OutcomeCreated, kafka.EventTypeProductCreated
	}

	if h.metrics != nil {
		h.metrics.Upserts.WithLabelValues(outcome).Inc()
		if result.Created {
			h.refreshGauge(ctx)
		}
	}

	if err := h.publisher.Publish(ctx, eventType, result.Product.ID, result.Product); err != nil {
		logger.Error(ctx).Err(err).Str("event_type", eventType).Uint("product_id", result.Product.ID).Msg("Failed to publish event")
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate response cache")
	}

	logger.Info(ctx).
		Str("event_id", eventID).
		Uint("product_id", result.Product.ID).
		Str("outcome", outcome).
		Msg("Product ingested")
	return nil
}

func (h *Handler) refreshGauge(ctx context.Context) {
	count, err := h.countHandler.Handle(ctx)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to refresh products gauge")
		return
	}
	h.metrics.ProductsTotal.Set(float64(count))
}
