package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/internal/product/usecase/query"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/metrics"
	"github.com/tair/product-catalog/pkg/middleware"
	"github.com/tair/product-catalog/pkg/response"
)

// ProductHandler handles HTTP requests for products using CQRS pattern
type ProductHandler struct {
	// Command handlers
	upsertHandler *command.UpsertProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler

	// Query handlers
	getHandler       *query.GetProductHandler
	listHandler      *query.ListProductsHandler
	countHandler     *query.CountProductsHandler
	lowStockHandler  *query.LowStockHandler
	onSaleHandler    *query.OnSaleHandler
	inventoryHandler *query.InventorySummaryHandler

	auth      *middleware.Authenticator
	cache     *middleware.ResponseCache
	publisher kafka.EventPublisher
	metrics   *metrics.CatalogMetrics
}

// NewProductHandler creates a new product handler. Wire supplies every dependency.
func NewProductHandler(
	upsertHandler *command.UpsertProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	getHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	countHandler *query.CountProductsHandler,
	lowStockHandler *query.LowStockHandler,
	onSaleHandler *query.OnSaleHandler,
	inventoryHandler *query.InventorySummaryHandler,
	auth *middleware.Authenticator,
	cache *middleware.ResponseCache,
	publisher kafka.EventPublisher,
	catalogMetrics *metrics.CatalogMetrics,
) *ProductHandler {
	return &ProductHandler{
		upsertHandler:    upsertHandler,
		updateHandler:    updateHandler,
		deleteHandler:    deleteHandler,
		getHandler:       getHandler,
		listHandler:      listHandler,
		countHandler:     countHandler,
		lowStockHandler:  lowStockHandler,
		onSaleHandler:    onSaleHandler,
		inventoryHandler: inventoryHandler,
		auth:             auth,
		cache:            cache,
		publisher:        publisher,
		metrics:          catalogMetrics,
	}
}

// RegisterRoutes registers product routes. Reports are registered before
// /products/{id} so their paths are not taken for ids.
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/products/reports/low-stock", h.auth.Authorize(auth.RoleAdmin, h.LowStockReport)).Methods(http.MethodGet)
	router.HandleFunc("/products/reports/on-sale", h.auth.Authorize(auth.RoleAdmin, h.OnSaleReport)).Methods(http.MethodGet)
	router.HandleFunc("/products/reports/inventory", h.auth.Authorize(auth.RoleAdmin, h.InventoryReport)).Methods(http.MethodGet)

	router.HandleFunc("/products", h.cache.Cache(h.ListProducts)).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", h.auth.Authenticate(h.GetProduct)).Methods(http.MethodGet)

	router.HandleFunc("/products", h.auth.Authorize(auth.RoleAdmin, h.CreateProduct)).Methods(http.MethodPost)
	router.HandleFunc("/products/{id}", h.auth.Authorize(auth.RoleAdmin, h.UpdateProduct)).Methods(http.MethodPut)
	router.HandleFunc("/products/{id}", h.auth.Authorize(auth.RoleAdmin, h.DeleteProduct)).Methods(http.MethodDelete)
}

// ProductEnvelope wraps a product with a message
type ProductEnvelope struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

// CreateProduct handles POST /products: 201 with the new product, or 200 when
// the payload was merged into an existing one
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in command.ProductInput
	if err := response.DecodeJSON(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.upsertHandler.Handle(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.recordUpsert(r.Context(), result)

	if result.Created {
		response.JSON(w, http.StatusCreated, result.Product)
		return
	}
	response.JSON(w, http.StatusOK, ProductEnvelope{
		Message: "Stock updated for existing product",
		Product: result.Product,
	})
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listHandler.Handle(r.Context(), query.NewListProductsQuery(r.URL.Query()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var patch command.ProductInput
	if err := response.DecodeJSON(r, &patch); err != nil {
		response.Error(w, r, err)
		return
	}

	product, err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{ID: id, Patch: patch})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.publish(r.Context(), kafka.EventTypeProductUpdated, product.ID, product)
	response.JSON(w, http.StatusOK, ProductEnvelope{
		Message: "Product updated successfully",
		Product: product,
	})
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: id}); err != nil {
		response.Error(w, r, err)
		return
	}

	h.updateProductsMetric(r.Context())
	h.publish(r.Context(), kafka.EventTypeProductDeleted, id, map[string]uint{"id": id})
	response.Message(w, http.StatusOK, "Product deleted")
}

// LowStockReport handles GET /products/reports/low-stock
func (h *ProductHandler) LowStockReport(w http.ResponseWriter, r *http.Request) {
	var q query.LowStockQuery
	if values := r.URL.Query(); values.Has("threshold") {
		threshold := values.Get("threshold")
		q.Threshold = &threshold
	}

	report, err := h.lowStockHandler.Handle(r.Context(), q)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

// OnSaleReport handles GET /products/reports/on-sale
func (h *ProductHandler) OnSaleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.onSaleHandler.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

// InventoryReport handles GET /products/reports/inventory
func (h *ProductHandler) InventoryReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.inventoryHandler.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

// recordUpsert counts the outcome, refreshes the gauge and publishes the matching event
func (h *ProductHandler) recordUpsert(ctx context.Context, result *command.UpsertResult) {
	outcome, eventType := metrics.OutcomeMerged, kafka.EventTypeProductMerged
	if result.Created {
		outcome, eventType = metrics.OutcomeCreated, kafka.EventTypeProductCreated
	}

	if h.metrics != nil {
		h.metrics.Upserts.WithLabelValues(outcome).Inc()
	}
	if result.Created {
		h.updateProductsMetric(ctx)
	}
	h.publish(ctx, eventType, result.Product.ID, result.Product)
}

func (h *ProductHandler) updateProductsMetric(ctx context.Context) {
	if h.metrics == nil {
		return
	}
	count, err := h.countHandler.Handle(ctx)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to refresh products gauge")
		return
	}
	h.metrics.ProductsTotal.Set(float64(count))
}

// publish never fails the request; a lost event is logged
func (h *ProductHandler) publish(ctx context.Context, eventType string, id uint, payload interface{}) {
	if err := h.publisher.Publish(ctx, eventType, id, payload); err != nil {
		logger.Error(ctx).Err(err).Str("event_type", eventType).Uint("product_id", id).Msg("Failed to publish event")
	}
}

func productID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		response.Error(w, r, apperror.Validation("Invalid product ID"))
		return 0, false
	}
	return uint(id), true
}
