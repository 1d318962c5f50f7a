package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorydomain "github.com/tair/product-catalog/internal/category/domain"
	categoryrepo "github.com/tair/product-catalog/internal/category/repository"
	categorycommand "github.com/tair/product-catalog/internal/category/usecase/command"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/repository"
	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/internal/product/usecase/query"
	dbtest "github.com/tair/product-catalog/internal/testutil"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/metrics"
	"github.com/tair/product-catalog/pkg/middleware"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ uint, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

type server struct {
	router    *mux.Router
	metrics   *metrics.CatalogMetrics
	publisher *recordingPublisher
	admin     string
	customer  string
}

func newServer(t *testing.T) *server {
	db := dbtest.NewDB(t, &categorydomain.Category{}, &domain.Product{}, &domain.Variant{})
	products := repository.NewGormProductRepository(db)
	categories := categoryrepo.NewGormCategoryRepository(db)
	resolver := categorycommand.NewResolveCategoryHandler(categories)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	admin, err := tokens.Generate(1, "admin@example.com", auth.RoleAdmin)
	require.NoError(t, err)
	customer, err := tokens.Generate(2, "jane@example.com", auth.RoleCustomer)
	require.NoError(t, err)

	catalogMetrics := metrics.NewCatalogMetrics(prometheus.NewRegistry())
	publisher := &recordingPublisher{}

	handler := NewProductHandler(
		command.NewUpsertProductHandler(products, resolver),
		command.NewUpdateProductHandler(products, resolver),
		command.NewDeleteProductHandler(products),
		query.NewGetProductHandler(products),
		query.NewListProductsHandler(products, categories),
		query.NewCountProductsHandler(products),
		query.NewLowStockHandler(products),
		query.NewOnSaleHandler(products),
		query.NewInventorySummaryHandler(products),
		middleware.NewAuthenticator(tokens),
		middleware.NewResponseCache(nil, 0),
		publisher,
		catalogMetrics,
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	return &server{router: router, metrics: catalogMetrics, publisher: publisher, admin: admin, customer: customer}
}

func (s *server) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

const teeBody = `{"name":"Tee","category":"Shirts","price":20,"variants":[{"size":"M","color":"red","quantity":3}]}`

func TestCreateThenMerge(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/products", s.admin, teeBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 3.0, created["stock"])
	assert.Equal(t, 20.0, created["finalPrice"])

	rec = s.do(http.MethodPost, "/products", s.admin, teeBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var merged ProductEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merged))
	assert.Equal(t, "Stock updated for existing product", merged.Message)
	assert.Equal(t, 6, merged.Product.Stock)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Upserts.WithLabelValues(metrics.OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Upserts.WithLabelValues(metrics.OutcomeMerged)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ProductsTotal))
	assert.Equal(t, []string{kafka.EventTypeProductCreated, kafka.EventTypeProductMerged}, s.publisher.events)
}

func TestAccessControl(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"create without token", http.MethodPost, "/products", "", http.StatusUnauthorized},
		{"create as customer", http.MethodPost, "/products", s.customer, http.StatusForbidden},
		{"get without token", http.MethodGet, "/products/1", "", http.StatusUnauthorized},
		{"report as customer", http.MethodGet, "/products/reports/on-sale", s.customer, http.StatusForbidden},
		{"report as admin", http.MethodGet, "/products/reports/on-sale", s.admin, http.StatusOK},
		{"list is public", http.MethodGet, "/products", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := ""
			if tt.method == http.MethodPost {
				body = teeBody
			}
			rec := s.do(tt.method, tt.path, tt.token, body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestListProductsResponses(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/products", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/products?categories=Nope", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Category 'Nope' not found"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/products?minPrice=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Query validation failed","details":"\"minPrice\" must be a number"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/products?minPrice=NaN&maxPrice=Inf", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Query validation failed","details":"\"minPrice\" must be a number, \"maxPrice\" must be a number"}`, rec.Body.String())
}

func TestGetUpdateDelete(t *testing.T) {
	s := newServer(t)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/products", s.admin, teeBody).Code)

	rec := s.do(http.MethodGet, "/products/1", s.customer, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/products/abc", s.customer, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid product ID"}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/products/1", s.admin, `{"stock":2,"discountPercentage":50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated ProductEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Product updated successfully", updated.Message)
	assert.True(t, updated.Product.IsOnSale)
	assert.Equal(t, 10.0, *updated.Product.SalePrice)

	rec = s.do(http.MethodDelete, "/products/1", s.admin, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Product deleted"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/products/1", s.customer, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())

	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.ProductsTotal))
}

func TestReportRoutes(t *testing.T) {
	s := newServer(t)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/products", s.admin, teeBody).Code)

	rec := s.do(http.MethodGet, "/products/reports/low-stock?threshold=5", s.admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var low domain.LowStockReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &low))
	assert.Equal(t, 5, low.Threshold)
	assert.Equal(t, 1, low.Count)

	rec = s.do(http.MethodGet, "/products/reports/low-stock?threshold=0", s.admin, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/products/reports/inventory", s.admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary domain.InventorySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(1), summary.TotalProducts)
	assert.Equal(t, int64(3), summary.TotalStock)
}
