package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, path := range []string{"/products/1", "/products/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	count := testutil.ToFloat64(m.requestCounter.WithLabelValues(http.MethodGet, "/products/{id}", "404"))
	assert.Equal(t, float64(2), count)
}

func TestStatusRecorderKeepsFirstStatus(t *testing.T) {
	rec := NewStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, rec.Status())
	assert.Same(t, rec, NewStatusRecorder(rec))
}

func TestCatalogMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalogMetrics(reg)

	m.Upserts.WithLabelValues(OutcomeMerged).Inc()
	m.ProductsTotal.Set(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Upserts.WithLabelValues(OutcomeMerged)))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.ProductsTotal))
}
