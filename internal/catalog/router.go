package catalog

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/product-catalog/pkg/middleware"
)

const greeting = "Exploring the Product Catalog API! Visit /swagger/ for documentation."

// NewRouter assembles the HTTP surface of the service. Platform endpoints
// (health, metrics, swagger) bypass rate limiting; API routes do not.
func NewRouter(app *App, gatherer prometheus.Gatherer, health *HealthChecker, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Logging,
		middleware.Recovery,
		middleware.SecurityHeaders,
		app.HTTPMetrics.Middleware,
	)

	router.HandleFunc("/", home).Methods(http.MethodGet)
	router.Handle("/health", health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	api := router.NewRoute().Subrouter()
	api.Use(app.RateLimiter.Middleware, app.Cache.InvalidateOnWrite)
	app.Users.RegisterRoutes(api)
	app.Categories.RegisterRoutes(api)
	app.Products.RegisterRoutes(api)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	})

	return otelhttp.NewHandler(c.Handler(router), "catalog-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(greeting))
}
