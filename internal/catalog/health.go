package catalog

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/response"
)

const pingTimeout = 2 * time.Second

// HealthChecker reports the service healthy while the database answers pings
type HealthChecker struct {
	db *gorm.DB
}

// NewHealthChecker creates a checker for db
func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Check pings the database
func (h *HealthChecker) Check(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// ServeHTTP handles GET /health: 200 when the database is up, 503 otherwise
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Check(r.Context()); err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Health check failed")
		response.JSON(w, http.StatusServiceUnavailable, healthBody{Status: "unhealthy", Database: "down"})
		return
	}
	response.JSON(w, http.StatusOK, healthBody{Status: "healthy", Database: "up"})
}

// Watch keeps the gRPC health status in step with the database until ctx ends
func (h *HealthChecker) Watch(ctx context.Context, server *health.Server, interval time.Duration) {
	update := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if err := h.Check(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		server.SetServingStatus("", status)
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			server.Shutdown()
			return
		case <-ticker.C:
			update()
		}
	}
}
