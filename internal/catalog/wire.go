//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/config"
	"github.com/tair/product-catalog/pkg/metrics"
)

// InitializeApp builds every handler of the service from its external handles
func InitializeApp(
	db *gorm.DB,
	cfg *config.Config,
	tokens *auth.TokenManager,
	redisClient redis.Cmdable,
	publisher kafka.EventPublisher,
	registry *prometheus.Registry,
	catalogMetrics *metrics.CatalogMetrics,
) (*App, error) {
	wire.Build(
		RepositorySet,
		CategorySet,
		ProductSet,
		UserSet,
		EdgeSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
