package catalog

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	categoryhttp "github.com/tair/product-catalog/internal/category/delivery/http"
	categorydomain "github.com/tair/product-catalog/internal/category/domain"
	categoryrepo "github.com/tair/product-catalog/internal/category/repository"
	categorycommand "github.com/tair/product-catalog/internal/category/usecase/command"
	categoryquery "github.com/tair/product-catalog/internal/category/usecase/query"
	producthttp "github.com/tair/product-catalog/internal/product/delivery/http"
	"github.com/tair/product-catalog/internal/product/delivery/ingest"
	productdomain "github.com/tair/product-catalog/internal/product/domain"
	productrepo "github.com/tair/product-catalog/internal/product/repository"
	productcommand "github.com/tair/product-catalog/internal/product/usecase/command"
	productquery "github.com/tair/product-catalog/internal/product/usecase/query"
	userhttp "github.com/tair/product-catalog/internal/user/delivery/http"
	userdomain "github.com/tair/product-catalog/internal/user/domain"
	userrepo "github.com/tair/product-catalog/internal/user/repository"
	usercommand "github.com/tair/product-catalog/internal/user/usecase/command"
	userquery "github.com/tair/product-catalog/internal/user/usecase/query"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/config"
	"github.com/tair/product-catalog/pkg/metrics"
	"github.com/tair/product-catalog/pkg/middleware"
)

// App holds everything the HTTP server and the Kafka consumer need
type App struct {
	Products    *producthttp.ProductHandler
	Categories  *categoryhttp.CategoryHandler
	Users       *userhttp.UserHandler
	Ingest      *ingest.Handler

	Cache       *middleware.ResponseCache
	RateLimiter *middleware.RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
}

// ProvideCategoryRepository provides the traced category repository
func ProvideCategoryRepository(db *gorm.DB) categorydomain.CategoryRepository {
	return categoryrepo.NewTracingCategoryRepository(categoryrepo.NewGormCategoryRepository(db))
}

// ProvideProductRepository provides the traced product repository
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepo.NewTracingProductRepository(productrepo.NewGormProductRepository(db))
}

// ProvideUserRepository provides the traced user repository
func ProvideUserRepository(db *gorm.DB) userdomain.UserRepository {
	return userrepo.NewTracingUserRepository(userrepo.NewGormUserRepository(db))
}

// ProvideResponseCache returns a cache that is a pass-through when caching is off
func ProvideResponseCache(client redis.Cmdable, cfg *config.Config) *middleware.ResponseCache {
	if !cfg.Cache.Enabled {
		return middleware.NewResponseCache(nil, 0)
	}
	return middleware.NewResponseCache(client, cfg.Cache.TTL)
}

// ProvideRateLimiter provides the per-IP rate limiter
func ProvideRateLimiter(client redis.Cmdable, cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(client, cfg.RateLimit.Max, cfg.RateLimit.Window)
}

// RepositorySet provides the traced repositories
var RepositorySet = wire.NewSet(
	ProvideCategoryRepository,
	ProvideProductRepository,
	ProvideUserRepository,
)

// CategorySet provides the category use cases and HTTP handler
var CategorySet = wire.NewSet(
	categorycommand.NewCreateCategoryHandler,
	categorycommand.NewUpdateCategoryHandler,
	categorycommand.NewDeleteCategoryHandler,
	categorycommand.NewResolveCategoryHandler,
	categoryquery.NewGetCategoryHandler,
	categoryquery.NewListCategoriesHandler,
	categoryhttp.NewCategoryHandler,
)

// ProductSet provides the product use cases, the HTTP handler and the ingest handler
var ProductSet = wire.NewSet(
	productcommand.NewUpsertProductHandler,
	productcommand.NewUpdateProductHandler,
	productcommand.NewDeleteProductHandler,
	productquery.NewGetProductHandler,
	productquery.NewListProductsHandler,
	productquery.NewCountProductsHandler,
	productquery.NewLowStockHandler,
	productquery.NewOnSaleHandler,
	productquery.NewInventorySummaryHandler,
	producthttp.NewProductHandler,
	ingest.NewHandler,
)

// UserSet provides the account use cases and HTTP handler
var UserSet = wire.NewSet(
	usercommand.NewRegisterUserHandler,
	usercommand.NewLoginUserHandler,
	userquery.NewListUsersHandler,
	userhttp.NewUserHandler,
	wire.Bind(new(usercommand.TokenIssuer), new(*auth.TokenManager)),
)

// EdgeSet provides the request pipeline: auth, cache, rate limiting and metrics
var EdgeSet = wire.NewSet(
	middleware.NewAuthenticator,
	wire.Bind(new(middleware.TokenVerifier), new(*auth.TokenManager)),
	ProvideResponseCache,
	ProvideRateLimiter,
	metrics.NewHTTPMetrics,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
)
