package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/metrics"
)

const cacheKeyPrefix = "catalog:cache:"

// ResponseCache stores successful JSON responses of public read endpoints in Redis
type ResponseCache struct {
	redis redis.Cmdable
	ttl   time.Duration
}

// NewResponseCache creates a cache. A nil client disables caching.
func NewResponseCache(client redis.Cmdable, ttl time.Duration) *ResponseCache {
	return &ResponseCache{redis: client, ttl: ttl}
}

// Cache serves GET requests from Redis and stores 200 responses on a miss
func (c *ResponseCache) Cache(next http.HandlerFunc) http.HandlerFunc {
	if c == nil || c.redis == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := cacheKey(r)

		if cached, err := c.redis.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
			logger.Debug(ctx).Str("path", r.URL.Path).Msg("Cache hit")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		rec := &bodyRecorder{StatusRecorder: metrics.NewStatusRecorder(w)}
		next.ServeHTTP(rec, r)

		if rec.Status() != http.StatusOK {
			return
		}
		if err := c.redis.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to cache response")
		}
	}
}

// InvalidateOnWrite drops every cached response after a successful mutating request
func (c *ResponseCache) InvalidateOnWrite(next http.Handler) http.Handler {
	if c == nil || c.redis == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		rec := metrics.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		if rec.Status() < http.StatusBadRequest {
			if err := c.Invalidate(r.Context()); err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Failed to invalidate response cache")
			}
		}
	})
}

// Invalidate removes all cached responses
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	if c == nil || c.redis == nil {
		return nil
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return err
	}

	logger.Debug(ctx).Int("count", len(keys)).Msg("Response cache invalidated")
	return nil
}

func cacheKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.Method + ":" + r.URL.Path + "?" + r.URL.Query().Encode()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

type bodyRecorder struct {
	*metrics.StatusRecorder
	body bytes.Buffer
}

func (b *bodyRecorder) Write(p []byte) (int, error) {
	b.body.Write(p)
	return b.StatusRecorder.Write(p)
}
