package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func cacheKeys(mr *miniredis.Miniredis) []string {
	var keys []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, cacheKeyPrefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	_, client := newRedis(t)
	h := NewRateLimiter(client, 3, time.Minute).Middleware(http.HandlerFunc(okHandler))

	request := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for _, remaining := range []string{"2", "1", "0"} {
		rec := request("192.0.2.1:5000")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, remaining, rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := request("192.0.2.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests, please try again later."}`, rec.Body.String())

	// limits are per client address
	assert.Equal(t, http.StatusOK, request("192.0.2.2:5000").Code)
}

func TestRateLimiterWindowSlides(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRateLimiter(client, 1, 50*time.Millisecond)
	h := rl.Middleware(http.HandlerFunc(okHandler))

	serve := func() int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve())
	assert.Equal(t, http.StatusTooManyRequests, serve())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, http.StatusOK, serve())

	key := rl.keyPrefix + "192.0.2.1"
	assert.True(t, mr.Exists(key))
	assert.Greater(t, mr.TTL(key), time.Duration(0))
}

func TestResponseCacheServesHits(t *testing.T) {
	mr, client := newRedis(t)
	c := NewResponseCache(client, time.Minute)

	calls := 0
	h := c.Cache(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"id":1}]`))
	})

	first := httptest.NewRecorder()
	h(first, httptest.NewRequest(http.MethodGet, "/api/products?color=red", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	h(second, httptest.NewRequest(http.MethodGet, "/api/products?color=red", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, `[{"id":1}]`, second.Body.String())
	assert.Equal(t, 1, calls)

	keys := cacheKeys(mr)
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))

	mr.FastForward(time.Minute)
	third := httptest.NewRecorder()
	h(third, httptest.NewRequest(http.MethodGet, "/api/products?color=red", nil))
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	mr, client := newRedis(t)
	c := NewResponseCache(client, time.Minute)

	h := c.Cache(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Query validation failed"}`))
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/api/products?minPrice=abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.Empty(t, cacheKeys(mr))
}

func TestInvalidateOnWrite(t *testing.T) {
	mr, client := newRedis(t)
	c := NewResponseCache(client, time.Minute)

	read := c.Cache(okHandler)
	status := http.StatusCreated
	write := c.InvalidateOnWrite(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	warm := func() {
		for _, path := range []string{"/api/products", "/api/categories"} {
			read(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		}
	}

	warm()
	require.NoError(t, mr.Set("catalog:ratelimit:192.0.2.1", "kept"))
	require.Len(t, cacheKeys(mr), 2)

	// a rejected write keeps the cache
	status = http.StatusBadRequest
	write.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/products", nil))
	assert.Len(t, cacheKeys(mr), 2)

	// reads never invalidate
	write.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Len(t, cacheKeys(mr), 2)

	status = http.StatusCreated
	write.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/products", nil))
	assert.Empty(t, cacheKeys(mr))
	assert.True(t, mr.Exists("catalog:ratelimit:192.0.2.1"))

	warm()
	require.Len(t, cacheKeys(mr), 2)
	require.NoError(t, c.Invalidate(context.Background()))
	assert.Empty(t, cacheKeys(mr))
}
