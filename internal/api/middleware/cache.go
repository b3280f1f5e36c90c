package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/dinewise/backend/internal/domain/providers"
	"github.com/dinewise/backend/internal/infrastructure/observability"
)

// DefaultResponseCacheRoutes lists the endpoints whose full response bodies
// are cached, with their TTL in seconds. Neither depends on ratings.
var DefaultResponseCacheRoutes = map[string]int{
	"/api/restaurants/cities":     600,
	"/api/restaurants/categories": 600,
}

// ResponseCache caches successful GET responses for exact route matches
type ResponseCache struct {
	cache  providers.CacheProvider
	routes map[string]int
}

// NewResponseCache creates a response cache for the given route TTLs
func NewResponseCache(cache providers.CacheProvider, routes map[string]int) *ResponseCache {
	return &ResponseCache{cache: cache, routes: routes}
}

// Middleware returns the cache middleware handler
func (m *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ttl, ok := m.routes[r.URL.Path]
		if m.cache == nil || r.Method != http.MethodGet || !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKey(r)

		if cached, err := m.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		w.Header().Set("X-Cache", "MISS")

		recorder := &bodyRecorder{ResponseWriter: w, statusCode: http.StatusOK, body: &bytes.Buffer{}}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), key, recorder.body.Bytes(), ttl); err != nil {
				observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("key", key).Msg("failed to cache response")
			}
		}
	})
}

func cacheKey(r *http.Request) string {
	hash := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return "http:cache:" + hex.EncodeToString(hash[:16])
}

// bodyRecorder tees the response body so it can be cached
type bodyRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

func (r *bodyRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

func (r *bodyRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
