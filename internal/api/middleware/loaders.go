package middleware

import (
	"net/http"

	"github.com/dinewise/backend/internal/application/loaders"
	"github.com/dinewise/backend/internal/domain/repositories"
)

// Loaders attaches fresh per-request batch loaders so cuisine lookups made
// while serving one request share a single query per batch
func Loaders(repo repositories.RestaurantRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := loaders.WithLoaders(r.Context(), loaders.NewLoaders(repo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
