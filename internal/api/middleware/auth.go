package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dinewise/backend/internal/domain/providers"
	"github.com/dinewise/backend/internal/infrastructure/observability"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// legacyTokenHeader carries a bare token for older clients
const legacyTokenHeader = "x-access-token"

// UserIDFromContext returns the authenticated subject, or ""
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID attaches an authenticated subject to ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth rejects requests without a valid bearer credential and
// attaches the subject to the request context
func RequireAuth(validator providers.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "authentication token is missing")
				return
			}

			subject, err := validator.Validate(r.Context(), token)
			if err != nil {
				observability.LoggerFromContext(r.Context()).Debug().Err(err).Msg("rejected bearer token")
				unauthorized(w, "authentication token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), subject)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(legacyTokenHeader))
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "auth_error",
		"message": message,
	})
}
