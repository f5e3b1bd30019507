package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/deals-api/internal/domain"
)

type contextKey string

const UserKey contextKey = "user"

// TokenResolver turns a bearer token into the user's current record.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

// Auth returns middleware that validates the Bearer token and injects the
// freshly-resolved user into the request context. The user record comes from
// the store, not from the token, so verification-state changes take effect on
// the very next request.
func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			user, err := resolver.ResolveToken(r.Context(), tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}
