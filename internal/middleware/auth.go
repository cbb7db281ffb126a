// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/GophDate/internal/models"
	"github.com/atinyakov/GophDate/internal/token"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenParser verifies session tokens.
type TokenParser interface {
	Parse(tokenStr string) (*token.Claims, error)
}

// TokenAuth resolves the caller from the Authorization bearer token.
//
// A request without a token proceeds as the guest. A token that fails
// verification is rejected with 401. On success the user is stored in the
// request context and can be read with UserFromContext.
func TokenAuth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := parser.Parse(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			u := models.User{ID: claims.UserID, Username: claims.Username}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or the guest when the
// request carried no token.
func UserFromContext(ctx context.Context) models.User {
	if u, ok := ctx.Value(userKey).(models.User); ok {
		return u
	}
	return models.User{ID: models.GuestID}
}
