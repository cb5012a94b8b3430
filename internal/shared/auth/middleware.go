// Package auth verifies that an HTTP caller is who it claims to be. It
// makes no authorization decisions: a valid token only asserts a user id,
// it does not grant or deny access to any operation.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nivenhub/timelinecore/internal/shared/config"
	"github.com/nivenhub/timelinecore/internal/shared/types"
)

type contextKey string

const UserContextKey contextKey = "user"

// Claims is the JWT claim set this system expects: just enough to
// extract an asserted user id from Subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Middleware creates JWT authentication middleware. It rejects requests
// with a missing or invalid token but performs no further authorization.
func Middleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(*Claims)
			if !ok || !token.Valid {
				writeError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			userId := types.UserId(claims.Subject)
			ctx := context.WithValue(r.Context(), UserContextKey, userId)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserId extracts the asserted caller identity from request context. The
// zero value means no authenticated caller is present.
func UserId(ctx context.Context) types.UserId {
	userId, _ := ctx.Value(UserContextKey).(types.UserId)
	return userId
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
