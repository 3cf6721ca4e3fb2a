package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/anvaya/anvaya-go/internal/crypto"
	"github.com/anvaya/anvaya-go/internal/model"
)

type contextKey string

const claimsKey contextKey = "claims"

const (
	msgTokenMissing = "Authorization token is missing"
	msgTokenInvalid = "Invalid or expired token"
)

// JWTAuth returns middleware that validates the token in the Authorization
// header. The "Bearer " scheme prefix is optional.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := crypto.BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, msgTokenMissing)
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity is the authenticated caller as carried by the token.
type Identity struct {
	UserID int64
	Role   model.Role
}

// IdentityFromContext extracts the authenticated caller from the request context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	claims, ok := ctx.Value(claimsKey).(*crypto.Claims)
	if !ok || claims == nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.UserID, Role: model.Role(claims.Role)}, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
