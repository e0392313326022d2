package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pmichel/itinera/internal/domain"
)

type contextKey string

const (
	callerIDKey   contextKey = "callerID"
	callerRoleKey contextKey = "callerRole"
)

// Caller is the authenticated identity extracted from a bearer token.
type Caller struct {
	ID   uuid.UUID
	Role domain.Role
}

// CallerFromContext returns the authenticated caller placed in context by
// NewAuthenticator. The second return is false on unauthenticated requests.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	id, ok := ctx.Value(callerIDKey).(uuid.UUID)
	if !ok {
		return Caller{}, false
	}
	role, _ := ctx.Value(callerRoleKey).(domain.Role)
	return Caller{ID: id, Role: role}, true
}

// NewAuthenticator returns a middleware that requires a valid HS256 bearer
// token signed with secret. The token's subject and role claims are placed in
// the request context for handlers to read via CallerFromContext. Requests
// with a missing, malformed, or expired token get 401.
func NewAuthenticator(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				unauthorized(w, "invalid or expired token")
				return
			}

			sub, err := claims.GetSubject()
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}
			callerID, err := uuid.Parse(sub)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			role := domain.RoleUser
			if r, ok := claims["role"].(string); ok && r != "" {
				role = domain.Role(r)
			}

			ctx := context.WithValue(r.Context(), callerIDKey, callerID)
			ctx = context.WithValue(ctx, callerRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// Wire it after NewAuthenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}
		if caller.Role != domain.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive per RFC 9110.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, message string) {
	writeAuthError(w, http.StatusUnauthorized, "unauthorized", message)
}

// writeAuthError mirrors the handler package's error envelope so auth
// failures look the same as every other API error.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
