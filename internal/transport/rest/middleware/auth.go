package middleware

import (
	"context"
	"errors"
	"net/http"

	"sessionbook/internal/core/token"
	"sessionbook/internal/domain"
	"sessionbook/internal/logger"
)

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the authenticated user from the request
// context. The second return is false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(principalKey).(*domain.User)
	return user, ok
}

// Resolver loads the principal a verified token subject points at.
type Resolver interface {
	ResolveByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Authenticate resolves the caller's identity from the Authorization header.
// It never rejects a request: a missing, invalid or stale token leaves the
// request anonymous, and route policy decides later whether that matters.
func Authenticate(codec *token.Codec, resolver Resolver, log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			authHeader := r.Header.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				raw = authHeader[7:]
			}

			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			result := codec.Validate(raw)
			if !result.Valid() {
				log.Debug("auth: invalid token",
					"reason", result.Reason.String(),
					"request_id", RequestIDFromContext(r.Context()),
				)
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.ResolveByEmail(r.Context(), result.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					log.Debug("auth: token subject no longer exists",
						"request_id", RequestIDFromContext(r.Context()),
					)
				} else {
					log.Warn("auth: principal lookup failed",
						"error", err,
						"request_id", RequestIDFromContext(r.Context()),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that reached it without a resolved principal.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
