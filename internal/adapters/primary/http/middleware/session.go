package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lorrc/coordination-backend/internal/auth"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
	"github.com/lorrc/coordination-backend/internal/infrastructure/logging"
)

type contextKey string

// ClaimsKey is the key used to store validated token claims in the request context.
const ClaimsKey contextKey = "claims"

// SessionIDHeader carries the dismissal session when bearer auth is disabled.
const SessionIDHeader = "X-Session-ID"

// TokenValidator validates bearer tokens issued by the identity provider.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// BearerSession validates the bearer token and binds its session to the
// request context. Requests without a valid token are rejected through
// respond with an unauthorized error.
func BearerSession(tv TokenValidator, respond ErrorResponder) func(http.Handler) http.Handler {
	respond = responderOrDefault(respond)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				respond(w, r, apperrors.NewUnauthorizedError("Authorization header format must be Bearer {token}"))
				return
			}

			claims, err := tv.ValidateToken(tokenString)
			if err != nil {
				respond(w, r, apperrors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = logging.WithSessionID(ctx, claims.Session())
			bindSession(w, claims.Session())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderSession binds the X-Session-ID header, when present, to the request
// context. Requests without one proceed anonymously.
func HeaderSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(SessionIDHeader))
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}
		bindSession(w, sessionID)
		next.ServeHTTP(w, r.WithContext(logging.WithSessionID(r.Context(), sessionID)))
	})
}

// GetClaims returns the validated claims, if bearer auth ran.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}

// GetSessionID returns the session bound to the request, or "".
func GetSessionID(ctx context.Context) string {
	return logging.GetSessionID(ctx)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
