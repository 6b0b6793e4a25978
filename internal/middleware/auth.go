package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/NalinDalal/ToDoist-be/internal/auth"
	"github.com/NalinDalal/ToDoist-be/internal/respond"
)

type contextKey struct{}

var userIDKey contextKey

// TokenVerifier validates a session token and returns the user id it asserts.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// RequireAuth is middleware that validates the bearer token and injects the
// user id into the request context.
//
// A missing header or an empty token is answered with 401; a token that is
// present but fails verification is answered with 403.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token := bearerToken(header)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				log.Printf("auth: rejected token (%s) from %s", failureKind(err), r.RemoteAddr)
				respond.Error(w, http.StatusForbidden, "Forbidden: Invalid Token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// bearerToken returns the second space-separated field of the header.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenInvalidSignature):
		return "invalid signature"
	case errors.Is(err, auth.ErrTokenMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}
