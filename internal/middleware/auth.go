// Package middleware holds the sandbox server's HTTP middleware.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmynk/sharesplit/internal/auth"
	"github.com/mmynk/sharesplit/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// UsernameKey is the context key for the authenticated username.
	UsernameKey contextKey = "username"

	userHolderKey contextKey = "user_holder"
)

// userHolder lets outer middleware see who a request was authenticated as.
type userHolder struct {
	userID models.ID
}

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, userHolderKey, h)
}

// GetUserID extracts the user ID from the context, empty if unauthenticated.
func GetUserID(ctx context.Context) models.ID {
	userID, _ := ctx.Value(UserIDKey).(models.ID)
	return userID
}

// GetUsername extracts the username from the context.
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(UsernameKey).(string)
	return username
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, userID models.ID, username string) context.Context {
	if h, ok := ctx.Value(userHolderKey).(*userHolder); ok {
		h.userID = userID
	}
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UsernameKey, username)
}

// UnauthorizedFunc writes the response for a rejected request.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, err error)

// RequireAuth validates the bearer token and adds the user to the request
// context. Requests without a valid token are passed to onError.
func RequireAuth(jwtManager *auth.JWTManager, onError UnauthorizedFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				onError(w, r, err)
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth adds the user to the context when a valid token is present
// and lets every request through.
func OptionalAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, err := bearerToken(r); err == nil {
				if claims, err := jwtManager.Validate(token); err == nil {
					r = r.WithContext(WithUser(r.Context(), claims.UserID, claims.Username))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", auth.ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}
