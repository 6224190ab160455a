package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	"github.com/shelfwise/shelfwise-backend/pkg/httputil"
	"github.com/shelfwise/shelfwise-backend/pkg/jwt"
)

type contextKey string

const (
	// UserIDKey is the request context key for the authenticated user's id
	UserIDKey contextKey = "user_id"
	// UserRoleKey is the request context key for the authenticated user's role
	UserRoleKey contextKey = "user_role"
)

// RequireAuth validates the request's token and stores the caller's id and
// role in the request context. Tokens are accepted from the Authorization
// header (Bearer scheme) or the "token" cookie.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			httputil.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		userID, err := jwt.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				httputil.RespondWithError(w, http.StatusUnauthorized, "Token has expired")
				return
			}
			debug.Debug("Rejected token: %v", err)
			httputil.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		role, err := jwt.GetUserRole(tokenString)
		if err != nil {
			httputil.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, UserRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the authenticated caller's id from the request context
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

// GetUserRole returns the authenticated caller's role from the request context
func GetUserRole(r *http.Request) string {
	role, _ := r.Context().Value(UserRoleKey).(string)
	return role
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}
