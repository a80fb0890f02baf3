package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/api/apierr"
	"github.com/himanshinagori/buddyboard/internal/auth"
	"github.com/himanshinagori/buddyboard/internal/database/models"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	UserRoleKey  contextKey = "user_role"
)

// Auth verifies the caller's token and attaches their identity to the
// request context. The token is read from the Authorization header first,
// then from the accessToken cookie.
func Auth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}

			if token == "" {
				if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
					token = cookie.Value
				}
			}

			if token == "" {
				apierr.Write(w, nil, apierr.Unauthorized("Unauthorized request"))
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				apierr.Write(w, nil, apierr.Unauthorized("Invalid or expired access token"))
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to callers whose token carries the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserRole(r.Context()) != models.RoleAdmin {
			apierr.Write(w, nil, apierr.Forbidden("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper functions to extract values from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}
