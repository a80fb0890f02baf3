package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/internal/query"
)

// Authenticator defines the account lifecycle operations.
type Authenticator interface {
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, input SignInInput) (*AuthResult, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	VerifyEmail(ctx context.Context, token string) error
	SendPasswordResetEmail(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	GetUser(ctx context.Context, userID uuid.UUID) (*Profile, error)
	SearchUsers(ctx context.Context, search query.UserSearch) ([]UserSearchResult, error)
}

// TokenService defines the JWT operations the middleware depends on.
type TokenService interface {
	GenerateAccessToken(user *models.User) (string, error)
	GenerateRefreshToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
