package services

import (
	"context"
	"time"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/dto"
)

// UserSvcFacade defines the business operations on users.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// VerifyCredentials checks email/password and returns the user on success.
	// Failures surface as apperrors.ErrValidation without revealing which
	// part was wrong.
	VerifyCredentials(ctx context.Context, email string, password string) (*domain.User, error)

	// FindOrCreateOAuthUser resolves a user by verified email, creating one
	// on first sign-in through an external identity provider.
	FindOrCreateOAuthUser(ctx context.Context, email string, displayName string) (*domain.User, error)

	SetRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
	GetRefreshToken(ctx context.Context, userID string) (hash *string, expiry *time.Time, err error)
}

// TokenSvcFacade issues and validates the application's tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)

	// ValidateRefreshToken checks the raw token against the user's stored
	// hash and expiry, returning the user when it holds.
	ValidateRefreshToken(ctx context.Context, userID string, rawToken string) (*domain.User, error)
}

// GoogleOAuthSvcFacade wraps the external Google identity provider.
type GoogleOAuthSvcFacade interface {
	GenerateStateString(ctx context.Context) (string, error)
	GetLoginURL(ctx context.Context, state string) string

	// ExchangeAndVerify exchanges an authorization code and validates the ID
	// token, returning the verified email and display name.
	ExchangeAndVerify(ctx context.Context, code string) (email string, displayName string, err error)
}
