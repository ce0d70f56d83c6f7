package repositories

import (
	"context"
	"time"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// UserReader defines read operations for users.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash *string, expiryTime *time.Time) error
}

// UserAuthReader exposes the credential columns needed by the auth flow.
type UserAuthReader interface {
	// FindCredentialsByEmail returns the user plus its password and refresh
	// token hashes; nil hashes mean none stored.
	FindCredentialsByEmail(ctx context.Context, email string) (*domain.User, string, error)
	FindRefreshToken(ctx context.Context, userID string) (hash *string, expiry *time.Time, err error)
}

// UserRepositoryFacade combines all user repository capabilities.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserAuthReader
}
