package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
	"github.com/splitledger/bill_split_app/internal/utils"
)

// UserService handles business logic related to users and their credentials.
type UserService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &UserService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// CreateUser registers a new user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := s.GetLogger(ctx)

	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check for existing user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	user := domain.User{
		UserID:      newUserID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user, passwordHash); err != nil {
		logger.Error("Failed to save user in repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", newUserID))
	return &user, nil
}

// GetUserByID returns the user with the given ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// ListUsers returns a page of users.
func (s *UserService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	users, err := s.userRepo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// VerifyCredentials checks an email/password pair. It deliberately returns the
// same validation error for an unknown email and a wrong password.
func (s *UserService) VerifyCredentials(ctx context.Context, email string, password string) (*domain.User, error) {
	logger := s.GetLogger(ctx)

	user, passwordHash, err := s.userRepo.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrValidation)
		}
		logger.Error("Failed to look up credentials", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	if passwordHash == "" || !utils.CheckPasswordHash(password, passwordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrValidation)
	}

	return user, nil
}

// FindOrCreateOAuthUser resolves a user by verified email, creating one on
// first sign-in through an external identity provider.
func (s *UserService) FindOrCreateOAuthUser(ctx context.Context, email string, displayName string) (*domain.User, error) {
	logger := s.GetLogger(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up user by email", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	newUser := domain.User{
		UserID:      newUserID,
		DisplayName: displayName,
		Email:       email,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	// OAuth users have no local password; an empty hash disables password login.
	if err := s.userRepo.SaveUser(ctx, newUser, ""); err != nil {
		logger.Error("Failed to create user from oauth sign-in", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	logger.Info("User created from oauth sign-in", slog.String("user_id", newUserID))
	return &newUser, nil
}

// SetRefreshToken stores the refresh token hash and expiry for the user.
func (s *UserService) SetRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, &refreshTokenHash, &expiry); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token for the user.
func (s *UserService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken returns the stored refresh token hash and expiry, nil when
// none is stored.
func (s *UserService) GetRefreshToken(ctx context.Context, userID string) (*string, *time.Time, error) {
	hash, expiry, err := s.userRepo.FindRefreshToken(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load refresh token: %w", err)
	}
	return hash, expiry, nil
}
