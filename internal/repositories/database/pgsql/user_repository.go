package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	"github.com/splitledger/bill_split_app/internal/models"
	"github.com/splitledger/bill_split_app/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	query := `
		INSERT INTO users (user_id, email, password_hash, display_name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Email,
		passwordHash,
		user.DisplayName,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, email, display_name, created_at, created_by, last_updated_at, last_updated_by, deleted_at
		FROM users
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	var m models.User
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&m.UserID,
		&m.Email,
		&m.DisplayName,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}

	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT user_id, email, display_name, created_at, created_by, last_updated_at, last_updated_by, deleted_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL;
	`
	var m models.User
	err := r.Pool.QueryRow(ctx, query, email).Scan(
		&m.UserID,
		&m.Email,
		&m.DisplayName,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT user_id, email, display_name, created_at, created_by, last_updated_at, last_updated_by, deleted_at
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at, user_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ms []models.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.UserID,
			&m.Email,
			&m.DisplayName,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating user rows: %w", err)
	}

	return mapping.ToDomainUserSlice(ms), nil
}

func (r *PgxUserRepository) FindCredentialsByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	query := `
		SELECT user_id, email, password_hash, display_name, created_at, created_by, last_updated_at, last_updated_by, deleted_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL;
	`
	var m models.User
	err := r.Pool.QueryRow(ctx, query, email).Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.DisplayName,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to find credentials by email: %w", err)
	}

	user := mapping.ToDomainUser(m)
	return &user, m.PasswordHash, nil
}

func (r *PgxUserRepository) FindRefreshToken(ctx context.Context, userID string) (*string, *time.Time, error) {
	query := `
		SELECT refresh_token_hash, refresh_token_expiry_time
		FROM users
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	var m models.User
	err := r.Pool.QueryRow(ctx, query, userID).Scan(&m.RefreshTokenHash, &m.RefreshTokenExpiryTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	var hash *string
	var expiry *time.Time
	if m.RefreshTokenHash.Valid {
		hash = &m.RefreshTokenHash.String
	}
	if m.RefreshTokenExpiryTime.Valid {
		expiry = &m.RefreshTokenExpiryTime.Time
	}
	return hash, expiry, nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash *string, expiryTime *time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_expiry_time = $3, last_updated_at = NOW()
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, userID, refreshTokenHash, expiryTime)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
