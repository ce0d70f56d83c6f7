package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	"github.com/splitledger/bill_split_app/internal/models"
	"github.com/splitledger/bill_split_app/internal/utils/mapping"
)

type PgxGroupRepository struct {
	BaseRepository
}

func newPgxGroupRepository(db *pgxpool.Pool) portsrepo.GroupRepositoryFacade {
	return &PgxGroupRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.GroupRepositoryFacade = (*PgxGroupRepository)(nil)

const groupColumns = `group_id, name, invite_code, base_currency, created_at, created_by, last_updated_at, last_updated_by`

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var m models.Group
	err := row.Scan(
		&m.GroupID,
		&m.Name,
		&m.InviteCode,
		&m.BaseCurrency,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	group := mapping.ToDomainGroup(m)
	return &group, nil
}

func (r *PgxGroupRepository) SaveGroup(ctx context.Context, group domain.Group) error {
	m := mapping.ToModelGroup(group)
	query := `
		INSERT INTO groups (group_id, name, invite_code, base_currency, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GroupID,
		m.Name,
		m.InviteCode,
		m.BaseCurrency,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invite code collision", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save group: %w", err)
	}
	return nil
}

func (r *PgxGroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE group_id = $1;`
	group, err := scanGroup(r.Pool.QueryRow(ctx, query, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group by ID %s: %w", groupID, err)
	}
	return group, nil
}

func (r *PgxGroupRepository) FindGroupByInviteCode(ctx context.Context, inviteCode string) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE invite_code = $1;`
	group, err := scanGroup(r.Pool.QueryRow(ctx, query, inviteCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group by invite code: %w", err)
	}
	return group, nil
}

func (r *PgxGroupRepository) ListGroupsByUser(ctx context.Context, userID string) ([]domain.Group, error) {
	query := `
		SELECT g.group_id, g.name, g.invite_code, g.base_currency, g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.group_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC, g.group_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating group rows: %w", err)
	}
	return groups, nil
}

func (r *PgxGroupRepository) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	query := `
		SELECT gm.group_id, gm.user_id, u.display_name, gm.role, gm.joined_at
		FROM group_members gm
		JOIN users u ON u.user_id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at, gm.user_id;
	`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var ms []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.DisplayName, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating group member rows: %w", err)
	}
	return mapping.ToDomainGroupMemberSlice(ms), nil
}

func (r *PgxGroupRepository) FindMember(ctx context.Context, groupID string, userID string) (*domain.GroupMember, error) {
	query := `
		SELECT gm.group_id, gm.user_id, u.display_name, gm.role, gm.joined_at
		FROM group_members gm
		JOIN users u ON u.user_id = gm.user_id
		WHERE gm.group_id = $1 AND gm.user_id = $2;
	`
	var m models.GroupMember
	err := r.Pool.QueryRow(ctx, query, groupID, userID).Scan(&m.GroupID, &m.UserID, &m.DisplayName, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group member: %w", err)
	}
	member := mapping.ToDomainGroupMember(m)
	return &member, nil
}

func (r *PgxGroupRepository) AddMember(ctx context.Context, member domain.GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, user_id) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query, member.GroupID, member.UserID, string(member.Role), member.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *PgxGroupRepository) UpdateBaseCurrency(ctx context.Context, groupID string, baseCurrency string, updaterUserID string) error {
	query := `
		UPDATE groups
		SET base_currency = $2, last_updated_at = NOW(), last_updated_by = $3
		WHERE group_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, groupID, baseCurrency, updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to update base currency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
