package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	"github.com/splitledger/bill_split_app/internal/models"
	"github.com/splitledger/bill_split_app/internal/utils/mapping"
)

type PgxSettlementRepository struct {
	BaseRepository
}

func newPgxSettlementRepository(db *pgxpool.Pool) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

func (r *PgxSettlementRepository) SaveSettlement(ctx context.Context, settlement domain.Settlement) error {
	m := mapping.ToModelSettlement(settlement)
	query := `
		INSERT INTO settlements (settlement_id, group_id, from_user, to_user, amount, settled_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.SettlementID, m.GroupID, m.FromUser, m.ToUser, m.Amount, m.SettledAt, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save settlement: %w", err)
	}
	return nil
}

func (r *PgxSettlementRepository) ListSettlementsByGroup(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	query := `
		SELECT settlement_id, group_id, from_user, to_user, amount, settled_at, created_at
		FROM settlements
		WHERE group_id = $1
		ORDER BY settled_at, settlement_id;
	`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var ms []models.Settlement
	for rows.Next() {
		var m models.Settlement
		if err := rows.Scan(&m.SettlementID, &m.GroupID, &m.FromUser, &m.ToUser, &m.Amount, &m.SettledAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating settlement rows: %w", err)
	}
	return mapping.ToDomainSettlementSlice(ms), nil
}

func (r *PgxSettlementRepository) DeleteSettlementsByGroup(ctx context.Context, groupID string) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM settlements WHERE group_id = $1;`, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete settlements: %w", err)
	}
	return tag.RowsAffected(), nil
}
