package repositories

import (
	"context"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// SettlementRepositoryFacade defines persistence operations for the
// append-only settlement log.
type SettlementRepositoryFacade interface {
	SaveSettlement(ctx context.Context, settlement domain.Settlement) error
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]domain.Settlement, error)

	// DeleteSettlementsByGroup wipes the group's settlement log and returns
	// the number of rows removed. Admin escape hatch, not part of normal flow.
	DeleteSettlementsByGroup(ctx context.Context, groupID string) (int64, error)
}
