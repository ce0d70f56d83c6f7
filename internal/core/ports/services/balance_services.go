package services

import (
	"context"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/dto"
)

// BalanceSvcFacade exposes the balance/settlement computations. The two
// compute operations are pure reads over a snapshot of stored facts; only
// RecordSettlement and ClearSettlements mutate state.
type BalanceSvcFacade interface {
	// ComputeLedger builds the per-member ledger for the group in its base
	// currency, including data-quality warnings.
	ComputeLedger(ctx context.Context, groupID string, requestingUserID string, period domain.Period) (*domain.Ledger, error)

	// ComputeTransfers derives the minimal repayment list from a balance
	// vector. It is exposed separately so callers can replay it over an
	// already-fetched ledger.
	ComputeTransfers(balances []domain.MemberBalance) []domain.Transfer

	// RecordSettlement appends a settlement. Amounts must be positive and
	// both parties must be group members. Deliberately no dedup: recording
	// the same settlement twice doubles the reduction.
	RecordSettlement(ctx context.Context, groupID string, req dto.SettleRequest, requestingUserID string) (*domain.Settlement, error)

	// ClearSettlements wipes the group's settlement log (owner only).
	ClearSettlements(ctx context.Context, groupID string, requestingUserID string) (int64, error)
}

// StatsSvcFacade exposes period spending statistics.
type StatsSvcFacade interface {
	GetGroupStats(ctx context.Context, groupID string, requestingUserID string, period domain.Period) (*domain.GroupStats, error)
}
