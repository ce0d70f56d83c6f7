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
	"github.com/splitledger/bill_split_app/internal/utils/accounting"
)

// BalanceService computes ledgers and repayment plans and manages the
// append-only settlement log. The computations read a snapshot of stored
// facts; nothing is cached between calls, so a ledger always reflects the
// latest receipts, assignments, payments and settlements.
type BalanceService struct {
	BaseService
	groupRepo      portsrepo.GroupReader
	receiptRepo    portsrepo.ReceiptReader
	settlementRepo portsrepo.SettlementRepositoryFacade
	now            func() time.Time
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(
	groupRepo portsrepo.GroupReader,
	receiptRepo portsrepo.ReceiptReader,
	settlementRepo portsrepo.SettlementRepositoryFacade,
	authorizer portssvc.GroupAuthorizerSvc,
) portssvc.BalanceSvcFacade {
	return &BalanceService{
		BaseService:    BaseService{GroupAuthorizer: authorizer},
		groupRepo:      groupRepo,
		receiptRepo:    receiptRepo,
		settlementRepo: settlementRepo,
		now:            time.Now,
	}
}

var _ portssvc.BalanceSvcFacade = (*BalanceService)(nil)

// ComputeLedger builds the per-member ledger for the group in its base
// currency, including data-quality warnings.
func (s *BalanceService) ComputeLedger(ctx context.Context, groupID string, requestingUserID string, period domain.Period) (*domain.Ledger, error) {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown period %q", apperrors.ErrValidation, period)
	}

	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	receipts, err := s.receiptRepo.ListReceiptsWithDetails(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}
	settlements, err := s.settlementRepo.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}

	ledger := accounting.BuildLedger(group.BaseCurrency, members, receipts, settlements, period, s.now())

	logger.Debug("Ledger computed",
		slog.String("group_id", groupID),
		slog.Int("receipts", len(receipts)),
		slog.Int("warnings", len(ledger.Warnings)))
	return &ledger, nil
}

// ComputeTransfers derives the minimal repayment list from a balance vector.
func (s *BalanceService) ComputeTransfers(balances []domain.MemberBalance) []domain.Transfer {
	return accounting.MinimizeTransfers(balances)
}

// RecordSettlement appends one settlement to the group's log. No dedup:
// recording the same settlement twice doubles the reduction.
func (s *BalanceService) RecordSettlement(ctx context.Context, groupID string, req dto.SettleRequest, requestingUserID string) (*domain.Settlement, error) {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: settlement amount must be positive", apperrors.ErrValidation)
	}
	if req.FromUser == req.ToUser {
		return nil, fmt.Errorf("%w: cannot settle against yourself", apperrors.ErrValidation)
	}
	for _, userID := range []string{req.FromUser, req.ToUser} {
		if _, err := s.groupRepo.FindMember(ctx, groupID, userID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s is not a group member", apperrors.ErrValidation, userID)
			}
			return nil, fmt.Errorf("failed to check settlement party membership: %w", err)
		}
	}

	now := s.now()
	settlement := domain.Settlement{
		SettlementID: uuid.NewString(),
		GroupID:      groupID,
		FromUser:     req.FromUser,
		ToUser:       req.ToUser,
		Amount:       req.Amount,
		SettledAt:    now,
		CreatedAt:    now,
	}

	if err := s.settlementRepo.SaveSettlement(ctx, settlement); err != nil {
		logger.Error("Failed to save settlement", slog.String("error", err.Error()), slog.String("group_id", groupID))
		return nil, fmt.Errorf("failed to record settlement: %w", err)
	}

	logger.Info("Settlement recorded",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("group_id", groupID),
		slog.String("from_user", req.FromUser),
		slog.String("to_user", req.ToUser))
	return &settlement, nil
}

// ClearSettlements wipes the group's settlement log. Owner only.
func (s *BalanceService) ClearSettlements(ctx context.Context, groupID string, requestingUserID string) (int64, error) {
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleOwner); err != nil {
		return 0, err
	}

	deleted, err := s.settlementRepo.DeleteSettlementsByGroup(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear settlements: %w", err)
	}

	s.LogInfo(ctx, "Settlement log cleared", slog.String("group_id", groupID), slog.Int64("deleted", deleted))
	return deleted, nil
}
