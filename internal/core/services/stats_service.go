package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/utils/accounting"
)

// StatsService computes period spending statistics over the same ledger
// machinery the balances endpoint uses, so both always agree.
type StatsService struct {
	BaseService
	groupRepo   portsrepo.GroupReader
	receiptRepo portsrepo.ReceiptReader
	now         func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	groupRepo portsrepo.GroupReader,
	receiptRepo portsrepo.ReceiptReader,
	authorizer portssvc.GroupAuthorizerSvc,
) portssvc.StatsSvcFacade {
	return &StatsService{
		BaseService: BaseService{GroupAuthorizer: authorizer},
		groupRepo:   groupRepo,
		receiptRepo: receiptRepo,
		now:         time.Now,
	}
}

var _ portssvc.StatsSvcFacade = (*StatsService)(nil)

// GetGroupStats summarizes the group's spending over the period. Total
// spending includes charges that could not be attributed to any member.
func (s *StatsService) GetGroupStats(ctx context.Context, groupID string, requestingUserID string, period domain.Period) (*domain.GroupStats, error) {
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

	now := s.now()
	ledger := accounting.BuildLedger(group.BaseCurrency, members, receipts, nil, period, now)

	since := period.Start(now)
	receiptCount := 0
	for _, receipt := range receipts {
		when := receipt.CreatedAt
		if receipt.ReceiptDate != nil {
			when = *receipt.ReceiptDate
		}
		if since.IsZero() || !when.Before(since) {
			receiptCount++
		}
	}

	byUser := make([]domain.MemberBalance, len(ledger.PerMember))
	copy(byUser, ledger.PerMember)
	sort.SliceStable(byUser, func(i, j int) bool {
		return byUser[i].Spent.GreaterThan(byUser[j].Spent)
	})

	stats := &domain.GroupStats{
		Period:         period,
		BaseCurrency:   group.BaseCurrency,
		TotalSpending:  ledger.Totals.Spent.Add(ledger.Totals.Unattributed),
		ReceiptCount:   receiptCount,
		SpendingByUser: byUser,
	}
	return stats, nil
}
