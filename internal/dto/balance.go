package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// SettleRequest records one manual debt resolution between two members.
type SettleRequest struct {
	FromUser string          `json:"fromUser" binding:"required"`
	ToUser   string          `json:"toUser" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// BalancesParams defines query parameters for the balances endpoint.
type BalancesParams struct {
	Period string `form:"period,default=all"`
}

// BalancesResponse bundles the ledger with its derived repayment plan.
// decimal.Decimal fields marshal as exact decimal strings.
type BalancesResponse struct {
	BaseCurrency string                 `json:"baseCurrency"`
	PerMember    []domain.MemberBalance `json:"perMember"`
	Totals       domain.LedgerTotals    `json:"totals"`
	Transfers    []domain.Transfer      `json:"transfers"`
	Warnings     []domain.LedgerWarning `json:"warnings,omitempty"`
}

// ToBalancesResponse combines a ledger and its transfers into one DTO.
func ToBalancesResponse(l *domain.Ledger, transfers []domain.Transfer) BalancesResponse {
	return BalancesResponse{
		BaseCurrency: l.BaseCurrency,
		PerMember:    l.PerMember,
		Totals:       l.Totals,
		Transfers:    transfers,
		Warnings:     l.Warnings,
	}
}

// SettlementResponse defines the data returned for a recorded settlement.
type SettlementResponse struct {
	SettlementID string          `json:"settlementID"`
	GroupID      string          `json:"groupID"`
	FromUser     string          `json:"fromUser"`
	ToUser       string          `json:"toUser"`
	Amount       decimal.Decimal `json:"amount"`
	SettledAt    time.Time       `json:"settledAt"`
}

// ToSettlementResponse converts a domain.Settlement to DTO.
func ToSettlementResponse(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		SettlementID: s.SettlementID,
		GroupID:      s.GroupID,
		FromUser:     s.FromUser,
		ToUser:       s.ToUser,
		Amount:       s.Amount,
		SettledAt:    s.SettledAt,
	}
}

// ClearSettlementsResponse reports how many settlements were removed.
type ClearSettlementsResponse struct {
	Deleted int64 `json:"deleted"`
}
