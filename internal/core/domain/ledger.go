package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period selects the time window a ledger or stats computation covers.
type Period string

const (
	PeriodDay   Period = "1d"
	PeriodMonth Period = "1mo"
	PeriodYear  Period = "1yr"
	PeriodAll   Period = "all"
)

// Start returns the inclusive lower bound of the period ending at now.
// PeriodAll returns the zero time.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodDay:
		return now.Add(-24 * time.Hour)
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	case PeriodYear:
		return now.AddDate(0, 0, -365)
	default:
		return time.Time{}
	}
}

// Valid reports whether p is one of the supported period values.
func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodMonth, PeriodYear, PeriodAll:
		return true
	}
	return false
}

// WarningCode classifies data inconsistencies surfaced by a ledger run.
// Warnings ride along with the result; they never abort the computation.
type WarningCode string

const (
	// WarnMissingRate marks a receipt excluded because its exchange rate was
	// missing or not positive while its currency differs from the base.
	WarnMissingRate WarningCode = "MISSING_EXCHANGE_RATE"
	// WarnTotalMismatch marks a receipt whose stored total disagrees with the
	// recomputed sum of line items plus tax and service charge.
	WarnTotalMismatch WarningCode = "TOTAL_MISMATCH"
	// WarnUnassignedCharges marks a receipt whose tax or service charge could
	// not be attributed because no line item has an assignee.
	WarnUnassignedCharges WarningCode = "UNASSIGNED_CHARGES"
)

// LedgerWarning describes a data inconsistency found while building a ledger.
type LedgerWarning struct {
	Code      WarningCode     `json:"code"`
	ReceiptID string          `json:"receiptID"`
	Amount    decimal.Decimal `json:"amount"` // Amount affected, in base currency where applicable
	Detail    string          `json:"detail"`
}

// MemberBalance is one member's position against the group, in the group's
// base currency. Balance = Paid - Spent, adjusted by recorded settlements;
// positive means the group owes the member.
type MemberBalance struct {
	UserID      string          `json:"userID"`
	DisplayName string          `json:"displayName"`
	Spent       decimal.Decimal `json:"spent"`
	Paid        decimal.Decimal `json:"paid"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerTotals aggregates the group-wide figures of a ledger run.
// Unattributed carries tax/service amounts from receipts with no assignments;
// it is part of Spent-side visibility but belongs to no member.
type LedgerTotals struct {
	Spent        decimal.Decimal `json:"spent"`
	Paid         decimal.Decimal `json:"paid"`
	Unattributed decimal.Decimal `json:"unattributed"`
}

// Ledger is the full output of a balance computation for a group.
type Ledger struct {
	BaseCurrency string          `json:"baseCurrency"`
	PerMember    []MemberBalance `json:"perMember"`
	Totals       LedgerTotals    `json:"totals"`
	Warnings     []LedgerWarning `json:"warnings,omitempty"`
}

// Transfer is one suggested repayment: FromUser pays ToUser the amount, in the
// group's base currency.
type Transfer struct {
	FromUser string          `json:"fromUser"`
	ToUser   string          `json:"toUser"`
	Amount   decimal.Decimal `json:"amount"`
}
