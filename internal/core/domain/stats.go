package domain

import "github.com/shopspring/decimal"

// GroupStats summarizes a group's spending over a period.
type GroupStats struct {
	Period        Period          `json:"period"`
	BaseCurrency  string          `json:"baseCurrency"`
	TotalSpending decimal.Decimal `json:"totalSpending"`
	ReceiptCount  int             `json:"receiptCount"`
	// SpendingByUser is sorted by spent amount, highest first.
	SpendingByUser []MemberBalance `json:"spendingByUser"`
}
