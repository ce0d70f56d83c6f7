package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a payments table row.
type Payment struct {
	PaymentID string          `db:"payment_id"`
	ReceiptID string          `db:"receipt_id"`
	PaidBy    string          `db:"paid_by"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
}

// Settlement represents a settlements table row. The table is append-only.
type Settlement struct {
	SettlementID string          `db:"settlement_id"`
	GroupID      string          `db:"group_id"`
	FromUser     string          `db:"from_user"`
	ToUser       string          `db:"to_user"`
	Amount       decimal.Decimal `db:"amount"`
	SettledAt    time.Time       `db:"settled_at"`
	CreatedAt    time.Time       `db:"created_at"`
}
