package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money a member actually handed over toward a receipt's
// total, in the receipt's currency. A receipt may carry several payments.
type Payment struct {
	PaymentID string          `json:"paymentID"` // Primary Key (e.g., UUID)
	ReceiptID string          `json:"receiptID"` // FK -> receipts.receipt_id
	PaidBy    string          `json:"paidBy"`    // FK -> users.user_id
	Amount    decimal.Decimal `json:"amount"`    // Always positive; direction carried by PaidBy
	CreatedAt time.Time       `json:"createdAt"`
}

// Settlement is a manually recorded debt resolution between two members,
// independent of any single receipt and denominated in the group's base
// currency. The settlement log is append-only: once recorded, an entry
// permanently shifts the computed balance between the ordered pair.
type Settlement struct {
	SettlementID string          `json:"settlementID"` // Primary Key (e.g., UUID)
	GroupID      string          `json:"groupID"`      // FK -> groups.group_id
	FromUser     string          `json:"fromUser"`     // The debtor who paid
	ToUser       string          `json:"toUser"`       // The creditor who was paid
	Amount       decimal.Decimal `json:"amount"`       // Always positive
	SettledAt    time.Time       `json:"settledAt"`
	CreatedAt    time.Time       `json:"createdAt"`
}
