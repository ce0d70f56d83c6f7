package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt represents a receipts table row.
type Receipt struct {
	ReceiptID     string          `db:"receipt_id"`
	GroupID       string          `db:"group_id"`
	UploadedBy    string          `db:"uploaded_by"`
	ImageURL      string          `db:"image_url"`
	MerchantName  *string         `db:"merchant_name"`
	ReceiptDate   *time.Time      `db:"receipt_date"`
	Currency      string          `db:"currency"`
	ExchangeRate  decimal.Decimal `db:"exchange_rate"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Tax           decimal.Decimal `db:"tax"`
	ServiceCharge decimal.Decimal `db:"service_charge"`
	Total         decimal.Decimal `db:"total"`
	Status        string          `db:"status"`
	Version       int64           `db:"version"`
	AuditFields
}

// LineItem represents a line_items table row.
type LineItem struct {
	LineItemID  string          `db:"line_item_id"`
	ReceiptID   string          `db:"receipt_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Amount      decimal.Decimal `db:"amount"`
	SortOrder   int             `db:"sort_order"`
}

// ItemAssignment represents a line_item_assignments table row.
// (line_item_id, user_id) is unique.
type ItemAssignment struct {
	AssignmentID string          `db:"assignment_id"`
	LineItemID   string          `db:"line_item_id"`
	UserID       string          `db:"user_id"`
	ShareAmount  decimal.Decimal `db:"share_amount"`
}
