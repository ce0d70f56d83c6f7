package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptStatus indicates where a receipt is in its extraction lifecycle.
type ReceiptStatus string

const (
	ReceiptProcessing ReceiptStatus = "PROCESSING"
	ReceiptExtracted  ReceiptStatus = "EXTRACTED"
	ReceiptConfirmed  ReceiptStatus = "CONFIRMED"
	ReceiptFailed     ReceiptStatus = "FAILED"
)

// Receipt represents a single uploaded or manually entered bill.
// ExchangeRate expresses 1 unit of Currency in units of the group's base
// currency at the time the receipt was recorded. Version is an optimistic
// concurrency token owned by the storage layer; the core only reads it as a
// precondition on assignment writes.
type Receipt struct {
	ReceiptID     string          `json:"receiptID"` // Primary Key (e.g., UUID)
	GroupID       string          `json:"groupID"`   // FK -> groups.group_id
	UploadedBy    string          `json:"uploadedBy"`
	ImageURL      string          `json:"imageURL"` // Opaque URL into the external object store
	MerchantName  string          `json:"merchantName,omitempty"`
	ReceiptDate   *time.Time      `json:"receiptDate,omitempty"` // Date printed on the receipt, if known
	Currency      string          `json:"currency"`              // ISO 4217 code
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	Total         decimal.Decimal `json:"total"`
	Status        ReceiptStatus   `json:"status"`
	Version       int64           `json:"version"`
	LineItems     []LineItem      `json:"lineItems"`
	Payments      []Payment       `json:"payments"`
	AuditFields
}

// LineItem is a single line on a receipt. Amount is the line's total cost,
// which need not equal UnitPrice times Quantity.
type LineItem struct {
	LineItemID  string            `json:"lineItemID"` // Primary Key (e.g., UUID)
	ReceiptID   string            `json:"receiptID"`  // FK -> receipts.receipt_id
	Description string            `json:"description"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unitPrice"`
	Amount      decimal.Decimal   `json:"amount"`
	SortOrder   int               `json:"sortOrder"`
	Assignments []ItemAssignment  `json:"assignments"`
}

// ItemAssignment marks one member as co-owner of a line item. Cost is split
// evenly among all assignees of the item; ShareAmount is the stored result of
// that split and always sums exactly to the item amount across assignees.
type ItemAssignment struct {
	AssignmentID string          `json:"assignmentID"` // Primary Key (e.g., UUID)
	LineItemID   string          `json:"lineItemID"`   // FK -> line_items.line_item_id
	UserID       string          `json:"userID"`       // FK -> users.user_id
	ShareAmount  decimal.Decimal `json:"shareAmount"`  // In the receipt's currency
}
