package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// --- Receipt Request DTOs ---

// CreateLineItemRequest defines one line item supplied at receipt creation.
type CreateLineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// CreateReceiptRequest defines data for creating a receipt. Line items are
// optional: an image-only upload starts in the processing state and gets its
// items from extraction or a later update.
type CreateReceiptRequest struct {
	ImageURL      string                  `json:"imageURL"`
	MerchantName  string                  `json:"merchantName"`
	ReceiptDate   *time.Time              `json:"receiptDate"`
	Currency      string                  `json:"currency" binding:"required,currencycode"`
	ExchangeRate  decimal.Decimal         `json:"exchangeRate"`
	Tax           decimal.Decimal         `json:"tax"`
	ServiceCharge decimal.Decimal         `json:"serviceCharge"`
	Total         decimal.Decimal         `json:"total"`
	LineItems     []CreateLineItemRequest `json:"lineItems" binding:"omitempty,dive"`
}

// UpdateReceiptRequest defines the data allowed for updating a receipt.
// Using pointers to differentiate between omitted fields and zero-value
// fields. A non-nil LineItems replaces the full item list; assignments on
// replaced items are dropped.
type UpdateReceiptRequest struct {
	MerchantName    *string                 `json:"merchantName"`
	ReceiptDate     *time.Time              `json:"receiptDate"`
	Currency        *string                 `json:"currency" binding:"omitempty,currencycode"`
	ExchangeRate    *decimal.Decimal        `json:"exchangeRate"`
	Tax             *decimal.Decimal        `json:"tax"`
	ServiceCharge   *decimal.Decimal        `json:"serviceCharge"`
	Total           *decimal.Decimal        `json:"total"`
	LineItems       []CreateLineItemRequest `json:"lineItems" binding:"omitempty,dive"`
	ExpectedVersion *int64                  `json:"expectedVersion"`
}

// LineItemAssignees names the full assignee set for one line item.
type LineItemAssignees struct {
	LineItemID string   `json:"lineItemID" binding:"required"`
	UserIDs    []string `json:"userIDs"`
}

// BulkAssignRequest replaces the assignee sets of several line items at once.
// Items not listed keep their current assignments.
type BulkAssignRequest struct {
	Assignments     []LineItemAssignees `json:"assignments" binding:"required,min=1,dive"`
	ExpectedVersion *int64              `json:"expectedVersion"`
}

// ToggleAssignmentRequest flips one user's assignment on a line item.
type ToggleAssignmentRequest struct {
	UserID          string `json:"userID" binding:"required"`
	ExpectedVersion *int64 `json:"expectedVersion"`
}

// ListReceiptsParams defines query parameters for listing receipts.
type ListReceiptsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// --- Extraction DTOs ---

// ExtractedLineItem is one line item as read off a receipt image.
type ExtractedLineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// ExtractedReceipt is the structured result of reading a receipt image.
type ExtractedReceipt struct {
	MerchantName  string              `json:"merchantName"`
	ReceiptDate   *time.Time          `json:"receiptDate"`
	Currency      string              `json:"currency"`
	Tax           decimal.Decimal     `json:"tax"`
	ServiceCharge decimal.Decimal     `json:"serviceCharge"`
	Total         decimal.Decimal     `json:"total"`
	LineItems     []ExtractedLineItem `json:"lineItems"`
}

// --- Receipt Response DTOs ---

// ItemAssignmentResponse defines the data returned for one assignment.
type ItemAssignmentResponse struct {
	AssignmentID string          `json:"assignmentID"`
	UserID       string          `json:"userID"`
	ShareAmount  decimal.Decimal `json:"shareAmount"`
}

// LineItemResponse defines the data returned for one line item.
type LineItemResponse struct {
	LineItemID  string                   `json:"lineItemID"`
	Description string                   `json:"description"`
	Quantity    decimal.Decimal          `json:"quantity"`
	UnitPrice   decimal.Decimal          `json:"unitPrice"`
	Amount      decimal.Decimal          `json:"amount"`
	SortOrder   int                      `json:"sortOrder"`
	Assignments []ItemAssignmentResponse `json:"assignments"`
}

// ReceiptResponse defines the data returned for a receipt.
type ReceiptResponse struct {
	ReceiptID     string               `json:"receiptID"`
	GroupID       string               `json:"groupID"`
	UploadedBy    string               `json:"uploadedBy"`
	ImageURL      string               `json:"imageURL,omitempty"`
	MerchantName  string               `json:"merchantName,omitempty"`
	ReceiptDate   *time.Time           `json:"receiptDate,omitempty"`
	Currency      string               `json:"currency"`
	ExchangeRate  decimal.Decimal      `json:"exchangeRate"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Tax           decimal.Decimal      `json:"tax"`
	ServiceCharge decimal.Decimal      `json:"serviceCharge"`
	Total         decimal.Decimal      `json:"total"`
	Status        domain.ReceiptStatus `json:"status"`
	Version       int64                `json:"version"`
	LineItems     []LineItemResponse   `json:"lineItems"`
	Payments      []PaymentResponse    `json:"payments"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ListReceiptsResponse wraps a page of receipts plus the cursor for the next
// page. Receipts in a list are headers only: no line items or payments.
type ListReceiptsResponse struct {
	Receipts  []ReceiptResponse `json:"receipts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToItemAssignmentResponse converts a domain.ItemAssignment to DTO.
func ToItemAssignmentResponse(a *domain.ItemAssignment) ItemAssignmentResponse {
	return ItemAssignmentResponse{
		AssignmentID: a.AssignmentID,
		UserID:       a.UserID,
		ShareAmount:  a.ShareAmount,
	}
}

// ToLineItemResponse converts a domain.LineItem to DTO.
func ToLineItemResponse(li *domain.LineItem) LineItemResponse {
	assignments := make([]ItemAssignmentResponse, len(li.Assignments))
	for i, a := range li.Assignments {
		assignments[i] = ToItemAssignmentResponse(&a)
	}
	return LineItemResponse{
		LineItemID:  li.LineItemID,
		Description: li.Description,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
		Amount:      li.Amount,
		SortOrder:   li.SortOrder,
		Assignments: assignments,
	}
}

// ToReceiptResponse converts a domain.Receipt to DTO.
func ToReceiptResponse(r *domain.Receipt) ReceiptResponse {
	lineItems := make([]LineItemResponse, len(r.LineItems))
	for i, li := range r.LineItems {
		lineItems[i] = ToLineItemResponse(&li)
	}
	payments := make([]PaymentResponse, len(r.Payments))
	for i, p := range r.Payments {
		payments[i] = ToPaymentResponse(&p)
	}
	return ReceiptResponse{
		ReceiptID:     r.ReceiptID,
		GroupID:       r.GroupID,
		UploadedBy:    r.UploadedBy,
		ImageURL:      r.ImageURL,
		MerchantName:  r.MerchantName,
		ReceiptDate:   r.ReceiptDate,
		Currency:      r.Currency,
		ExchangeRate:  r.ExchangeRate,
		Subtotal:      r.Subtotal,
		Tax:           r.Tax,
		ServiceCharge: r.ServiceCharge,
		Total:         r.Total,
		Status:        r.Status,
		Version:       r.Version,
		LineItems:     lineItems,
		Payments:      payments,
		CreatedAt:     r.CreatedAt,
	}
}

// ToListReceiptsResponse converts a page of domain.Receipt to DTO.
func ToListReceiptsResponse(rs []domain.Receipt, nextToken *string) ListReceiptsResponse {
	list := make([]ReceiptResponse, len(rs))
	for i, r := range rs {
		list[i] = ToReceiptResponse(&r)
	}
	return ListReceiptsResponse{Receipts: list, NextToken: nextToken}
}

// AssignmentResultResponse reports the outcome of an assignment write.
type AssignmentResultResponse struct {
	Assigned *bool `json:"assigned,omitempty"` // Present only for toggle
	Version  int64 `json:"version"`
}
