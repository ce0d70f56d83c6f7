package services

import (
	"context"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/dto"
)

// ReceiptExtractor is the boundary to the external OCR/LLM collaborator that
// turns a receipt image into structured line items. The core never implements
// it; a nil extractor simply leaves receipts in the processing state until
// entered manually.
type ReceiptExtractor interface {
	Extract(ctx context.Context, imageURL string) (*dto.ExtractedReceipt, error)
}

// ReceiptSvcFacade defines the business operations on receipts and their
// line-item assignments.
type ReceiptSvcFacade interface {
	CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, groupID string, uploaderUserID string) (*domain.Receipt, error)
	GetReceipt(ctx context.Context, receiptID string, requestingUserID string) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, groupID string, requestingUserID string, limit int, nextToken *string) ([]domain.Receipt, *string, error)

	// UpdateReceipt replaces header fields and line items under the optimistic
	// version precondition.
	UpdateReceipt(ctx context.Context, receiptID string, req dto.UpdateReceiptRequest, requestingUserID string) (*domain.Receipt, error)

	ConfirmReceipt(ctx context.Context, receiptID string, requestingUserID string) (*domain.Receipt, error)
	DeleteReceipt(ctx context.Context, receiptID string, requestingUserID string) error

	// ReplaceAssignments swaps the assignee sets of the given line items,
	// recomputing exact shares. Returns the receipt's new version.
	ReplaceAssignments(ctx context.Context, receiptID string, req dto.BulkAssignRequest, requestingUserID string) (int64, error)

	// ToggleAssignment flips one (lineItem, user) assignment on or off and
	// rebalances the item's shares. Returns whether the user ended up
	// assigned plus the receipt's new version.
	ToggleAssignment(ctx context.Context, receiptID string, lineItemID string, req dto.ToggleAssignmentRequest, requestingUserID string) (bool, int64, error)
}
