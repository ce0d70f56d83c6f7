package repositories

import (
	"context"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// ReceiptReader defines read operations for receipts.
type ReceiptReader interface {
	// FindReceiptByID returns the receipt with line items, assignments and
	// payments attached.
	FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error)

	// ListReceiptsByGroup returns receipt headers (no children) newest first,
	// with cursor pagination. A nil nextToken starts from the top; the
	// returned token is nil when no more pages exist.
	ListReceiptsByGroup(ctx context.Context, groupID string, limit int, nextToken *string) ([]domain.Receipt, *string, error)

	// ListReceiptsWithDetails returns every receipt of the group with line
	// items, assignments and payments attached, as a consistent snapshot for
	// a ledger run.
	ListReceiptsWithDetails(ctx context.Context, groupID string) ([]domain.Receipt, error)
}

// ReceiptWriter defines write operations for receipts.
type ReceiptWriter interface {
	SaveReceipt(ctx context.Context, receipt domain.Receipt) error

	// UpdateReceipt replaces the receipt header and line items, guarded by the
	// optimistic version token. It returns the updated receipt (version
	// bumped) or apperrors.ErrVersionConflict.
	UpdateReceipt(ctx context.Context, receipt domain.Receipt, expectedVersion int64) (*domain.Receipt, error)

	UpdateReceiptStatus(ctx context.Context, receiptID string, status domain.ReceiptStatus, updaterUserID string) error
	DeleteReceipt(ctx context.Context, receiptID string) error
}

// AssignmentWriter defines the assignment mutations. Both methods bump the
// receipt version and fail with apperrors.ErrVersionConflict when the caller's
// expected version is stale; a nil expectedVersion skips the precondition.
type AssignmentWriter interface {
	// ReplaceAssignments swaps the assignment set of the given line items in
	// one transaction and returns the receipt's new version.
	ReplaceAssignments(ctx context.Context, receiptID string, expectedVersion *int64, byLineItem map[string][]domain.ItemAssignment) (int64, error)
}

// ReceiptRepositoryFacade combines all receipt repository capabilities.
type ReceiptRepositoryFacade interface {
	ReceiptReader
	ReceiptWriter
	AssignmentWriter
}
