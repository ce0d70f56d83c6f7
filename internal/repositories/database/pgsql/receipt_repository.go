package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	"github.com/splitledger/bill_split_app/internal/models"
	"github.com/splitledger/bill_split_app/internal/utils/mapping"
	"github.com/splitledger/bill_split_app/internal/utils/pagination"
)

type PgxReceiptRepository struct {
	BaseRepository
}

func newPgxReceiptRepository(db *pgxpool.Pool) portsrepo.ReceiptRepositoryFacade {
	return &PgxReceiptRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ReceiptRepositoryFacade = (*PgxReceiptRepository)(nil)

const receiptColumns = `receipt_id, group_id, uploaded_by, image_url, merchant_name, receipt_date, currency, exchange_rate, subtotal, tax, service_charge, total, status, version, created_at, created_by, last_updated_at, last_updated_by`

func scanReceipt(row pgx.Row) (*domain.Receipt, error) {
	var m models.Receipt
	err := row.Scan(
		&m.ReceiptID,
		&m.GroupID,
		&m.UploadedBy,
		&m.ImageURL,
		&m.MerchantName,
		&m.ReceiptDate,
		&m.Currency,
		&m.ExchangeRate,
		&m.Subtotal,
		&m.Tax,
		&m.ServiceCharge,
		&m.Total,
		&m.Status,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	receipt := mapping.ToDomainReceipt(m)
	receipt.LineItems = []domain.LineItem{}
	receipt.Payments = []domain.Payment{}
	return &receipt, nil
}

// SaveReceipt inserts the receipt with its line items in one transaction.
func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReceipt(receipt)
	query := `
		INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		m.ReceiptID,
		m.GroupID,
		m.UploadedBy,
		m.ImageURL,
		m.MerchantName,
		m.ReceiptDate,
		m.Currency,
		m.ExchangeRate,
		m.Subtotal,
		m.Tax,
		m.ServiceCharge,
		m.Total,
		m.Status,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	if err := insertLineItems(ctx, tx, receipt.LineItems); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertLineItems(ctx context.Context, tx pgx.Tx, items []domain.LineItem) error {
	query := `
		INSERT INTO line_items (line_item_id, receipt_id, description, quantity, unit_price, amount, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		m := mapping.ToModelLineItem(item)
		if _, err := tx.Exec(ctx, query, m.LineItemID, m.ReceiptID, m.Description, m.Quantity, m.UnitPrice, m.Amount, m.SortOrder); err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}
	return nil
}

// FindReceiptByID returns the receipt with line items, assignments and
// payments attached.
func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE receipt_id = $1;`
	receipt, err := scanReceipt(r.Pool.QueryRow(ctx, query, receiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receipt by ID %s: %w", receiptID, err)
	}

	receipts := []domain.Receipt{*receipt}
	if err := r.attachChildren(ctx, receipts); err != nil {
		return nil, err
	}
	return &receipts[0], nil
}

// ListReceiptsByGroup returns receipt headers newest first with cursor
// pagination on (created_at, receipt_id).
func (r *PgxReceiptRepository) ListReceiptsByGroup(ctx context.Context, groupID string, limit int, nextToken *string) ([]domain.Receipt, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE group_id = $1`
	args := []any{groupID}
	if nextToken != nil && *nextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, receipt_id) < ($2, $3)`
		args = append(args, cursorTime, cursorID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, receipt_id DESC LIMIT $%d;`, len(args)+1)
	// Fetch one extra row to decide whether another page exists.
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []domain.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, *receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed iterating receipt rows: %w", err)
	}

	var token *string
	if len(receipts) > limit {
		receipts = receipts[:limit]
		last := receipts[len(receipts)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.ReceiptID)
		token = &t
	}
	return receipts, token, nil
}

// ListReceiptsWithDetails returns every receipt of the group with children
// attached, for a ledger run.
func (r *PgxReceiptRepository) ListReceiptsWithDetails(ctx context.Context, groupID string) ([]domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE group_id = $1 ORDER BY created_at, receipt_id;`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts with details: %w", err)
	}
	defer rows.Close()

	var receipts []domain.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, *receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating receipt rows: %w", err)
	}

	if err := r.attachChildren(ctx, receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// attachChildren loads line items, assignments and payments for the given
// receipts in three queries.
func (r *PgxReceiptRepository) attachChildren(ctx context.Context, receipts []domain.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}

	receiptIDs := make([]string, len(receipts))
	index := make(map[string]*domain.Receipt, len(receipts))
	for i := range receipts {
		receiptIDs[i] = receipts[i].ReceiptID
		index[receipts[i].ReceiptID] = &receipts[i]
	}

	itemQuery := `
		SELECT line_item_id, receipt_id, description, quantity, unit_price, amount, sort_order
		FROM line_items
		WHERE receipt_id = ANY($1)
		ORDER BY receipt_id, sort_order;
	`
	rows, err := r.Pool.Query(ctx, itemQuery, receiptIDs)
	if err != nil {
		return fmt.Errorf("failed to load line items: %w", err)
	}
	var items []domain.LineItem
	for rows.Next() {
		var m models.LineItem
		if err := rows.Scan(&m.LineItemID, &m.ReceiptID, &m.Description, &m.Quantity, &m.UnitPrice, &m.Amount, &m.SortOrder); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan line item row: %w", err)
		}
		item := mapping.ToDomainLineItem(m)
		item.Assignments = []domain.ItemAssignment{}
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed iterating line item rows: %w", err)
	}
	itemIndex := attachLineItems(index, items)

	assignmentQuery := `
		SELECT a.assignment_id, a.line_item_id, a.user_id, a.share_amount
		FROM line_item_assignments a
		JOIN line_items li ON li.line_item_id = a.line_item_id
		WHERE li.receipt_id = ANY($1)
		ORDER BY a.line_item_id, a.user_id;
	`
	rows, err = r.Pool.Query(ctx, assignmentQuery, receiptIDs)
	if err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}
	for rows.Next() {
		var m models.ItemAssignment
		if err := rows.Scan(&m.AssignmentID, &m.LineItemID, &m.UserID, &m.ShareAmount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan assignment row: %w", err)
		}
		if item, ok := itemIndex[m.LineItemID]; ok {
			item.Assignments = append(item.Assignments, mapping.ToDomainItemAssignment(m))
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed iterating assignment rows: %w", err)
	}

	paymentQuery := `
		SELECT payment_id, receipt_id, paid_by, amount, created_at
		FROM payments
		WHERE receipt_id = ANY($1)
		ORDER BY created_at, payment_id;
	`
	rows, err = r.Pool.Query(ctx, paymentQuery, receiptIDs)
	if err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.Payment
		if err := rows.Scan(&m.PaymentID, &m.ReceiptID, &m.PaidBy, &m.Amount, &m.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan payment row: %w", err)
		}
		receipt := index[m.ReceiptID]
		receipt.Payments = append(receipt.Payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed iterating payment rows: %w", err)
	}

	return nil
}

// attachLineItems distributes loaded line items onto their receipts and
// returns an index by line item ID. Pointers into the LineItems slices are
// taken only after every slice has reached its final length; appending while
// indexing would leave pointers into a reallocated backing array.
func attachLineItems(receipts map[string]*domain.Receipt, items []domain.LineItem) map[string]*domain.LineItem {
	for _, item := range items {
		receipt := receipts[item.ReceiptID]
		receipt.LineItems = append(receipt.LineItems, item)
	}
	itemIndex := make(map[string]*domain.LineItem, len(items))
	for _, receipt := range receipts {
		for i := range receipt.LineItems {
			itemIndex[receipt.LineItems[i].LineItemID] = &receipt.LineItems[i]
		}
	}
	return itemIndex
}

// UpdateReceipt replaces the receipt header and line items under the
// optimistic version guard. Line items are replaced wholesale; their
// assignments go with them via ON DELETE CASCADE.
func (r *PgxReceiptRepository) UpdateReceipt(ctx context.Context, receipt domain.Receipt, expectedVersion int64) (*domain.Receipt, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReceipt(receipt)
	query := `
		UPDATE receipts
		SET image_url = $2, merchant_name = $3, receipt_date = $4, currency = $5,
			exchange_rate = $6, subtotal = $7, tax = $8, service_charge = $9, total = $10,
			status = $11, version = version + 1, last_updated_at = $12, last_updated_by = $13
		WHERE receipt_id = $1 AND version = $14
		RETURNING version;
	`
	var newVersion int64
	err = tx.QueryRow(ctx, query,
		m.ReceiptID,
		m.ImageURL,
		m.MerchantName,
		m.ReceiptDate,
		m.Currency,
		m.ExchangeRate,
		m.Subtotal,
		m.Tax,
		m.ServiceCharge,
		m.Total,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		expectedVersion,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyVersionMiss(ctx, receipt.ReceiptID)
		}
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE receipt_id = $1;`, receipt.ReceiptID); err != nil {
		return nil, fmt.Errorf("failed to clear line items: %w", err)
	}
	if err := insertLineItems(ctx, tx, receipt.LineItems); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	receipt.Version = newVersion
	return &receipt, nil
}

// classifyVersionMiss distinguishes a stale version from a missing receipt
// after a guarded UPDATE matched no row.
func (r *PgxReceiptRepository) classifyVersionMiss(ctx context.Context, receiptID string) error {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM receipts WHERE receipt_id = $1);`, receiptID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check receipt existence: %w", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrVersionConflict
}

func (r *PgxReceiptRepository) UpdateReceiptStatus(ctx context.Context, receiptID string, status domain.ReceiptStatus, updaterUserID string) error {
	query := `
		UPDATE receipts
		SET status = $2, version = version + 1, last_updated_at = NOW(), last_updated_by = $3
		WHERE receipt_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, receiptID, string(status), updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to update receipt status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteReceipt removes the receipt; line items, assignments and payments go
// with it via ON DELETE CASCADE.
func (r *PgxReceiptRepository) DeleteReceipt(ctx context.Context, receiptID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM receipts WHERE receipt_id = $1;`, receiptID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceAssignments swaps the assignment sets of the given line items and
// bumps the receipt version, all in one transaction. A non-nil
// expectedVersion is checked against the current version first.
func (r *PgxReceiptRepository) ReplaceAssignments(ctx context.Context, receiptID string, expectedVersion *int64, byLineItem map[string][]domain.ItemAssignment) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the receipt row so concurrent assignment writes serialize.
	var currentVersion int64
	err = tx.QueryRow(ctx, `SELECT version FROM receipts WHERE receipt_id = $1 FOR UPDATE;`, receiptID).Scan(&currentVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to lock receipt: %w", err)
	}
	if expectedVersion != nil && *expectedVersion != currentVersion {
		return 0, apperrors.ErrVersionConflict
	}

	insertQuery := `
		INSERT INTO line_item_assignments (assignment_id, line_item_id, user_id, share_amount)
		VALUES ($1, $2, $3, $4);
	`
	for lineItemID, assignments := range byLineItem {
		if _, err := tx.Exec(ctx, `DELETE FROM line_item_assignments WHERE line_item_id = $1;`, lineItemID); err != nil {
			return 0, fmt.Errorf("failed to clear assignments: %w", err)
		}
		for _, a := range assignments {
			if _, err := tx.Exec(ctx, insertQuery, a.AssignmentID, a.LineItemID, a.UserID, a.ShareAmount); err != nil {
				return 0, fmt.Errorf("failed to insert assignment: %w", err)
			}
		}
	}

	var newVersion int64
	err = tx.QueryRow(ctx, `
		UPDATE receipts SET version = version + 1, last_updated_at = NOW()
		WHERE receipt_id = $1
		RETURNING version;
	`, receiptID).Scan(&newVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to bump receipt version: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return newVersion, nil
}
