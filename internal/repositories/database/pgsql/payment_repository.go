package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	"github.com/splitledger/bill_split_app/internal/models"
	"github.com/splitledger/bill_split_app/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(db *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (payment_id, receipt_id, paid_by, amount, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, m.PaymentID, m.ReceiptID, m.PaidBy, m.Amount, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT payment_id, receipt_id, paid_by, amount, created_at
		FROM payments
		WHERE payment_id = $1;
	`
	var m models.Payment
	err := r.Pool.QueryRow(ctx, query, paymentID).Scan(&m.PaymentID, &m.ReceiptID, &m.PaidBy, &m.Amount, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

func (r *PgxPaymentRepository) ListPaymentsByReceipt(ctx context.Context, receiptID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, receipt_id, paid_by, amount, created_at
		FROM payments
		WHERE receipt_id = $1
		ORDER BY created_at, payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var ms []models.Payment
	for rows.Next() {
		var m models.Payment
		if err := rows.Scan(&m.PaymentID, &m.ReceiptID, &m.PaidBy, &m.Amount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating payment rows: %w", err)
	}
	return mapping.ToDomainPaymentSlice(ms), nil
}

func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		UPDATE payments
		SET paid_by = $2, amount = $3
		WHERE payment_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, payment.PaymentID, payment.PaidBy, payment.Amount)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPaymentRepository) SumPaymentsByReceipt(ctx context.Context, receiptID string, excludePaymentID *string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE receipt_id = $1 AND ($2::text IS NULL OR payment_id != $2);
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, receiptID, excludePaymentID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return sum, nil
}
