package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// PaymentRepositoryFacade defines persistence operations for payments.
type PaymentRepositoryFacade interface {
	SavePayment(ctx context.Context, payment domain.Payment) error
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPaymentsByReceipt(ctx context.Context, receiptID string) ([]domain.Payment, error)
	UpdatePayment(ctx context.Context, payment domain.Payment) error
	DeletePayment(ctx context.Context, paymentID string) error

	// SumPaymentsByReceipt totals payments on the receipt, optionally leaving
	// one payment out (used when updating it in place).
	SumPaymentsByReceipt(ctx context.Context, receiptID string, excludePaymentID *string) (decimal.Decimal, error)
}
