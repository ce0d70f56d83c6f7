package services

import (
	"context"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/dto"
)

// PaymentSvcFacade defines the business operations on receipt payments.
type PaymentSvcFacade interface {
	RecordPayment(ctx context.Context, receiptID string, req dto.CreatePaymentRequest, requestingUserID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, receiptID string, requestingUserID string) ([]domain.Payment, error)
	UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest, requestingUserID string) (*domain.Payment, error)
	DeletePayment(ctx context.Context, paymentID string, requestingUserID string) error
}
