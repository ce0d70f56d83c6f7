package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
)

// PaymentService handles business logic related to receipt payments.
type PaymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	receiptRepo portsrepo.ReceiptReader
	groupRepo   portsrepo.GroupReader
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	receiptRepo portsrepo.ReceiptReader,
	groupRepo portsrepo.GroupReader,
	authorizer portssvc.GroupAuthorizerSvc,
) portssvc.PaymentSvcFacade {
	return &PaymentService{
		BaseService: BaseService{GroupAuthorizer: authorizer},
		paymentRepo: paymentRepo,
		receiptRepo: receiptRepo,
		groupRepo:   groupRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*PaymentService)(nil)

// RecordPayment records money a member handed over toward the receipt's total.
// The combined payments on a receipt must not exceed its total.
func (s *PaymentService) RecordPayment(ctx context.Context, receiptID string, req dto.CreatePaymentRequest, requestingUserID string) (*domain.Payment, error) {
	logger := s.GetLogger(ctx)

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}

	paidBy := req.PaidBy
	if paidBy == "" {
		paidBy = requestingUserID
	}
	if paidBy != requestingUserID {
		if _, err := s.groupRepo.FindMember(ctx, receipt.GroupID, paidBy); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: payer is not a group member", apperrors.ErrValidation)
			}
			return nil, fmt.Errorf("failed to check payer membership: %w", err)
		}
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if err := s.checkOverPayment(ctx, receipt, req.Amount, nil); err != nil {
		return nil, err
	}

	payment := domain.Payment{
		PaymentID: uuid.NewString(),
		ReceiptID: receiptID,
		PaidBy:    paidBy,
		Amount:    req.Amount,
		CreatedAt: time.Now(),
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("receipt_id", receiptID))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("receipt_id", receiptID))
	return &payment, nil
}

// ListPayments returns all payments on the receipt.
func (s *PaymentService) ListPayments(ctx context.Context, receiptID string, requestingUserID string) ([]domain.Payment, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListPaymentsByReceipt(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// UpdatePayment changes the amount or payer of an existing payment.
func (s *PaymentService) UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest, requestingUserID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, payment.ReceiptID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
		}
		if err := s.checkOverPayment(ctx, receipt, *req.Amount, &paymentID); err != nil {
			return nil, err
		}
		payment.Amount = *req.Amount
	}
	if req.PaidBy != nil {
		if _, err := s.groupRepo.FindMember(ctx, receipt.GroupID, *req.PaidBy); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: payer is not a group member", apperrors.ErrValidation)
			}
			return nil, fmt.Errorf("failed to check payer membership: %w", err)
		}
		payment.PaidBy = *req.PaidBy
	}

	if err := s.paymentRepo.UpdatePayment(ctx, *payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	s.LogInfo(ctx, "Payment updated", slog.String("payment_id", paymentID))
	return payment, nil
}

// DeletePayment removes a payment. Allowed for the payer, the recorder or the
// group owner; membership alone is enough here since payments are visible to
// the whole group anyway.
func (s *PaymentService) DeletePayment(ctx context.Context, paymentID string, requestingUserID string) error {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, payment.ReceiptID)
	if err != nil {
		return err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.paymentRepo.DeletePayment(ctx, paymentID); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	s.LogInfo(ctx, "Payment deleted", slog.String("payment_id", paymentID))
	return nil
}

// checkOverPayment rejects a write that would push the receipt's combined
// payments above its total. Receipts with a zero total skip the check since
// their true total is not yet known.
func (s *PaymentService) checkOverPayment(ctx context.Context, receipt *domain.Receipt, amount decimal.Decimal, excludePaymentID *string) error {
	if receipt.Total.IsZero() {
		return nil
	}

	paid, err := s.paymentRepo.SumPaymentsByReceipt(ctx, receipt.ReceiptID, excludePaymentID)
	if err != nil {
		return fmt.Errorf("failed to sum existing payments: %w", err)
	}

	if paid.Add(amount).GreaterThan(receipt.Total) {
		return fmt.Errorf("%w: payments would exceed the receipt total of %s", apperrors.ErrValidation, receipt.Total.StringFixed(2))
	}
	return nil
}
