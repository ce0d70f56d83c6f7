package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// CreatePaymentRequest defines data for recording a payment toward a receipt.
// PaidBy defaults to the requesting user when omitted.
type CreatePaymentRequest struct {
	PaidBy string          `json:"paidBy"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// UpdatePaymentRequest defines the data allowed for updating a payment.
type UpdatePaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	PaidBy *string          `json:"paidBy"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID string          `json:"paymentID"`
	ReceiptID string          `json:"receiptID"`
	PaidBy    string          `json:"paidBy"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListPaymentsResponse wraps a list of payments.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ToPaymentResponse converts a domain.Payment to DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID: p.PaymentID,
		ReceiptID: p.ReceiptID,
		PaidBy:    p.PaidBy,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
	}
}

// ToListPaymentsResponse converts a slice of domain.Payment to DTO.
func ToListPaymentsResponse(ps []domain.Payment) ListPaymentsResponse {
	list := make([]PaymentResponse, len(ps))
	for i, p := range ps {
		list[i] = ToPaymentResponse(&p)
	}
	return ListPaymentsResponse{Payments: list}
}
