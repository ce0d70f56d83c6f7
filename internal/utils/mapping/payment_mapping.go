package mapping

import (
	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID: d.PaymentID,
		ReceiptID: d.ReceiptID,
		PaidBy:    d.PaidBy,
		Amount:    d.Amount,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID: m.PaymentID,
		ReceiptID: m.ReceiptID,
		PaidBy:    m.PaidBy,
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt,
	}
}

// ToDomainPaymentSlice converts a slice of model Payments to domain Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}

// ToModelSettlement converts a domain Settlement to a model Settlement
func ToModelSettlement(d domain.Settlement) models.Settlement {
	return models.Settlement{
		SettlementID: d.SettlementID,
		GroupID:      d.GroupID,
		FromUser:     d.FromUser,
		ToUser:       d.ToUser,
		Amount:       d.Amount,
		SettledAt:    d.SettledAt,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainSettlement converts a model Settlement to a domain Settlement
func ToDomainSettlement(m models.Settlement) domain.Settlement {
	return domain.Settlement{
		SettlementID: m.SettlementID,
		GroupID:      m.GroupID,
		FromUser:     m.FromUser,
		ToUser:       m.ToUser,
		Amount:       m.Amount,
		SettledAt:    m.SettledAt,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainSettlementSlice converts a slice of model Settlements to domain Settlements
func ToDomainSettlementSlice(ms []models.Settlement) []domain.Settlement {
	ds := make([]domain.Settlement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSettlement(m)
	}
	return ds
}
