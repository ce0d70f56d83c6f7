package mapping

import (
	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/models"
)

// ToModelReceipt converts a domain Receipt to a model Receipt. Line items and
// payments are persisted through their own converters.
func ToModelReceipt(d domain.Receipt) models.Receipt {
	var merchant *string
	if d.MerchantName != "" {
		m := d.MerchantName
		merchant = &m
	}
	return models.Receipt{
		ReceiptID:     d.ReceiptID,
		GroupID:       d.GroupID,
		UploadedBy:    d.UploadedBy,
		ImageURL:      d.ImageURL,
		MerchantName:  merchant,
		ReceiptDate:   d.ReceiptDate,
		Currency:      d.Currency,
		ExchangeRate:  d.ExchangeRate,
		Subtotal:      d.Subtotal,
		Tax:           d.Tax,
		ServiceCharge: d.ServiceCharge,
		Total:         d.Total,
		Status:        string(d.Status),
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReceipt converts a model Receipt to a domain Receipt without its
// children; the repository attaches line items and payments separately.
func ToDomainReceipt(m models.Receipt) domain.Receipt {
	merchant := ""
	if m.MerchantName != nil {
		merchant = *m.MerchantName
	}
	return domain.Receipt{
		ReceiptID:     m.ReceiptID,
		GroupID:       m.GroupID,
		UploadedBy:    m.UploadedBy,
		ImageURL:      m.ImageURL,
		MerchantName:  merchant,
		ReceiptDate:   m.ReceiptDate,
		Currency:      m.Currency,
		ExchangeRate:  m.ExchangeRate,
		Subtotal:      m.Subtotal,
		Tax:           m.Tax,
		ServiceCharge: m.ServiceCharge,
		Total:         m.Total,
		Status:        domain.ReceiptStatus(m.Status),
		Version:       m.Version,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain LineItem to a model LineItem
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:  d.LineItemID,
		ReceiptID:   d.ReceiptID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Amount:      d.Amount,
		SortOrder:   d.SortOrder,
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem without its
// assignments.
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:  m.LineItemID,
		ReceiptID:   m.ReceiptID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		SortOrder:   m.SortOrder,
	}
}

// ToDomainItemAssignment converts a model ItemAssignment to a domain ItemAssignment
func ToDomainItemAssignment(m models.ItemAssignment) domain.ItemAssignment {
	return domain.ItemAssignment{
		AssignmentID: m.AssignmentID,
		LineItemID:   m.LineItemID,
		UserID:       m.UserID,
		ShareAmount:  m.ShareAmount,
	}
}
