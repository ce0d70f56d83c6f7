package pgsql

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

func TestAttachLineItemsKeepsAssignmentsOnMultiItemReceipts(t *testing.T) {
	receipts := []domain.Receipt{
		{ReceiptID: "rcpt-1", LineItems: []domain.LineItem{}},
		{ReceiptID: "rcpt-2", LineItems: []domain.LineItem{}},
	}
	index := make(map[string]*domain.Receipt, len(receipts))
	for i := range receipts {
		index[receipts[i].ReceiptID] = &receipts[i]
	}

	items := []domain.LineItem{
		{LineItemID: "li-1", ReceiptID: "rcpt-1", Description: "Pizza", Amount: decimal.RequireFromString("22.00"), Assignments: []domain.ItemAssignment{}},
		{LineItemID: "li-2", ReceiptID: "rcpt-1", Description: "Salad", Amount: decimal.RequireFromString("11.00"), Assignments: []domain.ItemAssignment{}},
		{LineItemID: "li-3", ReceiptID: "rcpt-2", Description: "Coffee", Amount: decimal.RequireFromString("4.50"), Assignments: []domain.ItemAssignment{}},
	}

	itemIndex := attachLineItems(index, items)

	// Append through the index the same way the assignment scan does. With a
	// receipt holding more than one item this is exactly where pointers taken
	// mid-append would have gone stale.
	itemIndex["li-1"].Assignments = append(itemIndex["li-1"].Assignments, domain.ItemAssignment{AssignmentID: "a-1", LineItemID: "li-1", UserID: "user-1"})
	itemIndex["li-2"].Assignments = append(itemIndex["li-2"].Assignments, domain.ItemAssignment{AssignmentID: "a-2", LineItemID: "li-2", UserID: "user-2"})
	itemIndex["li-3"].Assignments = append(itemIndex["li-3"].Assignments, domain.ItemAssignment{AssignmentID: "a-3", LineItemID: "li-3", UserID: "user-1"})

	require.Len(t, receipts[0].LineItems, 2)
	require.Len(t, receipts[1].LineItems, 1)
	assert.Equal(t, "li-1", receipts[0].LineItems[0].LineItemID)
	assert.Equal(t, "li-2", receipts[0].LineItems[1].LineItemID)

	require.Len(t, receipts[0].LineItems[0].Assignments, 1)
	require.Len(t, receipts[0].LineItems[1].Assignments, 1)
	require.Len(t, receipts[1].LineItems[0].Assignments, 1)
	assert.Equal(t, "a-1", receipts[0].LineItems[0].Assignments[0].AssignmentID)
	assert.Equal(t, "a-2", receipts[0].LineItems[1].Assignments[0].AssignmentID)
	assert.Equal(t, "a-3", receipts[1].LineItems[0].Assignments[0].AssignmentID)
}

func TestAttachLineItemsEmpty(t *testing.T) {
	receipt := domain.Receipt{ReceiptID: "rcpt-1", LineItems: []domain.LineItem{}}
	index := map[string]*domain.Receipt{"rcpt-1": &receipt}

	itemIndex := attachLineItems(index, nil)

	assert.Empty(t, itemIndex)
	assert.Empty(t, receipt.LineItems)
}
