package handlers_test

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/dto"
)

func (suite *HandlerTestSuite) sampleReceipt() *domain.Receipt {
	return &domain.Receipt{
		ReceiptID:    "receipt-1",
		GroupID:      "group-1",
		UploadedBy:   "user-1",
		Currency:     "SGD",
		ExchangeRate: decimal.NewFromInt(1),
		Subtotal:     decimal.RequireFromString("33.00"),
		Total:        decimal.RequireFromString("33.00"),
		Status:       domain.ReceiptExtracted,
		Version:      1,
		LineItems: []domain.LineItem{
			{LineItemID: "item-1", ReceiptID: "receipt-1", Description: "Pizza", Quantity: decimal.NewFromInt(1), Amount: decimal.RequireFromString("22.00")},
			{LineItemID: "item-2", ReceiptID: "receipt-1", Description: "Salad", Quantity: decimal.NewFromInt(1), Amount: decimal.RequireFromString("11.00")},
		},
	}
}

func (suite *HandlerTestSuite) TestCreateReceipt() {
	receipt := suite.sampleReceipt()
	suite.mockReceipts.On("CreateReceipt", mock.Anything, mock.AnythingOfType("dto.CreateReceiptRequest"), "group-1", "user-1").Return(receipt, nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/groups/group-1/receipts", suite.generateTestToken("user-1"), dto.CreateReceiptRequest{
		Currency: "SGD",
		LineItems: []dto.CreateLineItemRequest{
			{Description: "Pizza", Amount: decimal.RequireFromString("22.00")},
			{Description: "Salad", Amount: decimal.RequireFromString("11.00")},
		},
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ReceiptResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("receipt-1", resp.ReceiptID)
	suite.Len(resp.LineItems, 2)
}

func (suite *HandlerTestSuite) TestCreateReceiptWithoutItemsOrImage() {
	suite.mockReceipts.On("CreateReceipt", mock.Anything, mock.Anything, "group-1", "user-1").Return(nil, apperrors.ErrValidation)

	w := suite.doRequest(http.MethodPost, "/api/v1/groups/group-1/receipts", suite.generateTestToken("user-1"), dto.CreateReceiptRequest{
		Currency: "SGD",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListReceiptsPassesCursor() {
	next := "cursor-2"
	suite.mockReceipts.On("ListReceipts", mock.Anything, "group-1", "user-1", 5, mock.MatchedBy(func(tok *string) bool {
		return tok != nil && *tok == "cursor-1"
	})).Return([]domain.Receipt{*suite.sampleReceipt()}, &next, nil)

	w := suite.doRequest(http.MethodGet, "/api/v1/groups/group-1/receipts?limit=5&next_token=cursor-1", suite.generateTestToken("user-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListReceiptsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Receipts, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("cursor-2", *resp.NextToken)
}

func (suite *HandlerTestSuite) TestUpdateReceiptVersionConflict() {
	suite.mockReceipts.On("UpdateReceipt", mock.Anything, "receipt-1", mock.AnythingOfType("dto.UpdateReceiptRequest"), "user-1").Return(nil, apperrors.ErrVersionConflict)

	merchant := "Sushi Bar"
	w := suite.doRequest(http.MethodPatch, "/api/v1/receipts/receipt-1", suite.generateTestToken("user-1"), dto.UpdateReceiptRequest{
		MerchantName: &merchant,
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestConfirmReceipt() {
	receipt := suite.sampleReceipt()
	receipt.Status = domain.ReceiptConfirmed
	receipt.Version = 2
	suite.mockReceipts.On("ConfirmReceipt", mock.Anything, "receipt-1", "user-1").Return(receipt, nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/receipts/receipt-1/confirm", suite.generateTestToken("user-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReceiptResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.ReceiptConfirmed, resp.Status)
}

func (suite *HandlerTestSuite) TestDeleteReceiptForbidden() {
	suite.mockReceipts.On("DeleteReceipt", mock.Anything, "receipt-1", "user-2").Return(apperrors.ErrForbidden)

	w := suite.doRequest(http.MethodDelete, "/api/v1/receipts/receipt-1", suite.generateTestToken("user-2"), nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestReplaceAssignments() {
	suite.mockReceipts.On("ReplaceAssignments", mock.Anything, "receipt-1", mock.AnythingOfType("dto.BulkAssignRequest"), "user-1").Return(int64(2), nil)

	w := suite.doRequest(http.MethodPut, "/api/v1/receipts/receipt-1/assignments", suite.generateTestToken("user-1"), dto.BulkAssignRequest{
		Assignments: []dto.LineItemAssignees{
			{LineItemID: "item-1", UserIDs: []string{"user-1", "user-2"}},
		},
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AssignmentResultResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(2), resp.Version)
	suite.Nil(resp.Assigned)
}

func (suite *HandlerTestSuite) TestReplaceAssignmentsRequiresEntries() {
	w := suite.doRequest(http.MethodPut, "/api/v1/receipts/receipt-1/assignments", suite.generateTestToken("user-1"), dto.BulkAssignRequest{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReceipts.AssertNotCalled(suite.T(), "ReplaceAssignments")
}

func (suite *HandlerTestSuite) TestToggleAssignment() {
	suite.mockReceipts.On("ToggleAssignment", mock.Anything, "receipt-1", "item-1", mock.AnythingOfType("dto.ToggleAssignmentRequest"), "user-1").Return(true, int64(3), nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/receipts/receipt-1/line-items/item-1/assignment", suite.generateTestToken("user-1"), dto.ToggleAssignmentRequest{
		UserID: "user-2",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AssignmentResultResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.Assigned)
	suite.True(*resp.Assigned)
	suite.Equal(int64(3), resp.Version)
}

func (suite *HandlerTestSuite) TestRecordPayment() {
	payment := &domain.Payment{PaymentID: "payment-1", ReceiptID: "receipt-1", PaidBy: "user-1", Amount: decimal.RequireFromString("33.00")}
	suite.mockPayments.On("RecordPayment", mock.Anything, "receipt-1", mock.AnythingOfType("dto.CreatePaymentRequest"), "user-1").Return(payment, nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/receipts/receipt-1/payments", suite.generateTestToken("user-1"), dto.CreatePaymentRequest{
		Amount: decimal.RequireFromString("33.00"),
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("payment-1", resp.PaymentID)
	suite.Equal("user-1", resp.PaidBy)
}

func (suite *HandlerTestSuite) TestRecordPaymentOverTotal() {
	suite.mockPayments.On("RecordPayment", mock.Anything, "receipt-1", mock.Anything, "user-1").Return(nil, apperrors.ErrValidation)

	w := suite.doRequest(http.MethodPost, "/api/v1/receipts/receipt-1/payments", suite.generateTestToken("user-1"), dto.CreatePaymentRequest{
		Amount: decimal.RequireFromString("99.00"),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}
