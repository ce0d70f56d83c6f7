package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/core/services"
	"github.com/splitledger/bill_split_app/internal/dto"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockGroupRepo      *MockGroupRepository
	mockReceiptRepo    *MockReceiptRepository
	mockSettlementRepo *MockSettlementRepository
	mockAuthorizer     *MockGroupAuthorizer
	service            portssvc.BalanceSvcFacade

	groupID string
	userA   string
	userB   string
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockGroupRepo = new(MockGroupRepository)
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockAuthorizer = new(MockGroupAuthorizer)
	suite.service = services.NewBalanceService(suite.mockGroupRepo, suite.mockReceiptRepo, suite.mockSettlementRepo, suite.mockAuthorizer)

	suite.groupID = uuid.NewString()
	suite.userA = "user-a"
	suite.userB = "user-b"
}

func (suite *BalanceServiceTestSuite) allowMembers() {
	suite.mockAuthorizer.On("AuthorizeMember", mock.Anything, mock.Anything, suite.groupID, mock.Anything).Return(nil)
}

// dinnerReceipt: A paid 33.00 for a pizza assigned to B (22.00) and a salad
// assigned to A (11.00).
func (suite *BalanceServiceTestSuite) dinnerReceipt() domain.Receipt {
	receiptID := uuid.NewString()
	return domain.Receipt{
		ReceiptID:    receiptID,
		GroupID:      suite.groupID,
		UploadedBy:   suite.userA,
		Currency:     "SGD",
		ExchangeRate: decimal.NewFromInt(1),
		Subtotal:     decimal.RequireFromString("33.00"),
		Total:        decimal.RequireFromString("33.00"),
		Status:       domain.ReceiptConfirmed,
		LineItems: []domain.LineItem{
			{
				LineItemID: "pizza",
				ReceiptID:  receiptID,
				Amount:     decimal.RequireFromString("22.00"),
				Assignments: []domain.ItemAssignment{
					{LineItemID: "pizza", UserID: suite.userB, ShareAmount: decimal.RequireFromString("22.00")},
				},
			},
			{
				LineItemID: "salad",
				ReceiptID:  receiptID,
				Amount:     decimal.RequireFromString("11.00"),
				Assignments: []domain.ItemAssignment{
					{LineItemID: "salad", UserID: suite.userA, ShareAmount: decimal.RequireFromString("11.00")},
				},
			},
		},
		Payments: []domain.Payment{
			{PaymentID: uuid.NewString(), ReceiptID: receiptID, PaidBy: suite.userA, Amount: decimal.RequireFromString("33.00")},
		},
		AuditFields: domain.AuditFields{CreatedAt: time.Now()},
	}
}

func (suite *BalanceServiceTestSuite) TestComputeLedger_DinnerScenario() {
	ctx := context.Background()
	suite.allowMembers()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.groupID).
		Return(&domain.Group{GroupID: suite.groupID, BaseCurrency: "SGD"}, nil).Once()
	suite.mockGroupRepo.On("ListMembers", ctx, suite.groupID).Return([]domain.GroupMember{
		{GroupID: suite.groupID, UserID: suite.userA, DisplayName: "A"},
		{GroupID: suite.groupID, UserID: suite.userB, DisplayName: "B"},
	}, nil).Once()
	suite.mockReceiptRepo.On("ListReceiptsWithDetails", ctx, suite.groupID).
		Return([]domain.Receipt{suite.dinnerReceipt()}, nil).Once()
	suite.mockSettlementRepo.On("ListSettlementsByGroup", ctx, suite.groupID).
		Return([]domain.Settlement{}, nil).Once()

	ledger, err := suite.service.ComputeLedger(ctx, suite.groupID, suite.userA, domain.PeriodAll)

	suite.Require().NoError(err)
	suite.Equal("SGD", ledger.BaseCurrency)
	suite.Require().Len(ledger.PerMember, 2)

	byUser := map[string]domain.MemberBalance{}
	for _, m := range ledger.PerMember {
		byUser[m.UserID] = m
	}
	suite.True(byUser[suite.userA].Balance.Equal(decimal.RequireFromString("22.00")))
	suite.True(byUser[suite.userB].Balance.Equal(decimal.RequireFromString("-22.00")))

	transfers := suite.service.ComputeTransfers(ledger.PerMember)
	suite.Require().Len(transfers, 1)
	suite.Equal(suite.userB, transfers[0].FromUser)
	suite.Equal(suite.userA, transfers[0].ToUser)
	suite.True(transfers[0].Amount.Equal(decimal.RequireFromString("22.00")))
}

func (suite *BalanceServiceTestSuite) TestComputeLedger_InvalidPeriod() {
	ctx := context.Background()
	suite.allowMembers()

	_, err := suite.service.ComputeLedger(ctx, suite.groupID, suite.userA, domain.Period("2w"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BalanceServiceTestSuite) TestComputeLedger_NonMemberDenied() {
	ctx := context.Background()
	outsider := uuid.NewString()
	suite.mockAuthorizer.On("AuthorizeMember", ctx, outsider, suite.groupID, domain.RoleMember).
		Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ComputeLedger(ctx, suite.groupID, outsider, domain.PeriodAll)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *BalanceServiceTestSuite) TestRecordSettlement_Success() {
	ctx := context.Background()
	suite.allowMembers()
	suite.mockGroupRepo.On("FindMember", ctx, suite.groupID, suite.userB).
		Return(&domain.GroupMember{GroupID: suite.groupID, UserID: suite.userB}, nil).Once()
	suite.mockGroupRepo.On("FindMember", ctx, suite.groupID, suite.userA).
		Return(&domain.GroupMember{GroupID: suite.groupID, UserID: suite.userA}, nil).Once()
	suite.mockSettlementRepo.On("SaveSettlement", ctx, mock.MatchedBy(func(s domain.Settlement) bool {
		return s.GroupID == suite.groupID && s.FromUser == suite.userB && s.ToUser == suite.userA && s.Amount.Equal(decimal.RequireFromString("22.00"))
	})).Return(nil).Once()

	req := dto.SettleRequest{FromUser: suite.userB, ToUser: suite.userA, Amount: decimal.RequireFromString("22.00")}
	settlement, err := suite.service.RecordSettlement(ctx, suite.groupID, req, suite.userB)

	suite.Require().NoError(err)
	suite.NotEmpty(settlement.SettlementID)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestRecordSettlement_RejectsNonPositiveAmount() {
	ctx := context.Background()
	suite.allowMembers()

	req := dto.SettleRequest{FromUser: suite.userB, ToUser: suite.userA, Amount: decimal.Zero}
	_, err := suite.service.RecordSettlement(ctx, suite.groupID, req, suite.userB)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BalanceServiceTestSuite) TestRecordSettlement_RejectsSelfSettlement() {
	ctx := context.Background()
	suite.allowMembers()

	req := dto.SettleRequest{FromUser: suite.userA, ToUser: suite.userA, Amount: decimal.NewFromInt(5)}
	_, err := suite.service.RecordSettlement(ctx, suite.groupID, req, suite.userA)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BalanceServiceTestSuite) TestRecordSettlement_RejectsNonMemberParty() {
	ctx := context.Background()
	outsider := uuid.NewString()
	suite.allowMembers()
	suite.mockGroupRepo.On("FindMember", ctx, suite.groupID, outsider).
		Return(nil, apperrors.ErrNotFound).Once()

	req := dto.SettleRequest{FromUser: outsider, ToUser: suite.userA, Amount: decimal.NewFromInt(5)}
	_, err := suite.service.RecordSettlement(ctx, suite.groupID, req, suite.userA)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BalanceServiceTestSuite) TestClearSettlements_OwnerOnly() {
	ctx := context.Background()
	suite.mockAuthorizer.On("AuthorizeMember", ctx, suite.userB, suite.groupID, domain.RoleOwner).
		Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ClearSettlements(ctx, suite.groupID, suite.userB)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "DeleteSettlementsByGroup", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestClearSettlements_ReturnsCount() {
	ctx := context.Background()
	suite.mockAuthorizer.On("AuthorizeMember", ctx, suite.userA, suite.groupID, domain.RoleOwner).Return(nil).Once()
	suite.mockSettlementRepo.On("DeleteSettlementsByGroup", ctx, suite.groupID).Return(int64(3), nil).Once()

	deleted, err := suite.service.ClearSettlements(ctx, suite.groupID, suite.userA)

	suite.Require().NoError(err)
	suite.Equal(int64(3), deleted)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
