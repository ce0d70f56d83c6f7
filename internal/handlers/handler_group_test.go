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

func (suite *HandlerTestSuite) TestCreateGroup() {
	group := &domain.Group{GroupID: "group-1", Name: "Trip to Osaka", InviteCode: "A1B2C3D4", BaseCurrency: "JPY"}
	suite.mockGroups.On("CreateGroup", mock.Anything, dto.CreateGroupRequest{Name: "Trip to Osaka", BaseCurrency: "JPY"}, "user-1").Return(group, nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/groups", suite.generateTestToken("user-1"), dto.CreateGroupRequest{
		Name:         "Trip to Osaka",
		BaseCurrency: "JPY",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.GroupResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("group-1", resp.GroupID)
	suite.Equal("A1B2C3D4", resp.InviteCode)
	suite.mockGroups.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateGroupRequiresAuth() {
	w := suite.doRequest(http.MethodPost, "/api/v1/groups", "", dto.CreateGroupRequest{
		Name:         "Trip to Osaka",
		BaseCurrency: "JPY",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockGroups.AssertNotCalled(suite.T(), "CreateGroup")
}

func (suite *HandlerTestSuite) TestJoinGroupUnknownCode() {
	suite.mockUsers.On("GetUserByID", mock.Anything, "user-1").Return(&domain.User{UserID: "user-1", DisplayName: "Ana"}, nil)
	suite.mockGroups.On("JoinByInviteCode", mock.Anything, "NOPE1234", "user-1", "Ana").Return(nil, apperrors.ErrNotFound)

	w := suite.doRequest(http.MethodPost, "/api/v1/groups/join", suite.generateTestToken("user-1"), dto.JoinGroupRequest{
		InviteCode: "NOPE1234",
	})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetGroupForbiddenForNonMember() {
	suite.mockGroups.On("GetGroupByID", mock.Anything, "group-1", "outsider").Return(nil, apperrors.ErrForbidden)

	w := suite.doRequest(http.MethodGet, "/api/v1/groups/group-1", suite.generateTestToken("outsider"), nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestListMembers() {
	members := []domain.GroupMember{
		{GroupID: "group-1", UserID: "user-1", DisplayName: "Ana", Role: domain.RoleOwner},
		{GroupID: "group-1", UserID: "user-2", DisplayName: "Ben", Role: domain.RoleMember},
	}
	suite.mockGroups.On("AuthorizeMember", mock.Anything, "user-1", "group-1", domain.RoleMember).Return(nil)
	suite.mockGroups.On("ListMembers", mock.Anything, "group-1").Return(members, nil)

	w := suite.doRequest(http.MethodGet, "/api/v1/groups/group-1/members", suite.generateTestToken("user-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListGroupMembersResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Members, 2)
}

func (suite *HandlerTestSuite) TestUpdateCurrencyOwnerOnly() {
	suite.mockGroups.On("UpdateBaseCurrency", mock.Anything, "group-1", "EUR", "user-2").Return(nil, apperrors.ErrForbidden)

	w := suite.doRequest(http.MethodPatch, "/api/v1/groups/group-1/currency", suite.generateTestToken("user-2"), dto.UpdateCurrencyRequest{
		BaseCurrency: "EUR",
	})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestGetBalances() {
	ledger := &domain.Ledger{
		BaseCurrency: "SGD",
		PerMember: []domain.MemberBalance{
			{UserID: "user-1", DisplayName: "Ana", Spent: decimal.RequireFromString("11.00"), Paid: decimal.RequireFromString("33.00"), Balance: decimal.RequireFromString("22.00")},
			{UserID: "user-2", DisplayName: "Ben", Spent: decimal.RequireFromString("22.00"), Paid: decimal.Zero, Balance: decimal.RequireFromString("-22.00")},
		},
		Totals: domain.LedgerTotals{Spent: decimal.RequireFromString("33.00"), Paid: decimal.RequireFromString("33.00")},
	}
	transfers := []domain.Transfer{{FromUser: "user-2", ToUser: "user-1", Amount: decimal.RequireFromString("22.00")}}

	suite.mockBalances.On("ComputeLedger", mock.Anything, "group-1", "user-1", domain.PeriodAll).Return(ledger, nil)
	suite.mockBalances.On("ComputeTransfers", ledger.PerMember).Return(transfers)

	w := suite.doRequest(http.MethodGet, "/api/v1/groups/group-1/balances", suite.generateTestToken("user-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalancesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("SGD", resp.BaseCurrency)
	suite.Len(resp.Transfers, 1)
	suite.Equal("user-2", resp.Transfers[0].FromUser)
}

func (suite *HandlerTestSuite) TestGetBalancesUnknownPeriod() {
	suite.mockBalances.On("ComputeLedger", mock.Anything, "group-1", "user-1", domain.Period("2wk")).Return(nil, apperrors.ErrValidation)

	w := suite.doRequest(http.MethodGet, "/api/v1/groups/group-1/balances?period=2wk", suite.generateTestToken("user-1"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRecordSettlement() {
	settlement := &domain.Settlement{SettlementID: "settle-1", GroupID: "group-1", FromUser: "user-2", ToUser: "user-1", Amount: decimal.RequireFromString("22.00")}
	suite.mockBalances.On("RecordSettlement", mock.Anything, "group-1", mock.AnythingOfType("dto.SettleRequest"), "user-2").Return(settlement, nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/groups/group-1/settlements", suite.generateTestToken("user-2"), dto.SettleRequest{
		FromUser: "user-2",
		ToUser:   "user-1",
		Amount:   decimal.RequireFromString("22.00"),
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.SettlementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("settle-1", resp.SettlementID)
}

func (suite *HandlerTestSuite) TestClearSettlements() {
	suite.mockBalances.On("ClearSettlements", mock.Anything, "group-1", "user-1").Return(int64(3), nil)

	w := suite.doRequest(http.MethodDelete, "/api/v1/groups/group-1/settlements", suite.generateTestToken("user-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ClearSettlementsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(3), resp.Deleted)
}

func (suite *HandlerTestSuite) TestGetGroupStats() {
	stats := &domain.GroupStats{
		Period:        domain.PeriodMonth,
		BaseCurrency:  "SGD",
		TotalSpending: decimal.RequireFromString("33.00"),
		ReceiptCount:  2,
	}
	suite.mockStats.On("GetGroupStats", mock.Anything, "group-1", "user-1", domain.PeriodMonth).Return(stats, nil)

	w := suite.doRequest(http.MethodGet, "/api/v1/groups/group-1/stats", suite.generateTestToken("user-1"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.GroupStatsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.ReceiptCount)
}
