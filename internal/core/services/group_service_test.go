package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/core/services"
	"github.com/splitledger/bill_split_app/internal/dto"
)

type GroupServiceTestSuite struct {
	suite.Suite
	mockGroupRepo *MockGroupRepository
	mockUserRepo  *MockUserRepository
	service       portssvc.GroupSvcFacade
}

func (suite *GroupServiceTestSuite) SetupTest() {
	suite.mockGroupRepo = new(MockGroupRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewGroupService(suite.mockGroupRepo, suite.mockUserRepo)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_CreatorBecomesOwner() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	req := dto.CreateGroupRequest{Name: "Trip to Osaka", BaseCurrency: "SGD"}

	suite.mockUserRepo.On("FindUserByID", ctx, creatorID).
		Return(&domain.User{UserID: creatorID, DisplayName: "Alice"}, nil).Once()
	suite.mockGroupRepo.On("SaveGroup", ctx, mock.MatchedBy(func(g domain.Group) bool {
		return g.Name == "Trip to Osaka" && g.BaseCurrency == "SGD" && g.InviteCode != "" && g.CreatedBy == creatorID
	})).Return(nil).Once()
	suite.mockGroupRepo.On("AddMember", ctx, mock.MatchedBy(func(m domain.GroupMember) bool {
		return m.UserID == creatorID && m.Role == domain.RoleOwner && m.DisplayName == "Alice"
	})).Return(nil).Once()

	group, err := suite.service.CreateGroup(ctx, req, creatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(group)
	suite.Equal("SGD", group.BaseCurrency)
	suite.Len(group.InviteCode, 8)
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestJoinByInviteCode_AddsMember() {
	ctx := context.Background()
	userID := uuid.NewString()
	group := &domain.Group{GroupID: uuid.NewString(), Name: "Dinner Club", InviteCode: "AB12CD34", BaseCurrency: "USD"}

	suite.mockGroupRepo.On("FindGroupByInviteCode", ctx, "AB12CD34").Return(group, nil).Once()
	suite.mockGroupRepo.On("FindMember", ctx, group.GroupID, userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockGroupRepo.On("AddMember", ctx, mock.MatchedBy(func(m domain.GroupMember) bool {
		return m.GroupID == group.GroupID && m.UserID == userID && m.Role == domain.RoleMember && m.DisplayName == "Bob"
	})).Return(nil).Once()

	got, err := suite.service.JoinByInviteCode(ctx, "AB12CD34", userID, "Bob")

	suite.Require().NoError(err)
	suite.Equal(group.GroupID, got.GroupID)
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestJoinByInviteCode_AlreadyMemberIsNoOp() {
	ctx := context.Background()
	userID := uuid.NewString()
	group := &domain.Group{GroupID: uuid.NewString(), InviteCode: "AB12CD34"}

	suite.mockGroupRepo.On("FindGroupByInviteCode", ctx, "AB12CD34").Return(group, nil).Once()
	suite.mockGroupRepo.On("FindMember", ctx, group.GroupID, userID).
		Return(&domain.GroupMember{GroupID: group.GroupID, UserID: userID}, nil).Once()

	got, err := suite.service.JoinByInviteCode(ctx, "AB12CD34", userID, "Bob")

	suite.Require().NoError(err)
	suite.Equal(group.GroupID, got.GroupID)
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "AddMember", mock.Anything, mock.Anything)
}

func (suite *GroupServiceTestSuite) TestJoinByInviteCode_UnknownCode() {
	ctx := context.Background()

	suite.mockGroupRepo.On("FindGroupByInviteCode", ctx, "NOPE").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.JoinByInviteCode(ctx, "NOPE", uuid.NewString(), "Bob")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *GroupServiceTestSuite) TestAuthorizeMember_NonMemberForbidden() {
	ctx := context.Background()
	groupID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockGroupRepo.On("FindMember", ctx, groupID, userID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeMember(ctx, userID, groupID, domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *GroupServiceTestSuite) TestAuthorizeMember_MemberCannotActAsOwner() {
	ctx := context.Background()
	groupID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockGroupRepo.On("FindMember", ctx, groupID, userID).
		Return(&domain.GroupMember{GroupID: groupID, UserID: userID, Role: domain.RoleMember}, nil).Once()

	err := suite.service.AuthorizeMember(ctx, userID, groupID, domain.RoleOwner)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *GroupServiceTestSuite) TestUpdateBaseCurrency_OwnerOnly() {
	ctx := context.Background()
	groupID := uuid.NewString()
	memberID := uuid.NewString()

	suite.mockGroupRepo.On("FindMember", ctx, groupID, memberID).
		Return(&domain.GroupMember{GroupID: groupID, UserID: memberID, Role: domain.RoleMember}, nil).Once()

	_, err := suite.service.UpdateBaseCurrency(ctx, groupID, "EUR", memberID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "UpdateBaseCurrency", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GroupServiceTestSuite) TestUpdateBaseCurrency_Success() {
	ctx := context.Background()
	groupID := uuid.NewString()
	ownerID := uuid.NewString()
	updated := &domain.Group{GroupID: groupID, BaseCurrency: "EUR"}

	suite.mockGroupRepo.On("FindMember", ctx, groupID, ownerID).
		Return(&domain.GroupMember{GroupID: groupID, UserID: ownerID, Role: domain.RoleOwner}, nil).Once()
	suite.mockGroupRepo.On("UpdateBaseCurrency", ctx, groupID, "EUR", ownerID).Return(nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, groupID).Return(updated, nil).Once()

	group, err := suite.service.UpdateBaseCurrency(ctx, groupID, "EUR", ownerID)

	suite.Require().NoError(err)
	suite.Equal("EUR", group.BaseCurrency)
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func TestGroupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GroupServiceTestSuite))
}
