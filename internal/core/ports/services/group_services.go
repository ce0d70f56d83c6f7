package services

import (
	"context"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/dto"
)

// GroupAuthorizerSvc checks that a user holds at least the required role in a
// group. Other services depend on this narrow interface instead of the full
// group service.
type GroupAuthorizerSvc interface {
	AuthorizeMember(ctx context.Context, userID string, groupID string, requiredRole domain.GroupRole) error
}

// GroupReaderSvc exposes group reads needed by sibling services.
type GroupReaderSvc interface {
	GetGroupByID(ctx context.Context, groupID string, requestingUserID string) (*domain.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error)
}

// GroupSvcFacade defines the business operations on groups.
type GroupSvcFacade interface {
	GroupAuthorizerSvc
	GroupReaderSvc

	CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]domain.Group, error)
	JoinByInviteCode(ctx context.Context, inviteCode string, userID string, displayName string) (*domain.Group, error)

	// UpdateBaseCurrency changes the currency balances are reported in.
	// Stored receipt amounts are untouched; only subsequent conversions use
	// the new base.
	UpdateBaseCurrency(ctx context.Context, groupID string, baseCurrency string, requestingUserID string) (*domain.Group, error)
}
