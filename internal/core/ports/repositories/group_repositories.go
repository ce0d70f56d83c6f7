package repositories

import (
	"context"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// GroupReader defines read operations for groups and their memberships.
type GroupReader interface {
	FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error)
	FindGroupByInviteCode(ctx context.Context, inviteCode string) (*domain.Group, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]domain.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error)
	FindMember(ctx context.Context, groupID string, userID string) (*domain.GroupMember, error)
}

// GroupWriter defines write operations for groups and their memberships.
type GroupWriter interface {
	SaveGroup(ctx context.Context, group domain.Group) error
	AddMember(ctx context.Context, member domain.GroupMember) error
	UpdateBaseCurrency(ctx context.Context, groupID string, baseCurrency string, updaterUserID string) error
}

// GroupRepositoryFacade combines all group repository capabilities.
type GroupRepositoryFacade interface {
	GroupReader
	GroupWriter
}
