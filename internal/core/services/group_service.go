package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
	"github.com/splitledger/bill_split_app/internal/utils"
)

const inviteCodeLength = 8

// GroupService handles business logic related to groups and memberships.
type GroupService struct {
	BaseService
	groupRepo portsrepo.GroupRepositoryFacade
	userRepo  portsrepo.UserReader
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo portsrepo.GroupRepositoryFacade, userRepo portsrepo.UserReader) portssvc.GroupSvcFacade {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

var _ portssvc.GroupSvcFacade = (*GroupService)(nil)

// AuthorizeMember checks that userID holds at least requiredRole in groupID.
// Non-members get ErrForbidden rather than ErrNotFound so that probing for
// group IDs reveals nothing.
func (s *GroupService) AuthorizeMember(ctx context.Context, userID string, groupID string, requiredRole domain.GroupRole) error {
	member, err := s.groupRepo.FindMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user is not a member of the group", apperrors.ErrForbidden)
		}
		return fmt.Errorf("failed to check group membership: %w", err)
	}

	if requiredRole == domain.RoleOwner && member.Role != domain.RoleOwner {
		return fmt.Errorf("%w: operation requires the group owner", apperrors.ErrForbidden)
	}

	return nil
}

// CreateGroup creates a new group with a fresh invite code and makes the
// creator its owner.
func (s *GroupService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.Group, error) {
	logger := s.GetLogger(ctx)

	inviteCode, err := utils.GenerateInviteCode(inviteCodeLength)
	if err != nil {
		logger.Error("Failed to generate invite code", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}

	now := time.Now()
	group := domain.Group{
		GroupID:      uuid.NewString(),
		Name:         req.Name,
		InviteCode:   inviteCode,
		BaseCurrency: req.BaseCurrency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.groupRepo.SaveGroup(ctx, group); err != nil {
		logger.Error("Failed to save group in repository", slog.String("error", err.Error()), slog.String("group_name", req.Name))
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	membership := domain.GroupMember{
		GroupID:     group.GroupID,
		UserID:      creatorUserID,
		DisplayName: creator.DisplayName,
		Role:        domain.RoleOwner,
		JoinedAt:    now,
	}
	if err := s.groupRepo.AddMember(ctx, membership); err != nil {
		logger.Error("Failed to add creator as owner to new group", slog.String("error", err.Error()), slog.String("group_id", group.GroupID))
		return nil, fmt.Errorf("failed to add creator to group: %w", err)
	}

	logger.Info("Group created", slog.String("group_id", group.GroupID), slog.String("creator_user_id", creatorUserID))
	return &group, nil
}

// GetGroupByID returns the group after verifying the requester is a member.
func (s *GroupService) GetGroupByID(ctx context.Context, groupID string, requestingUserID string) (*domain.Group, error) {
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroupsForUser returns all groups the user belongs to.
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]domain.Group, error) {
	groups, err := s.groupRepo.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}
	return groups, nil
}

// ListMembers returns the group's membership roster.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	return members, nil
}

// JoinByInviteCode adds the user to the group behind the invite code.
// Joining a group twice is a no-op that returns the group.
func (s *GroupService) JoinByInviteCode(ctx context.Context, inviteCode string, userID string, displayName string) (*domain.Group, error) {
	logger := s.GetLogger(ctx)

	group, err := s.groupRepo.FindGroupByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid invite code", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if _, err := s.groupRepo.FindMember(ctx, group.GroupID, userID); err == nil {
		return group, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}

	if displayName == "" {
		user, err := s.userRepo.FindUserByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load joining user: %w", err)
		}
		displayName = user.DisplayName
	}

	membership := domain.GroupMember{
		GroupID:     group.GroupID,
		UserID:      userID,
		DisplayName: displayName,
		Role:        domain.RoleMember,
		JoinedAt:    time.Now(),
	}
	if err := s.groupRepo.AddMember(ctx, membership); err != nil {
		logger.Error("Failed to add member to group", slog.String("error", err.Error()), slog.String("group_id", group.GroupID), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to join group: %w", err)
	}

	logger.Info("User joined group", slog.String("group_id", group.GroupID), slog.String("user_id", userID))
	return group, nil
}

// UpdateBaseCurrency changes the currency balances are reported in. Stored
// receipt amounts are untouched; only subsequent conversions use the new base.
// Owner only.
func (s *GroupService) UpdateBaseCurrency(ctx context.Context, groupID string, baseCurrency string, requestingUserID string) (*domain.Group, error) {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleOwner); err != nil {
		return nil, err
	}

	if len(baseCurrency) != 3 {
		return nil, fmt.Errorf("%w: base currency must be a 3-letter ISO 4217 code", apperrors.ErrValidation)
	}

	if err := s.groupRepo.UpdateBaseCurrency(ctx, groupID, baseCurrency, requestingUserID); err != nil {
		logger.Error("Failed to update base currency", slog.String("error", err.Error()), slog.String("group_id", groupID))
		return nil, fmt.Errorf("failed to update base currency: %w", err)
	}

	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload group: %w", err)
	}

	logger.Info("Group base currency updated", slog.String("group_id", groupID), slog.String("base_currency", baseCurrency))
	return group, nil
}
