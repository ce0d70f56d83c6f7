package dto

import (
	"time"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// --- Group DTOs ---

// CreateGroupRequest defines data for creating a new group.
type CreateGroupRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	BaseCurrency string `json:"baseCurrency" binding:"required,currencycode"`
}

// JoinGroupRequest defines data for joining a group by invite code.
type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// UpdateCurrencyRequest defines data for changing a group's base currency.
type UpdateCurrencyRequest struct {
	BaseCurrency string `json:"baseCurrency" binding:"required,currencycode"`
}

// GroupResponse defines data returned for a group.
type GroupResponse struct {
	GroupID      string    `json:"groupID"`
	Name         string    `json:"name"`
	InviteCode   string    `json:"inviteCode"`
	BaseCurrency string    `json:"baseCurrency"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"` // UserID
}

// ToGroupResponse converts domain.Group to DTO.
func ToGroupResponse(g *domain.Group) GroupResponse {
	return GroupResponse{
		GroupID:      g.GroupID,
		Name:         g.Name,
		InviteCode:   g.InviteCode,
		BaseCurrency: g.BaseCurrency,
		CreatedAt:    g.CreatedAt,
		CreatedBy:    g.CreatedBy,
	}
}

// ListGroupsResponse wraps a list of groups.
type ListGroupsResponse struct {
	Groups []GroupResponse `json:"groups"`
}

// ToListGroupsResponse converts a slice of domain.Group to DTO.
func ToListGroupsResponse(gs []domain.Group) ListGroupsResponse {
	list := make([]GroupResponse, len(gs))
	for i, g := range gs {
		list[i] = ToGroupResponse(&g)
	}
	return ListGroupsResponse{Groups: list}
}

// --- Group Membership DTOs ---

// GroupMemberResponse defines data returned about a group member.
type GroupMemberResponse struct {
	UserID      string           `json:"userID"`
	DisplayName string           `json:"displayName"`
	Role        domain.GroupRole `json:"role"`
	JoinedAt    time.Time        `json:"joinedAt"`
}

// ListGroupMembersResponse wraps a list of group members.
type ListGroupMembersResponse struct {
	Members []GroupMemberResponse `json:"members"`
}

// ToGroupMemberResponse converts domain.GroupMember to DTO.
func ToGroupMemberResponse(m *domain.GroupMember) GroupMemberResponse {
	return GroupMemberResponse{
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		JoinedAt:    m.JoinedAt,
	}
}

// ToListGroupMembersResponse converts a slice of domain.GroupMember to DTO.
func ToListGroupMembersResponse(ms []domain.GroupMember) ListGroupMembersResponse {
	list := make([]GroupMemberResponse, len(ms))
	for i, m := range ms {
		list[i] = ToGroupMemberResponse(&m)
	}
	return ListGroupMembersResponse{Members: list}
}
