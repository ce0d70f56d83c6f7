package domain

import "time"

// GroupRole defines the possible roles a user can have within a group.
type GroupRole string

const (
	RoleOwner  GroupRole = "OWNER"
	RoleMember GroupRole = "MEMBER"
)

// Group represents a set of people splitting bills together.
// BaseCurrency is the currency every balance computation reports in; changing
// it is its own operation and does not rewrite stored receipt amounts.
type Group struct {
	GroupID      string `json:"groupID"` // Primary Key (e.g., UUID)
	Name         string `json:"name"`
	InviteCode   string `json:"inviteCode"`   // Short code used to join the group
	BaseCurrency string `json:"baseCurrency"` // ISO 4217 code, e.g. "SGD"
	AuditFields
}

// GroupMember represents the membership of a User in a Group.
type GroupMember struct {
	GroupID     string    `json:"groupID"` // FK -> groups.group_id
	UserID      string    `json:"userID"`  // FK -> users.user_id
	DisplayName string    `json:"displayName"`
	Role        GroupRole `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}
