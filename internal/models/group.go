package models

import "time"

// Group represents a groups table row.
type Group struct {
	GroupID      string `db:"group_id"`
	Name         string `db:"name"`
	InviteCode   string `db:"invite_code"`
	BaseCurrency string `db:"base_currency"`
	AuditFields
}

// GroupMember represents a group_members table row, joined with the member's
// display name for convenience.
type GroupMember struct {
	GroupID     string    `db:"group_id"`
	UserID      string    `db:"user_id"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}
