package mapping

import (
	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/models"
)

// ToModelGroup converts a domain Group to a model Group
func ToModelGroup(d domain.Group) models.Group {
	return models.Group{
		GroupID:      d.GroupID,
		Name:         d.Name,
		InviteCode:   d.InviteCode,
		BaseCurrency: d.BaseCurrency,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGroup converts a model Group to a domain Group
func ToDomainGroup(m models.Group) domain.Group {
	return domain.Group{
		GroupID:      m.GroupID,
		Name:         m.Name,
		InviteCode:   m.InviteCode,
		BaseCurrency: m.BaseCurrency,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainGroupMember converts a model GroupMember to a domain GroupMember
func ToDomainGroupMember(m models.GroupMember) domain.GroupMember {
	return domain.GroupMember{
		GroupID:     m.GroupID,
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Role:        domain.GroupRole(m.Role),
		JoinedAt:    m.JoinedAt,
	}
}

// ToDomainGroupMemberSlice converts a slice of model GroupMembers to domain GroupMembers
func ToDomainGroupMemberSlice(ms []models.GroupMember) []domain.GroupMember {
	ds := make([]domain.GroupMember, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGroupMember(m)
	}
	return ds
}
