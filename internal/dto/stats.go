package dto

import (
	"github.com/shopspring/decimal"
	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// StatsParams defines query parameters for the group stats endpoint.
type StatsParams struct {
	Period string `form:"period,default=1mo"`
}

// UserSpendingResponse is one member's spending within the period.
type UserSpendingResponse struct {
	UserID      string          `json:"userID"`
	DisplayName string          `json:"displayName"`
	Spent       decimal.Decimal `json:"spent"`
}

// GroupStatsResponse defines the data returned for group statistics.
type GroupStatsResponse struct {
	Period         domain.Period          `json:"period"`
	BaseCurrency   string                 `json:"baseCurrency"`
	TotalSpending  decimal.Decimal        `json:"totalSpending"`
	ReceiptCount   int                    `json:"receiptCount"`
	SpendingByUser []UserSpendingResponse `json:"spendingByUser"`
}

// ToGroupStatsResponse converts a domain.GroupStats to DTO.
func ToGroupStatsResponse(s *domain.GroupStats) GroupStatsResponse {
	byUser := make([]UserSpendingResponse, len(s.SpendingByUser))
	for i, m := range s.SpendingByUser {
		byUser[i] = UserSpendingResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Spent:       m.Spent,
		}
	}
	return GroupStatsResponse{
		Period:         s.Period,
		BaseCurrency:   s.BaseCurrency,
		TotalSpending:  s.TotalSpending,
		ReceiptCount:   s.ReceiptCount,
		SpendingByUser: byUser,
	}
}
