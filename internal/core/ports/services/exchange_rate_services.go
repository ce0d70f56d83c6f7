package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProviderSvc is the boundary to the external exchange-rate lookup
// collaborator. Implementations must return 1 when both codes are equal and
// are expected to cache upstream responses.
type RateProviderSvc interface {
	GetRate(ctx context.Context, fromCurrency string, toCurrency string) (decimal.Decimal, error)
}
