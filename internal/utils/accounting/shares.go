package accounting

import (
	"crypto/md5"
	"encoding/hex"
	"sort"

	"github.com/shopspring/decimal"
)

// minorUnitExp is the minor-unit exponent all splitting works at. Receipt
// amounts are stored with two decimal places, so shares are computed in
// integer cents to keep the arithmetic exact.
const minorUnitExp = 2

var centFactor = decimal.New(1, minorUnitExp) // 100

// SplitExact divides amount into per-user shares that sum exactly to amount.
// The division works in integer minor units: every user gets the floor share,
// and the remaining cents go one each to the first users in a deterministic
// order. When seed is non-empty the order is derived from md5(seed:userID),
// so leftover cents from different line items land on different users instead
// of always hitting the alphabetically first one. An empty seed falls back to
// plain userID order.
func SplitExact(amount decimal.Decimal, userIDs []string, seed string) map[string]decimal.Decimal {
	n := len(userIDs)
	if n == 0 {
		return map[string]decimal.Decimal{}
	}

	cents := amount.Mul(centFactor).Round(0).IntPart()
	base := cents / int64(n)
	extra := cents % int64(n)

	ordered := make([]string, n)
	copy(ordered, userIDs)
	if seed != "" {
		sort.Slice(ordered, func(i, j int) bool {
			return shareOrderKey(seed, ordered[i]) < shareOrderKey(seed, ordered[j])
		})
	} else {
		sort.Strings(ordered)
	}

	shares := make(map[string]decimal.Decimal, n)
	for i, userID := range ordered {
		c := base
		if int64(i) < extra {
			c++
		}
		shares[userID] = decimal.New(c, -minorUnitExp)
	}
	return shares
}

func shareOrderKey(seed, userID string) string {
	sum := md5.Sum([]byte(seed + ":" + userID))
	return hex.EncodeToString(sum[:])
}

// Prorate splits total across users proportionally to their weights, rounded
// to minor units. The rounding residual is assigned to the user with the
// largest weight (ties broken by the smaller userID) so the shares always sum
// exactly to total. A non-positive weight sum yields no shares.
func Prorate(total decimal.Decimal, weights map[string]decimal.Decimal) map[string]decimal.Decimal {
	weightSum := decimal.Zero
	for _, w := range weights {
		weightSum = weightSum.Add(w)
	}
	if weightSum.LessThanOrEqual(decimal.Zero) || total.IsZero() {
		return map[string]decimal.Decimal{}
	}

	userIDs := make([]string, 0, len(weights))
	for userID := range weights {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	shares := make(map[string]decimal.Decimal, len(weights))
	distributed := decimal.Zero
	largest := ""
	for _, userID := range userIDs {
		share := total.Mul(weights[userID]).Div(weightSum).Round(minorUnitExp)
		shares[userID] = share
		distributed = distributed.Add(share)
		if largest == "" || weights[userID].GreaterThan(weights[largest]) {
			largest = userID
		}
	}

	residual := total.Sub(distributed)
	if !residual.IsZero() {
		shares[largest] = shares[largest].Add(residual)
	}
	return shares
}
