package accounting

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// settleEpsilon is the tolerance below which a balance counts as settled.
// Half a minor unit: anything smaller cannot be paid in cash anyway.
var settleEpsilon = decimal.RequireFromString("0.005")

// MinimizeTransfers turns a balance vector into the smallest list of pairwise
// repayments that settles the group. It greedily matches the largest debtor
// against the largest creditor, which is optimal given that partial transfers
// are allowed; it makes no attempt to find exact-sum sub-groups that could
// shave a transfer off pathological distributions, and that is accepted
// behavior. Sorting is stable on user ID so equal balances always produce the
// same output.
//
// Applying the returned transfers to the input vector brings every balance to
// zero within settleEpsilon. The function is pure; it never mutates its input.
func MinimizeTransfers(balances []domain.MemberBalance) []domain.Transfer {
	type position struct {
		userID string
		amount decimal.Decimal // always positive
	}

	var debtors, creditors []position
	for _, mb := range balances {
		switch {
		case mb.Balance.LessThan(settleEpsilon.Neg()):
			debtors = append(debtors, position{mb.UserID, mb.Balance.Neg()})
		case mb.Balance.GreaterThan(settleEpsilon):
			creditors = append(creditors, position{mb.UserID, mb.Balance})
		}
	}

	byAmountDesc := func(ps []position) func(i, j int) bool {
		return func(i, j int) bool {
			if !ps[i].amount.Equal(ps[j].amount) {
				return ps[i].amount.GreaterThan(ps[j].amount)
			}
			return ps[i].userID < ps[j].userID
		}
	}
	sort.Slice(debtors, byAmountDesc(debtors))
	sort.Slice(creditors, byAmountDesc(creditors))

	var transfers []domain.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.GreaterThan(settleEpsilon) {
			transfers = append(transfers, domain.Transfer{
				FromUser: debtors[i].userID,
				ToUser:   creditors[j].userID,
				Amount:   amount.Round(2),
			})
		}
		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)
		if debtors[i].amount.LessThanOrEqual(settleEpsilon) {
			i++
		}
		if creditors[j].amount.LessThanOrEqual(settleEpsilon) {
			j++
		}
	}
	return transfers
}
