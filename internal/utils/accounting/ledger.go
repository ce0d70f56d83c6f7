package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitledger/bill_split_app/internal/core/domain"
)

// BuildLedger computes every member's {spent, paid, balance} in the group's
// base currency, plus group totals and data-quality warnings. It is a pure
// function of its inputs: calling it twice on the same facts yields the same
// ledger, and it holds no state between calls.
//
// Per receipt it applies the rules of the balance computation:
//
//   - A receipt in the base currency converts at rate 1, whatever rate is
//     stored. Any other receipt with a missing or non-positive rate is
//     excluded and flagged rather than failing the whole run.
//   - Line item shares are recomputed with SplitExact, so the sum of shares
//     always equals the item amount to the cent.
//   - Tax and service charge are prorated over the members that hold at least
//     one assignment on the receipt, proportional to their assigned subtotal.
//     The receipt subtotal is recomputed from line items; a stored total that
//     disagrees is flagged, not corrected. Charges on unassigned value stay
//     group-visible in Totals.Unattributed.
//   - Settlements shift fixed amounts between the two members after all
//     receipts are accumulated: the debtor's balance rises, the creditor's
//     falls.
//
// The period filter keeps receipts whose receipt date (falling back to the
// creation time) lies within the window ending at now. Settlements are not
// period-filtered; pass only the settlements that should apply.
func BuildLedger(
	baseCurrency string,
	members []domain.GroupMember,
	receipts []domain.Receipt,
	settlements []domain.Settlement,
	period domain.Period,
	now time.Time,
) domain.Ledger {
	since := period.Start(now)

	spent := map[string]decimal.Decimal{}
	paid := map[string]decimal.Decimal{}
	totals := domain.LedgerTotals{
		Spent:        decimal.Zero,
		Paid:         decimal.Zero,
		Unattributed: decimal.Zero,
	}
	var warnings []domain.LedgerWarning

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName
		spent[m.UserID] = decimal.Zero
		paid[m.UserID] = decimal.Zero
	}

	for _, receipt := range receipts {
		if !receiptInWindow(receipt, since) {
			continue
		}

		rate, ok := effectiveRate(baseCurrency, receipt)
		if !ok {
			warnings = append(warnings, domain.LedgerWarning{
				Code:      domain.WarnMissingRate,
				ReceiptID: receipt.ReceiptID,
				Amount:    decimal.Zero,
				Detail:    fmt.Sprintf("receipt in %s has no usable exchange rate; excluded from totals", receipt.Currency),
			})
			continue
		}

		// Per-member assigned subtotals, in the receipt's currency.
		subtotal := decimal.Zero
		assignedSubtotal := decimal.Zero
		memberSubtotals := map[string]decimal.Decimal{}
		for _, item := range receipt.LineItems {
			subtotal = subtotal.Add(item.Amount)
			if len(item.Assignments) == 0 {
				continue
			}
			userIDs := make([]string, len(item.Assignments))
			for i, a := range item.Assignments {
				userIDs[i] = a.UserID
			}
			for userID, share := range SplitExact(item.Amount, userIDs, item.LineItemID) {
				memberSubtotals[userID] = memberSubtotals[userID].Add(share)
				assignedSubtotal = assignedSubtotal.Add(share)
			}
		}

		charges := receipt.Tax.Add(receipt.ServiceCharge)
		chargeShares := map[string]decimal.Decimal{}
		unattributed := decimal.Zero
		switch {
		case charges.IsZero():
			// nothing to prorate
		case assignedSubtotal.IsZero() || subtotal.LessThanOrEqual(decimal.Zero):
			unattributed = charges
			warnings = append(warnings, domain.LedgerWarning{
				Code:      domain.WarnUnassignedCharges,
				ReceiptID: receipt.ReceiptID,
				Amount:    charges.Mul(rate),
				Detail:    "tax and service charge have no assigned line items to follow",
			})
		default:
			// The slice of the charges that sits on unassigned line item value
			// stays unattributed; the rest follows assigned subtotal shares.
			unattributed = charges.Mul(subtotal.Sub(assignedSubtotal)).Div(subtotal).Round(2)
			chargeShares = Prorate(charges.Sub(unattributed), memberSubtotals)
		}

		if !receipt.Total.IsZero() {
			recomputed := subtotal.Add(charges)
			if !receipt.Total.Equal(recomputed) {
				warnings = append(warnings, domain.LedgerWarning{
					Code:      domain.WarnTotalMismatch,
					ReceiptID: receipt.ReceiptID,
					Amount:    receipt.Total.Sub(recomputed).Mul(rate),
					Detail: fmt.Sprintf("stored total %s differs from recomputed %s; using recomputed figures",
						receipt.Total.String(), recomputed.String()),
				})
			}
		}

		for userID, sub := range memberSubtotals {
			memberSpend := sub.Add(chargeShares[userID]).Mul(rate)
			spent[userID] = spent[userID].Add(memberSpend)
			totals.Spent = totals.Spent.Add(memberSpend)
		}
		totals.Unattributed = totals.Unattributed.Add(unattributed.Mul(rate))

		for _, payment := range receipt.Payments {
			converted := payment.Amount.Mul(rate)
			paid[payment.PaidBy] = paid[payment.PaidBy].Add(converted)
			totals.Paid = totals.Paid.Add(converted)
		}
	}

	balances := map[string]decimal.Decimal{}
	for userID := range spent {
		balances[userID] = paid[userID].Sub(spent[userID])
	}
	for userID := range paid {
		if _, ok := balances[userID]; !ok {
			balances[userID] = paid[userID].Sub(spent[userID])
		}
	}

	for _, s := range settlements {
		balances[s.FromUser] = balances[s.FromUser].Add(s.Amount)
		balances[s.ToUser] = balances[s.ToUser].Sub(s.Amount)
	}

	perMember := make([]domain.MemberBalance, 0, len(balances))
	for userID, balance := range balances {
		perMember = append(perMember, domain.MemberBalance{
			UserID:      userID,
			DisplayName: names[userID],
			Spent:       spent[userID],
			Paid:        paid[userID],
			Balance:     balance,
		})
	}
	sort.Slice(perMember, func(i, j int) bool {
		return perMember[i].UserID < perMember[j].UserID
	})

	return domain.Ledger{
		BaseCurrency: baseCurrency,
		PerMember:    perMember,
		Totals:       totals,
		Warnings:     warnings,
	}
}

// effectiveRate resolves the base-currency conversion rate for a receipt.
// Receipts already in the base currency always convert at 1, regardless of
// the stored rate. For anything else the stored rate must be positive.
func effectiveRate(baseCurrency string, receipt domain.Receipt) (decimal.Decimal, bool) {
	if receipt.Currency == baseCurrency {
		return decimal.NewFromInt(1), true
	}
	if receipt.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return receipt.ExchangeRate, true
}

func receiptInWindow(receipt domain.Receipt, since time.Time) bool {
	if since.IsZero() {
		return true
	}
	when := receipt.CreatedAt
	if receipt.ReceiptDate != nil {
		when = *receipt.ReceiptDate
	}
	return !when.Before(since)
}
