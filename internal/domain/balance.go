package domain

import "github.com/shopspring/decimal"

// MovementSum is the aggregated debit/credit totals for one account over
// some date window, as returned by the store.
type MovementSum struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// ResolveBalances computes the signed balance per account from an opening
// baseline plus aggregated ledger movements. It is the single balance
// computation shared by the trial balance aggregator and the forecast
// engine: pure, deterministic, no store or cache access.
//
// Every account in accountIDs appears in the result, movement or not.
// Accounts missing from openings start at zero; accounts missing from
// natures default to debit-increasing (an account without a grouped
// category behaves like an asset for balance purposes).
func ResolveBalances(
	accountIDs []string,
	natures map[string]Nature,
	openings map[string]decimal.Decimal,
	movements []MovementSum,
) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(accountIDs))
	for _, id := range accountIDs {
		balances[id] = openings[id]
	}

	for _, m := range movements {
		base, ok := balances[m.AccountID]
		if !ok {
			// Movement for an account outside the requested scope.
			continue
		}
		balances[m.AccountID] = base.Add(SignedMovement(natures[m.AccountID], m.Debit, m.Credit))
	}

	return balances
}

// SumBalances adds up every balance in the map.
func SumBalances(balances map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b)
	}
	return total
}
