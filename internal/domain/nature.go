package domain

import "github.com/shopspring/decimal"

// Nature describes which side increases an account's balance.
type Nature int

const (
	// DebitIncreasing covers asset and expense accounts.
	DebitIncreasing Nature = iota
	// CreditIncreasing covers liability, equity and income accounts.
	CreditIncreasing
)

// String returns a human-readable nature name.
func (n Nature) String() string {
	if n == CreditIncreasing {
		return "credit-increasing"
	}
	return "debit-increasing"
}

// Group is a category's top-level classification.
type Group string

const (
	GroupAsset     Group = "asset"
	GroupLiability Group = "liability"
	GroupEquity    Group = "equity"
	GroupIncome    Group = "income"
	GroupExpense   Group = "expense"
)

// Valid reports whether g is one of the five known groups.
func (g Group) Valid() bool {
	switch g {
	case GroupAsset, GroupLiability, GroupEquity, GroupIncome, GroupExpense:
		return true
	}
	return false
}

// NatureOf resolves the account nature for a category group.
func NatureOf(g Group) Nature {
	switch g {
	case GroupAsset, GroupExpense:
		return DebitIncreasing
	default:
		return CreditIncreasing
	}
}

// SignedMovement returns the signed balance movement for a debit/credit pair
// under the given nature: +debit-credit for debit-increasing accounts,
// +credit-debit for credit-increasing ones.
func SignedMovement(n Nature, debit, credit decimal.Decimal) decimal.Decimal {
	if n == DebitIncreasing {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
