package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the debit/credit side of a journal line.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// JournalEntry is an immutable posted entry. Lines are never edited
// individually; only whole entries are created or deleted.
type JournalEntry struct {
	ID          string
	UserID      string
	Date        time.Time
	Description string
	// Reference is an optional idempotency key for import replays.
	Reference string
	Lines     []JournalLine
	CreatedAt time.Time
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	ID        string
	EntryID   string
	AccountID string
	Side      Side
	// Amount is in the ledger's base unit, always positive.
	Amount decimal.Decimal
	// OriginalAmount/OriginalRate carry the transaction-currency value for
	// foreign-currency lines; zero when the line is in the base currency.
	OriginalAmount decimal.Decimal
	OriginalRate   decimal.Decimal
}

// BalanceTolerance is the maximum allowed absolute difference between an
// entry's debit and credit totals, in base units.
var BalanceTolerance = decimal.RequireFromString("0.005")

// LineTotals returns the debit and credit sums of a line set.
func LineTotals(lines []JournalLine) (debits, credits decimal.Decimal) {
	for _, l := range lines {
		if l.Side == SideDebit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}
	return debits, credits
}

// ValidateLines enforces the balanced-entry invariant: lines non-empty,
// every amount strictly positive, both side totals non-zero, and the
// totals equal within BalanceTolerance.
func ValidateLines(lines []JournalLine) error {
	if len(lines) == 0 {
		return ErrEmptyEntry
	}

	for _, l := range lines {
		if !l.Side.Valid() {
			return ErrUnbalancedEntry
		}
		if l.Amount.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidAmount
		}
	}

	debits, credits := LineTotals(lines)
	if debits.IsZero() || credits.IsZero() {
		return ErrUnbalancedEntry
	}

	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance) {
		return ErrUnbalancedEntry
	}

	return nil
}
