package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a ledger account owned by a single user.
type Account struct {
	ID         string
	UserID     string
	Name       string
	Code       string
	CategoryID string
	Currency   string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Category groups accounts and determines their nature via its Group tag.
// Categories with an unset Group are excluded from trial balance aggregation.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Group     Group
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Nature resolves the account nature from the category group.
func (c *Category) Nature() Nature {
	return NatureOf(c.Group)
}

// OpeningBalance is the fixed balance of an account immediately before
// ledger history begins. Written by initialization, never by posting.
type OpeningBalance struct {
	UserID    string
	AccountID string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}

// InitializationSetting marks the date before which no balance is computed.
type InitializationSetting struct {
	UserID        string
	InitializedOn time.Time
	FirstMonth    string // YYYY-MM, optional
}

// AssetInclude opts an account into the forecast cash baseline. Absence of
// any row for a user means every active account of the forecast's base
// currency is included.
type AssetInclude struct {
	UserID    string
	AccountID string
	// Override replaces the account's resolved opening value when non-nil.
	Override  *decimal.Decimal
	CreatedAt time.Time
}
