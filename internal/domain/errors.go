package domain

import "errors"

var (
	// Posting errors
	ErrUnbalancedEntry    = errors.New("entry debits and credits do not balance")
	ErrEmptyEntry         = errors.New("entry must contain at least one line")
	ErrDuplicateReference = errors.New("entry with this reference already exists")

	// Scope errors
	ErrScopeResolution = errors.New("account or category does not belong to user")
	ErrEmptyScope      = errors.New("scope resolved to no accounts")

	// Lookup errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrEntryNotFound    = errors.New("journal entry not found")
	ErrRowNotFound      = errors.New("schedule row not found")
	ErrEventNotFound    = errors.New("recurring event not found")
	ErrScenarioNotFound = errors.New("scenario not found")

	// Account errors
	ErrDuplicateAccountName = errors.New("an active account with this name already exists")

	// Amount errors
	ErrInvalidAmount = errors.New("amount must be positive")
)
