package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, userID, id string) (*domain.Account, error)
	// List returns the user's accounts; activeOnly and currency narrow the set.
	List(ctx context.Context, userID string, activeOnly bool, currency string) ([]*domain.Account, error)
	GetByIDs(ctx context.Context, userID string, ids []string) ([]*domain.Account, error)
	// FindActiveByName looks up an active account by normalized name.
	// Returns (nil, nil) when no such account exists.
	FindActiveByName(ctx context.Context, userID, normalizedName string) (*domain.Account, error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, userID, id string) (*domain.Category, error)
	List(ctx context.Context, userID string) ([]*domain.Category, error)
}

// JournalRepository defines data access for journal entries and lines.
type JournalRepository interface {
	// CreateEntry persists an entry and all of its lines atomically.
	CreateEntry(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, userID, id string) (*domain.JournalEntry, error)
	// GetByReference returns (nil, nil) when no entry carries the reference.
	GetByReference(ctx context.Context, userID, reference string) (*domain.JournalEntry, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, tx Transaction, userID, id string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	// SumMovements aggregates debit/credit totals per account for lines of
	// in-scope accounts whose entry date falls in [from, to]. Nil bounds
	// mean unbounded on that side.
	SumMovements(ctx context.Context, userID string, accountIDs []string, from, to *time.Time) ([]domain.MovementSum, error)
	// SumMovementsByDay is SumMovements broken down per entry date,
	// ordered by date ascending.
	SumMovementsByDay(ctx context.Context, userID string, accountIDs []string, from, to *time.Time) ([]DayMovement, error)
}

// DayMovement is a per-day, per-account debit/credit aggregate.
type DayMovement struct {
	Date      time.Time
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// OpeningBalanceRepository defines data access for opening balances.
type OpeningBalanceRepository interface {
	Upsert(ctx context.Context, tx Transaction, ob *domain.OpeningBalance) error
	GetForUser(ctx context.Context, userID string) (map[string]decimal.Decimal, error)
}

// SettingsRepository defines data access for per-user initialization settings.
type SettingsRepository interface {
	// Get returns (nil, nil) when the user has no initialization setting.
	Get(ctx context.Context, userID string) (*domain.InitializationSetting, error)
	Upsert(ctx context.Context, tx Transaction, setting *domain.InitializationSetting) error
}

// AssetIncludeRepository defines data access for forecast baseline includes.
type AssetIncludeRepository interface {
	List(ctx context.Context, userID string) ([]*domain.AssetInclude, error)
	Set(ctx context.Context, include *domain.AssetInclude) error
	Delete(ctx context.Context, userID, accountID string) error
}

// ScheduleRepository defines data access for forecast schedule rows.
type ScheduleRepository interface {
	Upsert(ctx context.Context, tx Transaction, row *domain.ScheduleRow) error
	// GetByDate returns (nil, nil) when the user has no row for the date.
	GetByDate(ctx context.Context, userID string, date time.Time) (*domain.ScheduleRow, error)
	// ListFrom returns rows with date >= from, ordered by date ascending.
	ListFrom(ctx context.Context, userID string, from time.Time) ([]*domain.ScheduleRow, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduleRow, error)
	// LastBefore returns the latest row dated strictly before the date, or
	// (nil, nil) when none exists.
	LastBefore(ctx context.Context, userID string, date time.Time) (*domain.ScheduleRow, error)
	// LastModified returns the most recently updated row, or (nil, nil).
	LastModified(ctx context.Context, userID string) (*domain.ScheduleRow, error)
	DeleteRange(ctx context.Context, tx Transaction, userID string, from, to time.Time) error
}

// DailyBalanceRepository defines data access for materialized daily balances.
type DailyBalanceRepository interface {
	Upsert(ctx context.Context, tx Transaction, balance *domain.DailyBalance) error
	GetRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyBalance, error)
	// DeleteAfter removes materialized balances dated strictly after the date.
	DeleteAfter(ctx context.Context, tx Transaction, userID string, date time.Time) error
}

// RecurringEventRepository defines data access for recurring event templates.
type RecurringEventRepository interface {
	Create(ctx context.Context, event *domain.RecurringEvent) error
	Update(ctx context.Context, event *domain.RecurringEvent) error
	GetByID(ctx context.Context, userID, id string) (*domain.RecurringEvent, error)
	List(ctx context.Context, userID string) ([]*domain.RecurringEvent, error)
	ListActive(ctx context.Context, userID string) ([]*domain.RecurringEvent, error)
	Delete(ctx context.Context, userID, id string) error
}

// ScenarioRepository defines data access for scenarios and their rows.
type ScenarioRepository interface {
	Create(ctx context.Context, tx Transaction, scenario *domain.Scenario) error
	GetByID(ctx context.Context, userID, id string) (*domain.Scenario, error)
	List(ctx context.Context, userID string) ([]*domain.Scenario, error)
	Delete(ctx context.Context, userID, id string) error

	UpsertRow(ctx context.Context, tx Transaction, row *domain.ScenarioRow) error
	// GetRow returns (nil, nil) when the scenario has no row for the date.
	GetRow(ctx context.Context, scenarioID string, date time.Time) (*domain.ScenarioRow, error)
	ListRows(ctx context.Context, scenarioID string) ([]*domain.ScenarioRow, error)
	DeleteRow(ctx context.Context, tx Transaction, scenarioID string, date time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// ReportCache caches rendered reports per user.
type ReportCache interface {
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// InvalidateUser drops every cached report for the user.
	InvalidateUser(ctx context.Context, userID string) error
}
