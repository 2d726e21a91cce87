// Package mocks provides hand-written in-memory fakes for the usecase
// repository interfaces. Default behavior is a working in-memory store;
// individual calls can be overridden via the exported Func fields.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out no-op transactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
	Begun     int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.Begun++
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (g *MockIDGenerator) Generate() string {
	if g.GenerateFunc != nil {
		return g.GenerateFunc()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%04d", g.counter)
}

// MockRetrier runs the operation once, no backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (r *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if r.RetryFunc != nil {
		return r.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockReportCache is an in-memory report cache.
type MockReportCache struct {
	mu           sync.Mutex
	values       map[string][]byte
	Invalidated  []string
	GetFunc      func(ctx context.Context, key string) ([]byte, error)
	SetFunc      func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func NewMockReportCache() *MockReportCache {
	return &MockReportCache{values: make(map[string][]byte)}
}

func (c *MockReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *MockReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.SetFunc != nil {
		return c.SetFunc(ctx, key, value, ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *MockReportCache) InvalidateUser(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidated = append(c.Invalidated, userID)
	for k := range c.values {
		delete(c.values, k)
	}
	return nil
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc func(ctx context.Context, account *domain.Account) error
	ListFunc   func(ctx context.Context, userID string, activeOnly bool, currency string) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (r *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, account)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *MockAccountRepository) GetByID(ctx context.Context, userID, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok || a.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *MockAccountRepository) GetByIDs(ctx context.Context, userID string, ids []string) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Account
	for _, id := range ids {
		if a, ok := r.accounts[id]; ok && a.UserID == userID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *MockAccountRepository) List(ctx context.Context, userID string, activeOnly bool, currency string) ([]*domain.Account, error) {
	if r.ListFunc != nil {
		return r.ListFunc(ctx, userID, activeOnly, currency)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.UserID != userID {
			continue
		}
		if activeOnly && !a.Active {
			continue
		}
		if currency != "" && a.Currency != currency {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MockAccountRepository) FindActiveByName(ctx context.Context, userID, normalizedName string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.UserID == userID && a.Active && domain.NormalizeAccountName(a.Name) == normalizedName {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

// MockCategoryRepository is an in-memory CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{categories: make(map[string]*domain.Category)}
}

func (r *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *MockCategoryRepository) GetByID(ctx context.Context, userID, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *MockCategoryRepository) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MockJournalRepository is an in-memory JournalRepository. Movement sums
// are computed from the stored entries, so tests exercise the same
// aggregation semantics as the SQL queries.
type MockJournalRepository struct {
	mu      sync.RWMutex
	entries []*domain.JournalEntry

	CreateEntryFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{}
}

func (r *MockJournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if r.CreateEntryFunc != nil {
		return r.CreateEntryFunc(ctx, tx, entry)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	copied.Lines = append([]domain.JournalLine(nil), entry.Lines...)
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *MockJournalRepository) GetByID(ctx context.Context, userID, id string) (*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == id && e.UserID == userID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (r *MockJournalRepository) GetByReference(ctx context.Context, userID, reference string) (*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.UserID == userID && e.Reference == reference {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MockJournalRepository) List(ctx context.Context, userID string, limit, offset int) ([]*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.JournalEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MockJournalRepository) DeleteEntry(ctx context.Context, tx usecase.Transaction, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

func (r *MockJournalRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, e := range r.entries {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *MockJournalRepository) SumMovements(ctx context.Context, userID string, accountIDs []string, from, to *time.Time) ([]domain.MovementSum, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inScope := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		inScope[id] = true
	}

	sums := make(map[string]*domain.MovementSum)
	for _, e := range r.entries {
		if e.UserID != userID || !inDateRange(e.Date, from, to) {
			continue
		}
		for _, l := range e.Lines {
			if !inScope[l.AccountID] {
				continue
			}
			s, ok := sums[l.AccountID]
			if !ok {
				s = &domain.MovementSum{AccountID: l.AccountID}
				sums[l.AccountID] = s
			}
			if l.Side == domain.SideDebit {
				s.Debit = s.Debit.Add(l.Amount)
			} else {
				s.Credit = s.Credit.Add(l.Amount)
			}
		}
	}

	var out []domain.MovementSum
	for _, s := range sums {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (r *MockJournalRepository) SumMovementsByDay(ctx context.Context, userID string, accountIDs []string, from, to *time.Time) ([]usecase.DayMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inScope := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		inScope[id] = true
	}

	type key struct {
		date    string
		account string
	}
	sums := make(map[key]*usecase.DayMovement)

	for _, e := range r.entries {
		if e.UserID != userID || !inDateRange(e.Date, from, to) {
			continue
		}
		for _, l := range e.Lines {
			if !inScope[l.AccountID] {
				continue
			}
			k := key{date: e.Date.Format(domain.DateLayout), account: l.AccountID}
			s, ok := sums[k]
			if !ok {
				s = &usecase.DayMovement{Date: domain.Day(e.Date), AccountID: l.AccountID}
				sums[k] = s
			}
			if l.Side == domain.SideDebit {
				s.Debit = s.Debit.Add(l.Amount)
			} else {
				s.Credit = s.Credit.Add(l.Amount)
			}
		}
	}

	var out []usecase.DayMovement
	for _, s := range sums {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

func inDateRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// MockOpeningBalanceRepository is an in-memory OpeningBalanceRepository.
type MockOpeningBalanceRepository struct {
	mu       sync.RWMutex
	openings map[string]map[string]decimal.Decimal // userID -> accountID -> amount
}

func NewMockOpeningBalanceRepository() *MockOpeningBalanceRepository {
	return &MockOpeningBalanceRepository{openings: make(map[string]map[string]decimal.Decimal)}
}

func (r *MockOpeningBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, ob *domain.OpeningBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.openings[ob.UserID] == nil {
		r.openings[ob.UserID] = make(map[string]decimal.Decimal)
	}
	r.openings[ob.UserID][ob.AccountID] = ob.Amount
	return nil
}

func (r *MockOpeningBalanceRepository) GetForUser(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(r.openings[userID]))
	for k, v := range r.openings[userID] {
		out[k] = v
	}
	return out, nil
}

// MockSettingsRepository is an in-memory SettingsRepository.
type MockSettingsRepository struct {
	mu       sync.RWMutex
	settings map[string]*domain.InitializationSetting
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{settings: make(map[string]*domain.InitializationSetting)}
}

func (r *MockSettingsRepository) Get(ctx context.Context, userID string) (*domain.InitializationSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *MockSettingsRepository) Upsert(ctx context.Context, tx usecase.Transaction, setting *domain.InitializationSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *setting
	r.settings[setting.UserID] = &copied
	return nil
}

// MockAssetIncludeRepository is an in-memory AssetIncludeRepository.
type MockAssetIncludeRepository struct {
	mu       sync.RWMutex
	includes map[string]map[string]*domain.AssetInclude // userID -> accountID
}

func NewMockAssetIncludeRepository() *MockAssetIncludeRepository {
	return &MockAssetIncludeRepository{includes: make(map[string]map[string]*domain.AssetInclude)}
}

func (r *MockAssetIncludeRepository) List(ctx context.Context, userID string) ([]*domain.AssetInclude, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.AssetInclude
	for _, inc := range r.includes[userID] {
		copied := *inc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (r *MockAssetIncludeRepository) Set(ctx context.Context, include *domain.AssetInclude) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.includes[include.UserID] == nil {
		r.includes[include.UserID] = make(map[string]*domain.AssetInclude)
	}
	copied := *include
	r.includes[include.UserID][include.AccountID] = &copied
	return nil
}

func (r *MockAssetIncludeRepository) Delete(ctx context.Context, userID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.includes[userID], accountID)
	return nil
}

// MockScheduleRepository is an in-memory ScheduleRepository.
type MockScheduleRepository struct {
	mu   sync.RWMutex
	rows map[string]*domain.ScheduleRow // userID|date
}

func NewMockScheduleRepository() *MockScheduleRepository {
	return &MockScheduleRepository{rows: make(map[string]*domain.ScheduleRow)}
}

func scheduleKey(userID string, date time.Time) string {
	return userID + "|" + date.Format(domain.DateLayout)
}

func (r *MockScheduleRepository) Upsert(ctx context.Context, tx usecase.Transaction, row *domain.ScheduleRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *row
	r.rows[scheduleKey(row.UserID, row.Date)] = &copied
	return nil
}

func (r *MockScheduleRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.ScheduleRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[scheduleKey(userID, date)]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (r *MockScheduleRepository) sorted(userID string) []*domain.ScheduleRow {
	var out []*domain.ScheduleRow
	for _, row := range r.rows {
		if row.UserID == userID {
			copied := *row
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *MockScheduleRepository) ListFrom(ctx context.Context, userID string, from time.Time) ([]*domain.ScheduleRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.ScheduleRow
	for _, row := range r.sorted(userID) {
		if !row.Date.Before(from) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *MockScheduleRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduleRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.ScheduleRow
	for _, row := range r.sorted(userID) {
		if !row.Date.Before(from) && !row.Date.After(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *MockScheduleRepository) LastBefore(ctx context.Context, userID string, date time.Time) (*domain.ScheduleRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var last *domain.ScheduleRow
	for _, row := range r.sorted(userID) {
		if row.Date.Before(date) {
			last = row
		}
	}
	return last, nil
}

func (r *MockScheduleRepository) LastModified(ctx context.Context, userID string) (*domain.ScheduleRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.ScheduleRow
	for _, row := range r.sorted(userID) {
		if latest == nil || row.UpdatedAt.After(latest.UpdatedAt) {
			latest = row
		}
	}
	return latest, nil
}

func (r *MockScheduleRepository) DeleteRange(ctx context.Context, tx usecase.Transaction, userID string, from, to time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.rows {
		if row.UserID == userID && !row.Date.Before(from) && !row.Date.After(to) {
			delete(r.rows, key)
		}
	}
	return nil
}

// MockDailyBalanceRepository is an in-memory DailyBalanceRepository.
type MockDailyBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]*domain.DailyBalance // userID|date
}

func NewMockDailyBalanceRepository() *MockDailyBalanceRepository {
	return &MockDailyBalanceRepository{balances: make(map[string]*domain.DailyBalance)}
}

func (r *MockDailyBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.DailyBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *balance
	r.balances[scheduleKey(balance.UserID, balance.Date)] = &copied
	return nil
}

func (r *MockDailyBalanceRepository) GetRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.DailyBalance
	for _, b := range r.balances {
		if b.UserID == userID && !b.Date.Before(from) && !b.Date.After(to) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MockDailyBalanceRepository) DeleteAfter(ctx context.Context, tx usecase.Transaction, userID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, b := range r.balances {
		if b.UserID == userID && b.Date.After(date) {
			delete(r.balances, key)
		}
	}
	return nil
}

// All returns every stored balance for assertions.
func (r *MockDailyBalanceRepository) All(userID string) []*domain.DailyBalance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.DailyBalance
	for _, b := range r.balances {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// MockRecurringEventRepository is an in-memory RecurringEventRepository.
type MockRecurringEventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.RecurringEvent
}

func NewMockRecurringEventRepository() *MockRecurringEventRepository {
	return &MockRecurringEventRepository{events: make(map[string]*domain.RecurringEvent)}
}

func (r *MockRecurringEventRepository) Create(ctx context.Context, event *domain.RecurringEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *MockRecurringEventRepository) Update(ctx context.Context, event *domain.RecurringEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *MockRecurringEventRepository) GetByID(ctx context.Context, userID, id string) (*domain.RecurringEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *MockRecurringEventRepository) List(ctx context.Context, userID string) ([]*domain.RecurringEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.RecurringEvent
	for _, e := range r.events {
		if e.UserID == userID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MockRecurringEventRepository) ListActive(ctx context.Context, userID string) ([]*domain.RecurringEvent, error) {
	all, _ := r.List(ctx, userID)
	var out []*domain.RecurringEvent
	for _, e := range all {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MockRecurringEventRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.UserID != userID {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

// MockScenarioRepository is an in-memory ScenarioRepository.
type MockScenarioRepository struct {
	mu        sync.RWMutex
	scenarios map[string]*domain.Scenario
	rows      map[string]*domain.ScenarioRow // scenarioID|date
}

func NewMockScenarioRepository() *MockScenarioRepository {
	return &MockScenarioRepository{
		scenarios: make(map[string]*domain.Scenario),
		rows:      make(map[string]*domain.ScenarioRow),
	}
}

func (r *MockScenarioRepository) Create(ctx context.Context, tx usecase.Transaction, scenario *domain.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *scenario
	r.scenarios[scenario.ID] = &copied
	return nil
}

func (r *MockScenarioRepository) GetByID(ctx context.Context, userID, id string) (*domain.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrScenarioNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *MockScenarioRepository) List(ctx context.Context, userID string) ([]*domain.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Scenario
	for _, s := range r.scenarios {
		if s.UserID == userID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MockScenarioRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scenarios[id]
	if !ok || s.UserID != userID {
		return domain.ErrScenarioNotFound
	}
	delete(r.scenarios, id)
	for key, row := range r.rows {
		if row.ScenarioID == id {
			delete(r.rows, key)
		}
	}
	return nil
}

func (r *MockScenarioRepository) UpsertRow(ctx context.Context, tx usecase.Transaction, row *domain.ScenarioRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *row
	r.rows[row.ScenarioID+"|"+row.Date.Format(domain.DateLayout)] = &copied
	return nil
}

func (r *MockScenarioRepository) GetRow(ctx context.Context, scenarioID string, date time.Time) (*domain.ScenarioRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[scenarioID+"|"+date.Format(domain.DateLayout)]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (r *MockScenarioRepository) ListRows(ctx context.Context, scenarioID string) ([]*domain.ScenarioRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.ScenarioRow
	for _, row := range r.rows {
		if row.ScenarioID == scenarioID {
			copied := *row
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MockScenarioRepository) DeleteRow(ctx context.Context, tx usecase.Transaction, scenarioID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, scenarioID+"|"+date.Format(domain.DateLayout))
	return nil
}
