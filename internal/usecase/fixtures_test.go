package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
	"github.com/dkoval/fincast/internal/usecase/mocks"
)

const testUser = "user-1"

// env wires every usecase against the in-memory mocks so tests can drive
// full flows: post entries, then read reports and forecasts off them.
type env struct {
	txManager *mocks.MockTransactionManager
	idGen     *mocks.MockIDGenerator
	retrier   *mocks.MockRetrier
	cache     *mocks.MockReportCache

	accounts   *mocks.MockAccountRepository
	categories *mocks.MockCategoryRepository
	journal    *mocks.MockJournalRepository
	openings   *mocks.MockOpeningBalanceRepository
	settings   *mocks.MockSettingsRepository
	includes   *mocks.MockAssetIncludeRepository
	schedule   *mocks.MockScheduleRepository
	daily      *mocks.MockDailyBalanceRepository
	events     *mocks.MockRecurringEventRepository
	scenarios  *mocks.MockScenarioRepository

	balances  *usecase.BalanceService
	posting   *usecase.PostingUseCase
	trial     *usecase.TrialBalanceUseCase
	forecast  *usecase.ForecastUseCase
	recurring *usecase.RecurringUseCase
	scenario  *usecase.ScenarioUseCase
	account   *usecase.AccountUseCase
}

func newEnv() *env {
	e := &env{
		txManager:  mocks.NewMockTransactionManager(),
		idGen:      mocks.NewMockIDGenerator(),
		retrier:    mocks.NewMockRetrier(),
		cache:      mocks.NewMockReportCache(),
		accounts:   mocks.NewMockAccountRepository(),
		categories: mocks.NewMockCategoryRepository(),
		journal:    mocks.NewMockJournalRepository(),
		openings:   mocks.NewMockOpeningBalanceRepository(),
		settings:   mocks.NewMockSettingsRepository(),
		includes:   mocks.NewMockAssetIncludeRepository(),
		schedule:   mocks.NewMockScheduleRepository(),
		daily:      mocks.NewMockDailyBalanceRepository(),
		events:     mocks.NewMockRecurringEventRepository(),
		scenarios:  mocks.NewMockScenarioRepository(),
	}

	e.balances = usecase.NewBalanceService(e.accounts, e.categories, e.journal, e.openings, e.settings)
	e.posting = usecase.NewPostingUseCase(e.txManager, e.journal, e.accounts, e.idGen, e.retrier, e.cache)
	e.trial = usecase.NewTrialBalanceUseCase(e.balances, e.categories, e.settings, e.cache)
	e.forecast = usecase.NewForecastUseCase(e.txManager, e.schedule, e.daily, e.includes, e.settings, e.journal, e.balances, e.idGen, e.retrier, "USD")
	e.recurring = usecase.NewRecurringUseCase(e.events, e.schedule, e.forecast, e.idGen)
	e.scenario = usecase.NewScenarioUseCase(e.txManager, e.scenarios, e.schedule, e.idGen)
	e.account = usecase.NewAccountUseCase(e.txManager, e.accounts, e.categories, e.openings, e.settings, e.includes, e.idGen, e.cache)

	return e
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (e *env) seedCategory(t *testing.T, id, name string, group domain.Group) {
	t.Helper()
	err := e.categories.Create(context.Background(), &domain.Category{
		ID:     id,
		UserID: testUser,
		Name:   name,
		Group:  group,
	})
	if err != nil {
		t.Fatalf("seed category %s: %v", id, err)
	}
}

func (e *env) seedAccount(t *testing.T, id, name, categoryID string) {
	t.Helper()
	err := e.accounts.Create(context.Background(), &domain.Account{
		ID:         id,
		UserID:     testUser,
		Name:       name,
		CategoryID: categoryID,
		Currency:   "USD",
		Active:     true,
	})
	if err != nil {
		t.Fatalf("seed account %s: %v", id, err)
	}
}

// mustPost commits a two-line balanced entry moving amount from the credit
// account to the debit account on the given date.
func (e *env) mustPost(t *testing.T, day time.Time, debitAccount, creditAccount string, amount decimal.Decimal) *domain.JournalEntry {
	t.Helper()
	entry, err := e.posting.Post(context.Background(), usecase.PostInput{
		UserID: testUser,
		Date:   day,
		Lines: []usecase.PostLineInput{
			{AccountID: debitAccount, Side: domain.SideDebit, Amount: amount},
			{AccountID: creditAccount, Side: domain.SideCredit, Amount: amount},
		},
	})
	if err != nil {
		t.Fatalf("post entry: %v", err)
	}
	return entry
}

func assertDecimal(t *testing.T, label string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}
