package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
)

// Scope is an account predicate for a balance computation: category
// membership, active flag, currency filter and/or an explicit include-set.
type Scope struct {
	CategoryID string
	Currency   string
	ActiveOnly bool
	// IncludeIDs, when non-empty, restricts the scope to exactly these
	// accounts (the AssetInclude path).
	IncludeIDs []string
	// Overrides replaces stored opening balances per account.
	Overrides map[string]decimal.Decimal
	// RequireNonEmpty turns an empty resolved scope into ErrEmptyScope.
	RequireNonEmpty bool
}

// ScopedBalances is the result of one balance resolution pass.
type ScopedBalances struct {
	Accounts []*domain.Account
	Natures  map[string]domain.Nature
	Balances map[string]decimal.Decimal
}

// Total sums every balance in the result.
func (s *ScopedBalances) Total() decimal.Decimal {
	return domain.SumBalances(s.Balances)
}

// BalanceService resolves signed account balances as of a cutoff date by
// replaying ledger movements over an opening baseline. Both the trial
// balance aggregator and the forecast engine go through it; the arithmetic
// itself lives in domain.ResolveBalances and stays pure.
type BalanceService struct {
	accountRepo  AccountRepository
	categoryRepo CategoryRepository
	journalRepo  JournalRepository
	openingRepo  OpeningBalanceRepository
	settingsRepo SettingsRepository
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(
	accountRepo AccountRepository,
	categoryRepo CategoryRepository,
	journalRepo JournalRepository,
	openingRepo OpeningBalanceRepository,
	settingsRepo SettingsRepository,
) *BalanceService {
	return &BalanceService{
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		journalRepo:  journalRepo,
		openingRepo:  openingRepo,
		settingsRepo: settingsRepo,
	}
}

// ResolveScope materializes the accounts selected by a scope and their
// natures.
func (s *BalanceService) ResolveScope(ctx context.Context, userID string, scope Scope) ([]*domain.Account, map[string]domain.Nature, error) {
	var accounts []*domain.Account
	var err error

	if len(scope.IncludeIDs) > 0 {
		accounts, err = s.accountRepo.GetByIDs(ctx, userID, scope.IncludeIDs)
		if err != nil {
			return nil, nil, err
		}
		if len(accounts) != len(scope.IncludeIDs) {
			return nil, nil, domain.ErrScopeResolution
		}
	} else {
		accounts, err = s.accountRepo.List(ctx, userID, scope.ActiveOnly, scope.Currency)
		if err != nil {
			return nil, nil, err
		}
	}

	if scope.CategoryID != "" {
		filtered := accounts[:0]
		for _, a := range accounts {
			if a.CategoryID == scope.CategoryID {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}

	if len(accounts) == 0 && scope.RequireNonEmpty {
		return nil, nil, domain.ErrEmptyScope
	}

	natures, err := s.natures(ctx, userID, accounts)
	if err != nil {
		return nil, nil, err
	}

	return accounts, natures, nil
}

// Resolve computes each in-scope account's signed balance as of cutoff:
// opening balance plus accumulated signed movement of lines dated on or
// before the cutoff (and on or after the initialization date when one is
// set).
func (s *BalanceService) Resolve(ctx context.Context, userID string, scope Scope, cutoff time.Time) (*ScopedBalances, error) {
	accounts, natures, err := s.ResolveScope(ctx, userID, scope)
	if err != nil {
		return nil, err
	}

	openings, err := s.openings(ctx, userID, scope)
	if err != nil {
		return nil, err
	}

	from, err := s.initializationCutoff(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := accountIDs(accounts)
	to := domain.Day(cutoff)

	movements, err := s.journalRepo.SumMovements(ctx, userID, ids, from, &to)
	if err != nil {
		return nil, err
	}

	return &ScopedBalances{
		Accounts: accounts,
		Natures:  natures,
		Balances: domain.ResolveBalances(ids, natures, openings, movements),
	}, nil
}

// MovementTotals runs a movement-only pass: aggregated debit/credit totals
// per in-scope account for lines dated within [from, to], with no opening
// balance applied.
func (s *BalanceService) MovementTotals(ctx context.Context, userID string, scope Scope, from, to time.Time) ([]domain.MovementSum, error) {
	accounts, _, err := s.ResolveScope(ctx, userID, scope)
	if err != nil {
		return nil, err
	}

	f, t := domain.Day(from), domain.Day(to)
	return s.journalRepo.SumMovements(ctx, userID, accountIDs(accounts), &f, &t)
}

// Openings returns the opening baseline per in-scope account, with any
// scope overrides applied.
func (s *BalanceService) openings(ctx context.Context, userID string, scope Scope) (map[string]decimal.Decimal, error) {
	openings, err := s.openingRepo.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(scope.Overrides) == 0 {
		return openings, nil
	}

	merged := make(map[string]decimal.Decimal, len(openings))
	for id, v := range openings {
		merged[id] = v
	}
	for id, v := range scope.Overrides {
		merged[id] = v
	}

	return merged, nil
}

func (s *BalanceService) initializationCutoff(ctx context.Context, userID string) (*time.Time, error) {
	setting, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}

	from := domain.Day(setting.InitializedOn)
	return &from, nil
}

func (s *BalanceService) natures(ctx context.Context, userID string, accounts []*domain.Account) (map[string]domain.Nature, error) {
	categories, err := s.categoryRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	natures := make(map[string]domain.Nature, len(accounts))
	for _, a := range accounts {
		if c, ok := byID[a.CategoryID]; ok {
			natures[a.ID] = c.Nature()
		} else {
			natures[a.ID] = domain.DebitIncreasing
		}
	}

	return natures, nil
}

func accountIDs(accounts []*domain.Account) []string {
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	return ids
}
