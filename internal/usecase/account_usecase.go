package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
)

// AccountUseCase manages the chart of accounts, categories, forecast
// includes and ledger initialization.
type AccountUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	categoryRepo CategoryRepository
	openingRepo  OpeningBalanceRepository
	settingsRepo SettingsRepository
	includeRepo  AssetIncludeRepository
	idGen        IDGenerator
	reportCache  ReportCache
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	categoryRepo CategoryRepository,
	openingRepo OpeningBalanceRepository,
	settingsRepo SettingsRepository,
	includeRepo AssetIncludeRepository,
	idGen IDGenerator,
	reportCache ReportCache,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		openingRepo:  openingRepo,
		settingsRepo: settingsRepo,
		includeRepo:  includeRepo,
		idGen:        idGen,
		reportCache:  reportCache,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID     string
	Name       string
	Code       string
	CategoryID string
	Currency   string
}

// CreateAccount creates an account, enforcing the unique case-insensitive
// active-name invariant per user.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if input.CategoryID != "" {
		if _, err := uc.categoryRepo.GetByID(ctx, input.UserID, input.CategoryID); err != nil {
			return nil, domain.ErrScopeResolution
		}
	}

	existing, err := uc.accountRepo.FindActiveByName(ctx, input.UserID, domain.NormalizeAccountName(input.Name))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateAccountName
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:         uc.idGen.Generate(),
		UserID:     input.UserID,
		Name:       strings.TrimSpace(input.Name),
		Code:       input.Code,
		CategoryID: input.CategoryID,
		Currency:   strings.ToUpper(strings.TrimSpace(input.Currency)),
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateAccountInput represents input for updating an account.
type UpdateAccountInput struct {
	UserID     string
	AccountID  string
	Name       string
	Code       string
	CategoryID string
	Active     bool
}

// UpdateAccount updates display fields and the active flag.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.UserID, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if input.Active {
		existing, err := uc.accountRepo.FindActiveByName(ctx, input.UserID, domain.NormalizeAccountName(input.Name))
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != account.ID {
			return nil, domain.ErrDuplicateAccountName
		}
	}

	if input.CategoryID != "" {
		if _, err := uc.categoryRepo.GetByID(ctx, input.UserID, input.CategoryID); err != nil {
			return nil, domain.ErrScopeResolution
		}
	}

	account.Name = strings.TrimSpace(input.Name)
	account.Code = input.Code
	account.CategoryID = input.CategoryID
	account.Active = input.Active
	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.invalidateReports(ctx, input.UserID)

	return account, nil
}

// GetAccount retrieves one account.
func (uc *AccountUseCase) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, userID, accountID)
}

// ListAccounts lists the user's accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, userID string, activeOnly bool) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx, userID, activeOnly, "")
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	UserID string
	Name   string
	Group  domain.Group
}

// CreateCategory creates a category. The group may be empty; ungrouped
// categories stay out of trial balance aggregation.
func (uc *AccountUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if input.Group != "" && !input.Group.Valid() {
		return nil, domain.ErrScopeResolution
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		Name:      strings.TrimSpace(input.Name),
		Group:     input.Group,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories lists the user's categories.
func (uc *AccountUseCase) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	return uc.categoryRepo.List(ctx, userID)
}

// InitializeInput resets the ledger baseline: the date before which no
// balance is computed plus per-account opening balances.
type InitializeInput struct {
	UserID        string
	InitializedOn time.Time
	FirstMonth    string
	Openings      map[string]decimal.Decimal
}

// Initialize writes the initialization setting and opening balances
// atomically. Posting never mutates either afterwards.
func (uc *AccountUseCase) Initialize(ctx context.Context, input InitializeInput) error {
	if len(input.Openings) > 0 {
		ids := make([]string, 0, len(input.Openings))
		for id := range input.Openings {
			ids = append(ids, id)
		}
		accounts, err := uc.accountRepo.GetByIDs(ctx, input.UserID, ids)
		if err != nil {
			return err
		}
		if len(accounts) != len(ids) {
			return domain.ErrScopeResolution
		}
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.settingsRepo.Upsert(ctx, tx, &domain.InitializationSetting{
		UserID:        input.UserID,
		InitializedOn: domain.Day(input.InitializedOn),
		FirstMonth:    input.FirstMonth,
	}); err != nil {
		return err
	}

	for accountID, amount := range input.Openings {
		if err := uc.openingRepo.Upsert(ctx, tx, &domain.OpeningBalance{
			UserID:    input.UserID,
			AccountID: accountID,
			Amount:    amount,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateReports(ctx, input.UserID)

	return nil
}

// SetAssetInclude opts an account into the forecast baseline, optionally
// overriding its opening value.
func (uc *AccountUseCase) SetAssetInclude(ctx context.Context, userID, accountID string, override *decimal.Decimal) error {
	if _, err := uc.accountRepo.GetByID(ctx, userID, accountID); err != nil {
		return err
	}

	return uc.includeRepo.Set(ctx, &domain.AssetInclude{
		UserID:    userID,
		AccountID: accountID,
		Override:  override,
		CreatedAt: time.Now().UTC(),
	})
}

// RemoveAssetInclude drops an account from the explicit baseline selection.
func (uc *AccountUseCase) RemoveAssetInclude(ctx context.Context, userID, accountID string) error {
	return uc.includeRepo.Delete(ctx, userID, accountID)
}

// ListAssetIncludes lists the explicit baseline selection.
func (uc *AccountUseCase) ListAssetIncludes(ctx context.Context, userID string) ([]*domain.AssetInclude, error) {
	return uc.includeRepo.List(ctx, userID)
}

func (uc *AccountUseCase) invalidateReports(ctx context.Context, userID string) {
	if uc.reportCache == nil {
		return
	}
	_ = uc.reportCache.InvalidateUser(ctx, userID)
}
