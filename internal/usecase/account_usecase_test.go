package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateAccountInput
		seed    func(e *env, t *testing.T)
		wantErr error
	}{
		{
			name:  "valid account",
			input: usecase.CreateAccountInput{UserID: testUser, Name: "Checking", Currency: "USD"},
		},
		{
			name:  "currency is normalized",
			input: usecase.CreateAccountInput{UserID: testUser, Name: "Checking", Currency: " usd "},
		},
		{
			name:    "empty name",
			input:   usecase.CreateAccountInput{UserID: testUser, Name: "  ", Currency: "USD"},
			wantErr: domain.ErrInvalidAccountName,
		},
		{
			name:    "unknown currency",
			input:   usecase.CreateAccountInput{UserID: testUser, Name: "Checking", Currency: "XQZ"},
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name:  "duplicate active name, case-insensitive",
			input: usecase.CreateAccountInput{UserID: testUser, Name: "CHECKING", Currency: "USD"},
			seed: func(e *env, t *testing.T) {
				e.seedAccount(t, "acc-1", "Checking", "")
			},
			wantErr: domain.ErrDuplicateAccountName,
		},
		{
			name:  "category owned by another user",
			input: usecase.CreateAccountInput{UserID: testUser, Name: "Checking", Currency: "USD", CategoryID: "cat-foreign"},
			seed: func(e *env, t *testing.T) {
				_ = e.categories.Create(context.Background(), &domain.Category{ID: "cat-foreign", UserID: "someone-else"})
			},
			wantErr: domain.ErrScopeResolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			if tt.seed != nil {
				tt.seed(e, t)
			}

			account, err := e.account.CreateAccount(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateAccount() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateAccount() unexpected error: %v", err)
			}
			if !account.Active {
				t.Error("new account not active")
			}
			if account.Currency != "USD" {
				t.Errorf("currency = %q, want USD", account.Currency)
			}
		})
	}
}

func TestAccountUseCase_UpdateAccount_ReactivationConflict(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.seedAccount(t, "acc-1", "Checking", "")

	older := &domain.Account{ID: "acc-2", UserID: testUser, Name: "Checking", Currency: "USD", Active: false}
	if err := e.accounts.Create(ctx, older); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := e.account.UpdateAccount(ctx, usecase.UpdateAccountInput{
		UserID:    testUser,
		AccountID: "acc-2",
		Name:      "Checking",
		Active:    true,
	})
	if !errors.Is(err, domain.ErrDuplicateAccountName) {
		t.Fatalf("UpdateAccount() error = %v, want ErrDuplicateAccountName", err)
	}

	// Deactivating is always allowed; the name no longer reserves anything.
	if _, err := e.account.UpdateAccount(ctx, usecase.UpdateAccountInput{
		UserID:    testUser,
		AccountID: "acc-1",
		Name:      "Checking",
		Active:    false,
	}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := e.account.UpdateAccount(ctx, usecase.UpdateAccountInput{
		UserID:    testUser,
		AccountID: "acc-2",
		Name:      "Checking",
		Active:    true,
	}); err != nil {
		t.Fatalf("reactivate after name freed: %v", err)
	}
}

func TestAccountUseCase_Initialize(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.seedAccount(t, "acc-cash", "Checking", "")
	e.seedAccount(t, "acc-savings", "Savings", "")

	err := e.account.Initialize(ctx, usecase.InitializeInput{
		UserID:        testUser,
		InitializedOn: time.Date(2025, time.January, 1, 13, 45, 0, 0, time.UTC),
		FirstMonth:    "2025-01",
		Openings: map[string]decimal.Decimal{
			"acc-cash":    dec("1000"),
			"acc-savings": dec("250.50"),
		},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	setting, err := e.settings.Get(ctx, testUser)
	if err != nil || setting == nil {
		t.Fatalf("settings not written: %v", err)
	}
	// Initialization dates are date-granular.
	if !setting.InitializedOn.Equal(date(2025, time.January, 1)) {
		t.Errorf("initialized on = %v, want UTC midnight", setting.InitializedOn)
	}

	openings, err := e.openings.GetForUser(ctx, testUser)
	if err != nil {
		t.Fatalf("openings: %v", err)
	}
	assertDecimal(t, "cash opening", openings["acc-cash"], dec("1000"))
	assertDecimal(t, "savings opening", openings["acc-savings"], dec("250.50"))
}

func TestAccountUseCase_Initialize_UnknownAccount(t *testing.T) {
	e := newEnv()

	err := e.account.Initialize(context.Background(), usecase.InitializeInput{
		UserID:        testUser,
		InitializedOn: date(2025, time.January, 1),
		Openings:      map[string]decimal.Decimal{"acc-ghost": dec("1")},
	})
	if !errors.Is(err, domain.ErrScopeResolution) {
		t.Fatalf("Initialize() error = %v, want ErrScopeResolution", err)
	}

	if setting, _ := e.settings.Get(context.Background(), testUser); setting != nil {
		t.Error("settings written despite rejected openings")
	}
}

func TestAccountUseCase_AssetIncludes(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.seedAccount(t, "acc-cash", "Checking", "")

	override := dec("42.42")
	if err := e.account.SetAssetInclude(ctx, testUser, "acc-cash", &override); err != nil {
		t.Fatalf("SetAssetInclude: %v", err)
	}
	if err := e.account.SetAssetInclude(ctx, testUser, "acc-ghost", nil); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("SetAssetInclude(ghost) error = %v, want ErrAccountNotFound", err)
	}

	includes, err := e.account.ListAssetIncludes(ctx, testUser)
	if err != nil || len(includes) != 1 {
		t.Fatalf("ListAssetIncludes = %d, err %v", len(includes), err)
	}
	if includes[0].Override == nil || !includes[0].Override.Equal(override) {
		t.Error("override not persisted")
	}

	if err := e.account.RemoveAssetInclude(ctx, testUser, "acc-cash"); err != nil {
		t.Fatalf("RemoveAssetInclude: %v", err)
	}
	if includes, _ := e.account.ListAssetIncludes(ctx, testUser); len(includes) != 0 {
		t.Error("include survived removal")
	}
}

func TestAccountUseCase_CreateCategory(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	category, err := e.account.CreateCategory(ctx, usecase.CreateCategoryInput{
		UserID: testUser,
		Name:   "Utilities",
		Group:  domain.GroupExpense,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if category.Nature() != domain.DebitIncreasing {
		t.Error("expense category is not debit-increasing")
	}

	if _, err := e.account.CreateCategory(ctx, usecase.CreateCategoryInput{
		UserID: testUser,
		Name:   "Broken",
		Group:  "stuff",
	}); err == nil {
		t.Error("unknown group accepted")
	}
}
