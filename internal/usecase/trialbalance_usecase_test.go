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

// trialEnv seeds a small ledger: cash 1000 opening at 2025-01-01, a
// February salary of 300, a March salary of 5000 and March rent of 2000,
// plus one pre-initialization entry that must never count.
func trialEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv()
	ctx := context.Background()

	e.seedCategory(t, "cat-asset", "Cash", domain.GroupAsset)
	e.seedCategory(t, "cat-income", "Income", domain.GroupIncome)
	e.seedCategory(t, "cat-expense", "Expenses", domain.GroupExpense)
	e.seedAccount(t, "acc-cash", "Checking", "cat-asset")
	e.seedAccount(t, "acc-salary", "Salary", "cat-income")
	e.seedAccount(t, "acc-rent", "Rent", "cat-expense")

	err := e.account.Initialize(ctx, usecase.InitializeInput{
		UserID:        testUser,
		InitializedOn: date(2025, time.January, 1),
		Openings:      map[string]decimal.Decimal{"acc-cash": dec("1000")},
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	e.mustPost(t, date(2024, time.December, 15), "acc-cash", "acc-salary", dec("999"))
	e.mustPost(t, date(2025, time.February, 10), "acc-cash", "acc-salary", dec("300"))
	e.mustPost(t, date(2025, time.March, 5), "acc-cash", "acc-salary", dec("5000"))
	e.mustPost(t, date(2025, time.March, 10), "acc-rent", "acc-cash", dec("2000"))

	return e
}

func TestTrialBalanceUseCase_Monthly(t *testing.T) {
	e := trialEnv(t)

	report, err := e.trial.Monthly(context.Background(), testUser, 2025, time.March, "")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}

	if report.BeforeInitialization {
		t.Fatal("report flagged BeforeInitialization for a post-init month")
	}
	if len(report.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(report.Groups))
	}

	wantGroups := []struct {
		group   domain.Group
		bd, bal string
		pd, pc  string
		pn      string
	}{
		{domain.GroupAsset, "1300", "4300", "5000", "2000", "3000"},
		{domain.GroupIncome, "300", "5300", "0", "5000", "5000"},
		{domain.GroupExpense, "0", "2000", "2000", "0", "2000"},
	}

	for i, want := range wantGroups {
		g := report.Groups[i]
		if g.Group != want.group {
			t.Fatalf("group[%d] = %s, want %s", i, g.Group, want.group)
		}
		assertDecimal(t, string(g.Group)+" BD", g.BD, dec(want.bd))
		assertDecimal(t, string(g.Group)+" balance", g.Balance, dec(want.bal))
		assertDecimal(t, string(g.Group)+" period debit", g.PeriodDebit, dec(want.pd))
		assertDecimal(t, string(g.Group)+" period credit", g.PeriodCredit, dec(want.pc))
		assertDecimal(t, string(g.Group)+" period net", g.PeriodNet, dec(want.pn))
	}

	assertDecimal(t, "total BD", report.TotalBD, dec("1600"))
	assertDecimal(t, "total balance", report.TotalBalance, dec("11600"))
	assertDecimal(t, "total period debit", report.TotalPeriodDebit, dec("7000"))
	assertDecimal(t, "total period credit", report.TotalPeriodCredit, dec("7000"))
	assertDecimal(t, "total period net", report.TotalPeriodNet, dec("10000"))
}

func TestTrialBalanceUseCase_Monthly_SubtotalsSumChildren(t *testing.T) {
	e := trialEnv(t)

	report, err := e.trial.Monthly(context.Background(), testUser, 2025, time.March, "")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}

	for _, g := range report.Groups {
		var bal decimal.Decimal
		for _, c := range g.Categories {
			var catBal decimal.Decimal
			for _, a := range c.Accounts {
				catBal = catBal.Add(a.Balance)
			}
			assertDecimal(t, "category "+c.Name+" balance", c.Balance, catBal)
			bal = bal.Add(c.Balance)
		}
		assertDecimal(t, "group "+string(g.Group)+" balance", g.Balance, bal)
	}
}

func TestTrialBalanceUseCase_Monthly_BeforeInitialization(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.seedCategory(t, "cat-asset", "Cash", domain.GroupAsset)
	e.seedAccount(t, "acc-cash", "Checking", "cat-asset")

	err := e.account.Initialize(ctx, usecase.InitializeInput{
		UserID:        testUser,
		InitializedOn: date(2025, time.February, 15),
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	report, err := e.trial.Monthly(ctx, testUser, 2025, time.January, "")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}

	if !report.BeforeInitialization {
		t.Error("pre-initialization month not flagged")
	}
	if len(report.Groups) != 0 {
		t.Errorf("pre-initialization report has %d groups, want 0", len(report.Groups))
	}
	if report.InitializedOn == nil || !report.InitializedOn.Equal(date(2025, time.February, 15)) {
		t.Error("report does not carry the initialization date")
	}
	assertDecimal(t, "total balance", report.TotalBalance, dec("0"))
	assertDecimal(t, "total period net", report.TotalPeriodNet, dec("0"))
}

func TestTrialBalanceUseCase_Monthly_PartialInitializationMonth(t *testing.T) {
	// Initialization mid-month: the period starts at the initialization
	// date, so earlier same-month entries stay out of the period columns.
	e := newEnv()
	ctx := context.Background()

	e.seedCategory(t, "cat-asset", "Cash", domain.GroupAsset)
	e.seedCategory(t, "cat-income", "Income", domain.GroupIncome)
	e.seedAccount(t, "acc-cash", "Checking", "cat-asset")
	e.seedAccount(t, "acc-salary", "Salary", "cat-income")

	err := e.account.Initialize(ctx, usecase.InitializeInput{
		UserID:        testUser,
		InitializedOn: date(2025, time.March, 15),
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	e.mustPost(t, date(2025, time.March, 10), "acc-cash", "acc-salary", dec("111"))
	e.mustPost(t, date(2025, time.March, 20), "acc-cash", "acc-salary", dec("222"))

	report, err := e.trial.Monthly(ctx, testUser, 2025, time.March, "")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}

	assertDecimal(t, "total period debit", report.TotalPeriodDebit, dec("222"))
	assertDecimal(t, "total balance", report.TotalBalance, dec("444"))
}

func TestTrialBalanceUseCase_Monthly_CurrencyFilterEmptyScope(t *testing.T) {
	e := trialEnv(t)

	_, err := e.trial.Monthly(context.Background(), testUser, 2025, time.March, "EUR")
	if !errors.Is(err, domain.ErrEmptyScope) {
		t.Fatalf("Monthly(EUR) error = %v, want ErrEmptyScope", err)
	}
}

func TestTrialBalanceUseCase_Monthly_CacheRoundTrip(t *testing.T) {
	e := trialEnv(t)
	ctx := context.Background()

	first, err := e.trial.Monthly(ctx, testUser, 2025, time.March, "")
	if err != nil {
		t.Fatalf("first Monthly: %v", err)
	}

	// Write to the journal behind the cache's back; the cached report must
	// be served as-is until invalidation.
	entry := &domain.JournalEntry{
		ID: "raw-1", UserID: testUser, Date: date(2025, time.March, 25),
		Lines: []domain.JournalLine{
			{ID: "raw-1a", EntryID: "raw-1", AccountID: "acc-cash", Side: domain.SideDebit, Amount: dec("10000")},
			{ID: "raw-1b", EntryID: "raw-1", AccountID: "acc-salary", Side: domain.SideCredit, Amount: dec("10000")},
		},
	}
	if err := e.journal.CreateEntry(ctx, nil, entry); err != nil {
		t.Fatalf("raw journal write: %v", err)
	}

	cached, err := e.trial.Monthly(ctx, testUser, 2025, time.March, "")
	if err != nil {
		t.Fatalf("cached Monthly: %v", err)
	}
	assertDecimal(t, "cached total balance", cached.TotalBalance, first.TotalBalance)

	if err := e.cache.InvalidateUser(ctx, testUser); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	fresh, err := e.trial.Monthly(ctx, testUser, 2025, time.March, "")
	if err != nil {
		t.Fatalf("fresh Monthly: %v", err)
	}
	assertDecimal(t, "fresh total balance", fresh.TotalBalance, first.TotalBalance.Add(dec("20000")))
}
