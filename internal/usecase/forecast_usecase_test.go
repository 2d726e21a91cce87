package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

func TestForecastUseCase_PredictedActualVariance(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.seedCategory(t, "cat-asset", "Cash", domain.GroupAsset)
	e.seedCategory(t, "cat-income", "Income", domain.GroupIncome)
	e.seedCategory(t, "cat-expense", "Expenses", domain.GroupExpense)
	e.seedAccount(t, "acc-cash", "Checking", "cat-asset")
	e.seedAccount(t, "acc-salary", "Salary", "cat-income")
	e.seedAccount(t, "acc-rent", "Rent", "cat-expense")

	if err := e.account.Initialize(ctx, usecase.InitializeInput{
		UserID:        testUser,
		InitializedOn: date(2025, time.January, 1),
		Openings:      map[string]decimal.Decimal{"acc-cash": dec("100000")},
	}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := e.account.SetAssetInclude(ctx, testUser, "acc-cash", nil); err != nil {
		t.Fatalf("asset include: %v", err)
	}

	day1 := date(2025, time.June, 2)
	day2 := date(2025, time.June, 3)

	// Ledger reality: +35000 on day 1, -15000 on day 2.
	e.mustPost(t, day1, "acc-cash", "acc-salary", dec("35000"))
	e.mustPost(t, day2, "acc-rent", "acc-cash", dec("15000"))

	// Budget: +20000/-5000 on day 1, -10000 on day 2.
	if _, err := e.forecast.UpdateRowAmounts(ctx, testUser, day1, dec("20000"), dec("5000"), "salary and groceries"); err != nil {
		t.Fatalf("update day 1: %v", err)
	}
	if _, err := e.forecast.UpdateRowAmounts(ctx, testUser, day2, dec("0"), dec("10000"), "rent"); err != nil {
		t.Fatalf("update day 2: %v", err)
	}

	rows, err := e.forecast.GetSchedule(ctx, testUser, day1, day2)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	assertDecimal(t, "day 1 predicted", rows[0].PredictedClosing, dec("115000"))
	assertDecimal(t, "day 1 actual", rows[0].ActualClosing, dec("135000"))
	assertDecimal(t, "day 1 variance", rows[0].Variance, dec("20000"))

	assertDecimal(t, "day 2 predicted", rows[1].PredictedClosing, dec("105000"))
	assertDecimal(t, "day 2 actual", rows[1].ActualClosing, dec("120000"))
	assertDecimal(t, "day 2 variance", rows[1].Variance, dec("15000"))

	// Actual closings are materialized per row date and nowhere else.
	balances := e.daily.All(testUser)
	if len(balances) != 2 {
		t.Fatalf("got %d daily balances, want 2", len(balances))
	}
	assertDecimal(t, "day 1 materialized", balances[0].Balance, dec("135000"))
	assertDecimal(t, "day 2 materialized", balances[1].Balance, dec("120000"))
}

func TestForecastUseCase_RecomputeIsIdempotent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.seedCategory(t, "cat-asset", "Cash", domain.GroupAsset)
	e.seedAccount(t, "acc-cash", "Checking", "cat-asset")
	if err := e.account.SetAssetInclude(ctx, testUser, "acc-cash", nil); err != nil {
		t.Fatalf("asset include: %v", err)
	}

	day1 := date(2025, time.June, 2)
	if _, err := e.forecast.QuickAdd(ctx, testUser, day1, domain.DirectionInflow, dec("500"), "refund"); err != nil {
		t.Fatalf("quick add: %v", err)
	}

	first, err := e.forecast.GetSchedule(ctx, testUser, day1, day1)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}

	if err := e.forecast.RecomputeFrom(ctx, testUser, day1); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if err := e.forecast.RecomputeFrom(ctx, testUser, day1); err != nil {
		t.Fatalf("second recompute: %v", err)
	}

	second, err := e.forecast.GetSchedule(ctx, testUser, day1, day1)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}

	assertDecimal(t, "predicted", second[0].PredictedClosing, first[0].PredictedClosing)
	assertDecimal(t, "actual", second[0].ActualClosing, first[0].ActualClosing)
	assertDecimal(t, "variance", second[0].Variance, first[0].Variance)
}

func TestForecastUseCase_GapDaysCarryMovements(t *testing.T) {
	// A ledger movement on a day without a schedule row still shifts the
	// actual trajectory of every later row.
	e := newEnv()
	ctx := context.Background()

	e.seedCategory(t, "cat-asset", "Cash", domain.GroupAsset)
	e.seedCategory(t, "cat-income", "Income", domain.GroupIncome)
	e.seedAccount(t, "acc-cash", "Checking", "cat-asset")
	e.seedAccount(t, "acc-salary", "Salary", "cat-income")
	if err := e.account.SetAssetInclude(ctx, testUser, "acc-cash", nil); err != nil {
		t.Fatalf("asset include: %v", err)
	}

	day1 := date(2025, time.June, 2)
	gapDay := date(2025, time.June, 5)
	day2 := date(2025, time.June, 9)

	if _, err := e.forecast.UpdateRowAmounts(ctx, testUser, day1, dec("0"), dec("0"), ""); err != nil {
		t.Fatalf("row day 1: %v", err)
	}
	if _, err := e.forecast.UpdateRowAmounts(ctx, testUser, day2, dec("0"), dec("0"), ""); err != nil {
		t.Fatalf("row day 2: %v", err)
	}

	e.mustPost(t, gapDay, "acc-cash", "acc-salary", dec("777"))
	if err := e.forecast.RecomputeFrom(ctx, testUser, day1); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	rows, err := e.forecast.GetSchedule(ctx, testUser, day1, day2)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	assertDecimal(t, "day 1 actual", rows[0].ActualClosing, dec("0"))
	assertDecimal(t, "day 2 actual", rows[1].ActualClosing, dec("777"))
}

func TestForecastUseCase_MaterializationBoundedBySchedule(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	e.seedCategory(t, "cat-asset", "Cash", domain.GroupAsset)
	e.seedAccount(t, "acc-cash", "Checking", "cat-asset")
	if err := e.account.SetAssetInclude(ctx, testUser, "acc-cash", nil); err != nil {
		t.Fatalf("asset include: %v", err)
	}

	day1 := date(2025, time.June, 2)
	day2 := date(2025, time.June, 9)

	if _, err := e.forecast.UpdateRowAmounts(ctx, testUser, day1, dec("100"), dec("0"), ""); err != nil {
		t.Fatalf("row day 1: %v", err)
	}
	if _, err := e.forecast.UpdateRowAmounts(ctx, testUser, day2, dec("200"), dec("0"), ""); err != nil {
		t.Fatalf("row day 2: %v", err)
	}

	// A stale materialized balance beyond the horizon must be swept on the
	// next recompute.
	if err := e.daily.Upsert(ctx, nil, &domain.DailyBalance{
		UserID: testUser, Date: date(2025, time.July, 1), Balance: dec("12345"),
	}); err != nil {
		t.Fatalf("stale balance: %v", err)
	}

	if err := e.forecast.RecomputeFrom(ctx, testUser, day1); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	for _, b := range e.daily.All(testUser) {
		if b.Date.After(day2) {
			t.Errorf("materialized balance at %s outlives the schedule horizon", b.Date.Format(domain.DateLayout))
		}
	}
}

func TestForecastUseCase_EnsureRowIdempotent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	day1 := date(2025, time.June, 2)

	first, err := e.forecast.EnsureRow(ctx, testUser, day1)
	if err != nil {
		t.Fatalf("first EnsureRow: %v", err)
	}
	second, err := e.forecast.EnsureRow(ctx, testUser, day1)
	if err != nil {
		t.Fatalf("second EnsureRow: %v", err)
	}
	if first.ID != second.ID {
		t.Error("EnsureRow created a second row for the same date")
	}
}

func TestForecastUseCase_QuickAddValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	if _, err := e.forecast.QuickAdd(ctx, testUser, date(2025, time.June, 2), "sideways", dec("10"), ""); err == nil {
		t.Error("invalid direction accepted")
	}
	if _, err := e.forecast.QuickAdd(ctx, testUser, date(2025, time.June, 2), domain.DirectionInflow, dec("-10"), ""); err == nil {
		t.Error("negative amount accepted")
	}
}
