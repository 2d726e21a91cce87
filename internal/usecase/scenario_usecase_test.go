package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// scenarioEnv builds a live schedule with three rows chained off a zero
// baseline: +1000 on the 2nd, -300 on the 3rd, -200 on the 4th.
func scenarioEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv()
	ctx := context.Background()

	e.seedCategory(t, "cat-asset", "Cash", domain.GroupAsset)
	e.seedAccount(t, "acc-cash", "Checking", "cat-asset")
	if err := e.account.SetAssetInclude(ctx, testUser, "acc-cash", nil); err != nil {
		t.Fatalf("asset include: %v", err)
	}

	flows := []struct {
		day             time.Time
		inflow, outflow string
	}{
		{date(2025, time.June, 2), "1000", "0"},
		{date(2025, time.June, 3), "0", "300"},
		{date(2025, time.June, 4), "0", "200"},
	}
	for _, f := range flows {
		if _, err := e.forecast.UpdateRowAmounts(ctx, testUser, f.day, dec(f.inflow), dec(f.outflow), ""); err != nil {
			t.Fatalf("seed row %s: %v", f.day.Format(domain.DateLayout), err)
		}
	}

	return e
}

func TestScenarioUseCase_CreateFromWindow(t *testing.T) {
	e := scenarioEnv(t)
	ctx := context.Background()

	scenario, err := e.scenario.CreateFromWindow(ctx, usecase.CreateFromWindowInput{
		UserID:    testUser,
		Name:      "tighter budget",
		StartDate: date(2025, time.June, 3),
		EndDate:   date(2025, time.June, 30),
		CloneRows: true,
	})
	if err != nil {
		t.Fatalf("CreateFromWindow: %v", err)
	}

	// Baseline snapshots the live predicted closing just before the window.
	assertDecimal(t, "baseline", scenario.Baseline, dec("1000"))

	rows, err := e.scenario.Rows(ctx, testUser, scenario.ID)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d cloned rows, want 2", len(rows))
	}
	assertDecimal(t, "cloned day 1 predicted", rows[0].PredictedClosing, dec("700"))
	assertDecimal(t, "cloned day 2 predicted", rows[1].PredictedClosing, dec("500"))
}

func TestScenarioUseCase_UpdateRowRecomputesChain(t *testing.T) {
	e := scenarioEnv(t)
	ctx := context.Background()

	scenario, err := e.scenario.CreateFromWindow(ctx, usecase.CreateFromWindowInput{
		UserID:    testUser,
		Name:      "what if rent doubles",
		StartDate: date(2025, time.June, 3),
		EndDate:   date(2025, time.June, 30),
		CloneRows: true,
	})
	if err != nil {
		t.Fatalf("CreateFromWindow: %v", err)
	}

	row, err := e.scenario.UpdateRow(ctx, usecase.UpdateRowInput{
		UserID:     testUser,
		ScenarioID: scenario.ID,
		Date:       date(2025, time.June, 3),
		Inflow:     dec("0"),
		Outflow:    dec("600"),
	})
	if err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}
	assertDecimal(t, "updated row predicted", row.PredictedClosing, dec("400"))

	rows, err := e.scenario.Rows(ctx, testUser, scenario.ID)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	assertDecimal(t, "downstream predicted", rows[1].PredictedClosing, dec("200"))
}

func TestScenarioUseCase_UpdateRowInsertsNewDate(t *testing.T) {
	e := scenarioEnv(t)
	ctx := context.Background()

	scenario, err := e.scenario.CreateFromWindow(ctx, usecase.CreateFromWindowInput{
		UserID:    testUser,
		Name:      "extra payment",
		StartDate: date(2025, time.June, 3),
		EndDate:   date(2025, time.June, 30),
		CloneRows: true,
	})
	if err != nil {
		t.Fatalf("CreateFromWindow: %v", err)
	}

	// A date between the cloned rows joins the chain in order.
	if _, err := e.scenario.UpdateRow(ctx, usecase.UpdateRowInput{
		UserID:     testUser,
		ScenarioID: scenario.ID,
		Date:       date(2025, time.June, 10),
		Inflow:     dec("50"),
		Outflow:    dec("0"),
	}); err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}

	rows, err := e.scenario.Rows(ctx, testUser, scenario.ID)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	assertDecimal(t, "appended predicted", rows[2].PredictedClosing, dec("550"))
}

func TestScenarioUseCase_IndependentFromLiveSchedule(t *testing.T) {
	e := scenarioEnv(t)
	ctx := context.Background()

	scenario, err := e.scenario.CreateFromWindow(ctx, usecase.CreateFromWindowInput{
		UserID:    testUser,
		Name:      "sandbox",
		StartDate: date(2025, time.June, 3),
		EndDate:   date(2025, time.June, 30),
		CloneRows: true,
	})
	if err != nil {
		t.Fatalf("CreateFromWindow: %v", err)
	}

	// Mutate the scenario; the live schedule must not move.
	if _, err := e.scenario.UpdateRow(ctx, usecase.UpdateRowInput{
		UserID:     testUser,
		ScenarioID: scenario.ID,
		Date:       date(2025, time.June, 3),
		Inflow:     dec("0"),
		Outflow:    dec("9999"),
	}); err != nil {
		t.Fatalf("UpdateRow: %v", err)
	}

	live, err := e.schedule.GetByDate(ctx, testUser, date(2025, time.June, 3))
	if err != nil {
		t.Fatalf("live GetByDate: %v", err)
	}
	assertDecimal(t, "live outflow", live.Outflow, dec("300"))
	assertDecimal(t, "live predicted", live.PredictedClosing, dec("700"))

	// Mutate the live schedule; the scenario must not move.
	if _, err := e.forecast.UpdateRowAmounts(ctx, testUser, date(2025, time.June, 3), dec("0"), dec("1"), ""); err != nil {
		t.Fatalf("live update: %v", err)
	}

	rows, err := e.scenario.Rows(ctx, testUser, scenario.ID)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	assertDecimal(t, "scenario outflow", rows[0].Outflow, dec("9999"))
}

func TestScenarioUseCase_DeleteRowRecomputesChain(t *testing.T) {
	e := scenarioEnv(t)
	ctx := context.Background()

	scenario, err := e.scenario.CreateFromWindow(ctx, usecase.CreateFromWindowInput{
		UserID:    testUser,
		Name:      "trimmed",
		StartDate: date(2025, time.June, 3),
		EndDate:   date(2025, time.June, 30),
		CloneRows: true,
	})
	if err != nil {
		t.Fatalf("CreateFromWindow: %v", err)
	}

	if err := e.scenario.DeleteRow(ctx, testUser, scenario.ID, date(2025, time.June, 3)); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}

	rows, err := e.scenario.Rows(ctx, testUser, scenario.ID)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	// Chain reseeds from the baseline without the deleted day.
	assertDecimal(t, "remaining predicted", rows[0].PredictedClosing, dec("800"))
}

func TestScenarioUseCase_DeleteCascadesRows(t *testing.T) {
	e := scenarioEnv(t)
	ctx := context.Background()

	scenario, err := e.scenario.CreateFromWindow(ctx, usecase.CreateFromWindowInput{
		UserID:    testUser,
		Name:      "short lived",
		StartDate: date(2025, time.June, 3),
		EndDate:   date(2025, time.June, 30),
		CloneRows: true,
	})
	if err != nil {
		t.Fatalf("CreateFromWindow: %v", err)
	}

	if err := e.scenario.Delete(ctx, testUser, scenario.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := e.scenario.Get(ctx, testUser, scenario.ID); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Errorf("Get after delete error = %v, want ErrScenarioNotFound", err)
	}
	if rows, _ := e.scenarios.ListRows(ctx, scenario.ID); len(rows) != 0 {
		t.Errorf("scenario rows survived deletion: %d", len(rows))
	}
}
