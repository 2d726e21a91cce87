package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
)

// ScenarioUseCase manages what-if forks of the forecast schedule. A
// scenario and the live schedule never affect each other after creation.
type ScenarioUseCase struct {
	txManager    TransactionManager
	scenarioRepo ScenarioRepository
	scheduleRepo ScheduleRepository
	idGen        IDGenerator
}

// NewScenarioUseCase creates a new ScenarioUseCase.
func NewScenarioUseCase(
	txManager TransactionManager,
	scenarioRepo ScenarioRepository,
	scheduleRepo ScheduleRepository,
	idGen IDGenerator,
) *ScenarioUseCase {
	return &ScenarioUseCase{
		txManager:    txManager,
		scenarioRepo: scenarioRepo,
		scheduleRepo: scheduleRepo,
		idGen:        idGen,
	}
}

// CreateFromWindowInput represents a scenario fork request.
type CreateFromWindowInput struct {
	UserID    string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	// CloneRows copies each live schedule row in range into the scenario
	// (flows and description only; actual-balance fields never cross over).
	CloneRows bool
}

// CreateFromWindow forks a date window of the live schedule into an
// independent scenario.
func (uc *ScenarioUseCase) CreateFromWindow(ctx context.Context, input CreateFromWindowInput) (*domain.Scenario, error) {
	start, end := domain.Day(input.StartDate), domain.Day(input.EndDate)

	now := time.Now().UTC()
	scenario := &domain.Scenario{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		Name:      input.Name,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Seed the scenario chain from the live predicted closing just before
	// the window. A snapshot, not a link: later live edits stay invisible.
	if prev, err := uc.scheduleRepo.LastBefore(ctx, input.UserID, start); err != nil {
		return nil, err
	} else if prev != nil {
		scenario.Baseline = prev.PredictedClosing
	}

	var clones []*domain.ScenarioRow
	if input.CloneRows {
		rows, err := uc.scheduleRepo.ListRange(ctx, input.UserID, start, end)
		if err != nil {
			return nil, err
		}

		running := scenario.Baseline
		for _, row := range rows {
			running = running.Add(row.Inflow).Sub(row.Outflow)
			clones = append(clones, &domain.ScenarioRow{
				ID:               uc.idGen.Generate(),
				ScenarioID:       scenario.ID,
				Date:             row.Date,
				Description:      row.Description,
				Inflow:           row.Inflow,
				Outflow:          row.Outflow,
				PredictedClosing: running,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.scenarioRepo.Create(ctx, tx, scenario); err != nil {
		return nil, err
	}
	for _, clone := range clones {
		if err := uc.scenarioRepo.UpsertRow(ctx, tx, clone); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return scenario, nil
}

// Get retrieves a scenario.
func (uc *ScenarioUseCase) Get(ctx context.Context, userID, scenarioID string) (*domain.Scenario, error) {
	return uc.scenarioRepo.GetByID(ctx, userID, scenarioID)
}

// List lists the user's scenarios.
func (uc *ScenarioUseCase) List(ctx context.Context, userID string) ([]*domain.Scenario, error) {
	return uc.scenarioRepo.List(ctx, userID)
}

// Rows returns the scenario's rows ordered by date.
func (uc *ScenarioUseCase) Rows(ctx context.Context, userID, scenarioID string) ([]*domain.ScenarioRow, error) {
	if _, err := uc.scenarioRepo.GetByID(ctx, userID, scenarioID); err != nil {
		return nil, err
	}
	return uc.scenarioRepo.ListRows(ctx, scenarioID)
}

// UpdateRowInput mutates one scenario day.
type UpdateRowInput struct {
	UserID      string
	ScenarioID  string
	Date        time.Time
	Inflow      decimal.Decimal
	Outflow     decimal.Decimal
	Description string
}

// UpdateRow sets a scenario row's flows, creating the row if missing, and
// recomputes the scenario's predicted chain from that date forward. Live
// schedule state is never touched.
func (uc *ScenarioUseCase) UpdateRow(ctx context.Context, input UpdateRowInput) (*domain.ScenarioRow, error) {
	if input.Inflow.IsNegative() || input.Outflow.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	scenario, err := uc.scenarioRepo.GetByID(ctx, input.UserID, input.ScenarioID)
	if err != nil {
		return nil, err
	}

	date := domain.Day(input.Date)
	now := time.Now().UTC()

	row, err := uc.scenarioRepo.GetRow(ctx, scenario.ID, date)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &domain.ScenarioRow{
			ID:         uc.idGen.Generate(),
			ScenarioID: scenario.ID,
			Date:       date,
			CreatedAt:  now,
		}
	}

	row.Inflow = input.Inflow
	row.Outflow = input.Outflow
	if input.Description != "" {
		row.Description = input.Description
	}
	row.UpdatedAt = now

	rows, err := uc.scenarioRepo.ListRows(ctx, scenario.ID)
	if err != nil {
		return nil, err
	}
	rows = spliceRow(rows, row)

	if err := uc.writeChain(ctx, scenario, rows, date); err != nil {
		return nil, err
	}

	return uc.scenarioRepo.GetRow(ctx, scenario.ID, date)
}

// DeleteRow removes one scenario day and recomputes the chain behind it.
func (uc *ScenarioUseCase) DeleteRow(ctx context.Context, userID, scenarioID string, date time.Time) error {
	scenario, err := uc.scenarioRepo.GetByID(ctx, userID, scenarioID)
	if err != nil {
		return err
	}

	date = domain.Day(date)

	rows, err := uc.scenarioRepo.ListRows(ctx, scenario.ID)
	if err != nil {
		return err
	}

	kept := rows[:0]
	for _, row := range rows {
		if !row.Date.Equal(date) {
			kept = append(kept, row)
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.scenarioRepo.DeleteRow(ctx, tx, scenario.ID, date); err != nil {
		return err
	}

	running := scenario.Baseline
	now := time.Now().UTC()
	for _, row := range kept {
		running = running.Add(row.Inflow).Sub(row.Outflow)
		if row.Date.Before(date) {
			continue
		}
		row.PredictedClosing = running
		row.UpdatedAt = now
		if err := uc.scenarioRepo.UpsertRow(ctx, tx, row); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes a scenario and all of its rows.
func (uc *ScenarioUseCase) Delete(ctx context.Context, userID, scenarioID string) error {
	if _, err := uc.scenarioRepo.GetByID(ctx, userID, scenarioID); err != nil {
		return err
	}
	return uc.scenarioRepo.Delete(ctx, userID, scenarioID)
}

// writeChain rebuilds the scenario's predicted closings with the same
// prefix-sum rule as the live schedule, seeded from the fork baseline, and
// writes every row dated on or after from in one transaction.
func (uc *ScenarioUseCase) writeChain(ctx context.Context, scenario *domain.Scenario, rows []*domain.ScenarioRow, from time.Time) error {
	running := scenario.Baseline
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		running = running.Add(row.Inflow).Sub(row.Outflow)
		if row.Date.Before(from) {
			// Chain prefix is unchanged by construction; skip the write.
			continue
		}

		row.PredictedClosing = running
		row.UpdatedAt = now
		if err := uc.scenarioRepo.UpsertRow(ctx, tx, row); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// spliceRow inserts or replaces a row in a date-ordered slice.
func spliceRow(rows []*domain.ScenarioRow, row *domain.ScenarioRow) []*domain.ScenarioRow {
	for i, existing := range rows {
		if existing.Date.Equal(row.Date) {
			rows[i] = row
			return rows
		}
		if existing.Date.After(row.Date) {
			rows = append(rows[:i], append([]*domain.ScenarioRow{row}, rows[i:]...)...)
			return rows
		}
	}
	return append(rows, row)
}
