package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// ScenarioRepository implements usecase.ScenarioRepository.
type ScenarioRepository struct {
	pool *pgxpool.Pool
}

// NewScenarioRepository creates a new ScenarioRepository.
func NewScenarioRepository(pool *pgxpool.Pool) *ScenarioRepository {
	return &ScenarioRepository{pool: pool}
}

// Create persists a scenario header.
func (r *ScenarioRepository) Create(ctx context.Context, tx usecase.Transaction, scenario *domain.Scenario) error {
	query := `
		INSERT INTO scenarios (id, user_id, name, start_date, end_date, baseline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := on(r.pool, tx).Exec(ctx, query,
		scenario.ID,
		scenario.UserID,
		scenario.Name,
		timeToPgDate(scenario.StartDate),
		timeToPgDate(scenario.EndDate),
		decimalToNumeric(scenario.Baseline),
		timeToPgTimestamptz(scenario.CreatedAt),
		timeToPgTimestamptz(scenario.UpdatedAt),
	)

	return err
}

// GetByID retrieves one of the user's scenarios.
func (r *ScenarioRepository) GetByID(ctx context.Context, userID, id string) (*domain.Scenario, error) {
	query := `
		SELECT id, user_id, name, start_date, end_date, baseline, created_at, updated_at
		FROM scenarios
		WHERE id = $1 AND user_id = $2
	`

	scenario, err := scanScenario(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, err
	}

	return scenario, nil
}

// List lists the user's scenarios.
func (r *ScenarioRepository) List(ctx context.Context, userID string) ([]*domain.Scenario, error) {
	query := `
		SELECT id, user_id, name, start_date, end_date, baseline, created_at, updated_at
		FROM scenarios
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []*domain.Scenario
	for rows.Next() {
		scenario, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}

	return scenarios, rows.Err()
}

// Delete removes a scenario; rows cascade.
func (r *ScenarioRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScenarioNotFound
	}

	return nil
}

// UpsertRow writes a scenario row keyed by (scenario, date).
func (r *ScenarioRepository) UpsertRow(ctx context.Context, tx usecase.Transaction, row *domain.ScenarioRow) error {
	query := `
		INSERT INTO scenario_rows (id, scenario_id, row_date, description, inflow, outflow, predicted_closing, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (scenario_id, row_date)
		DO UPDATE SET
			description = EXCLUDED.description,
			inflow = EXCLUDED.inflow,
			outflow = EXCLUDED.outflow,
			predicted_closing = EXCLUDED.predicted_closing,
			updated_at = EXCLUDED.updated_at
	`

	_, err := on(r.pool, tx).Exec(ctx, query,
		row.ID,
		row.ScenarioID,
		timeToPgDate(row.Date),
		row.Description,
		decimalToNumeric(row.Inflow),
		decimalToNumeric(row.Outflow),
		decimalToNumeric(row.PredictedClosing),
		timeToPgTimestamptz(row.CreatedAt),
		timeToPgTimestamptz(row.UpdatedAt),
	)

	return err
}

// GetRow returns the scenario's row for a date, or (nil, nil).
func (r *ScenarioRepository) GetRow(ctx context.Context, scenarioID string, date time.Time) (*domain.ScenarioRow, error) {
	query := `
		SELECT id, scenario_id, row_date, description, inflow, outflow, predicted_closing, created_at, updated_at
		FROM scenario_rows
		WHERE scenario_id = $1 AND row_date = $2
	`

	row, err := scanScenarioRow(r.pool.QueryRow(ctx, query, scenarioID, timeToPgDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row, nil
}

// ListRows returns the scenario's rows ordered by date.
func (r *ScenarioRepository) ListRows(ctx context.Context, scenarioID string) ([]*domain.ScenarioRow, error) {
	query := `
		SELECT id, scenario_id, row_date, description, inflow, outflow, predicted_closing, created_at, updated_at
		FROM scenario_rows
		WHERE scenario_id = $1
		ORDER BY row_date
	`

	rows, err := r.pool.Query(ctx, query, scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ScenarioRow
	for rows.Next() {
		row, err := scanScenarioRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

// DeleteRow removes one scenario day.
func (r *ScenarioRepository) DeleteRow(ctx context.Context, tx usecase.Transaction, scenarioID string, date time.Time) error {
	query := `DELETE FROM scenario_rows WHERE scenario_id = $1 AND row_date = $2`

	_, err := on(r.pool, tx).Exec(ctx, query, scenarioID, timeToPgDate(date))
	return err
}

func scanScenario(row pgx.Row) (*domain.Scenario, error) {
	var s domain.Scenario
	var start, end pgtype.Date
	var baseline pgtype.Numeric

	err := row.Scan(&s.ID, &s.UserID, &s.Name, &start, &end, &baseline, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.StartDate = pgDateToTime(start)
	s.EndDate = pgDateToTime(end)
	s.Baseline = numericToDecimal(baseline)

	return &s, nil
}

func scanScenarioRow(row pgx.Row) (*domain.ScenarioRow, error) {
	var s domain.ScenarioRow
	var day pgtype.Date
	var inflow, outflow, predicted pgtype.Numeric

	err := row.Scan(&s.ID, &s.ScenarioID, &day, &s.Description, &inflow, &outflow, &predicted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.Date = pgDateToTime(day)
	s.Inflow = numericToDecimal(inflow)
	s.Outflow = numericToDecimal(outflow)
	s.PredictedClosing = numericToDecimal(predicted)

	return &s, nil
}
