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

// ScheduleRepository implements usecase.ScheduleRepository. Rows are
// unique per (user, date).
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `id, user_id, row_date, description, inflow, outflow,
	predicted_closing, actual_closing, variance, auto_generated, created_at, updated_at`

// Upsert writes a schedule row keyed by (user, date).
func (r *ScheduleRepository) Upsert(ctx context.Context, tx usecase.Transaction, row *domain.ScheduleRow) error {
	query := `
		INSERT INTO schedule_rows (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, row_date)
		DO UPDATE SET
			description = EXCLUDED.description,
			inflow = EXCLUDED.inflow,
			outflow = EXCLUDED.outflow,
			predicted_closing = EXCLUDED.predicted_closing,
			actual_closing = EXCLUDED.actual_closing,
			variance = EXCLUDED.variance,
			auto_generated = EXCLUDED.auto_generated,
			updated_at = EXCLUDED.updated_at
	`

	_, err := on(r.pool, tx).Exec(ctx, query,
		row.ID,
		row.UserID,
		timeToPgDate(row.Date),
		row.Description,
		decimalToNumeric(row.Inflow),
		decimalToNumeric(row.Outflow),
		decimalToNumeric(row.PredictedClosing),
		decimalToNumeric(row.ActualClosing),
		decimalToNumeric(row.Variance),
		row.AutoGenerated,
		timeToPgTimestamptz(row.CreatedAt),
		timeToPgTimestamptz(row.UpdatedAt),
	)

	return err
}

// GetByDate returns the user's row for a date, or (nil, nil).
func (r *ScheduleRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.ScheduleRow, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_rows WHERE user_id = $1 AND row_date = $2`

	row, err := scanScheduleRow(r.pool.QueryRow(ctx, query, userID, timeToPgDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row, nil
}

// ListFrom returns rows dated on or after from, ordered by date.
func (r *ScheduleRepository) ListFrom(ctx context.Context, userID string, from time.Time) ([]*domain.ScheduleRow, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_rows
		WHERE user_id = $1 AND row_date >= $2
		ORDER BY row_date
	`

	rows, err := r.pool.Query(ctx, query, userID, timeToPgDate(from))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScheduleRows(rows)
}

// ListRange returns rows dated within [from, to], ordered by date.
func (r *ScheduleRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduleRow, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_rows
		WHERE user_id = $1 AND row_date BETWEEN $2 AND $3
		ORDER BY row_date
	`

	rows, err := r.pool.Query(ctx, query, userID, timeToPgDate(from), timeToPgDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScheduleRows(rows)
}

// LastBefore returns the latest row dated strictly before date, or (nil, nil).
func (r *ScheduleRepository) LastBefore(ctx context.Context, userID string, date time.Time) (*domain.ScheduleRow, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_rows
		WHERE user_id = $1 AND row_date < $2
		ORDER BY row_date DESC
		LIMIT 1
	`

	row, err := scanScheduleRow(r.pool.QueryRow(ctx, query, userID, timeToPgDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row, nil
}

// LastModified returns the most recently updated row, or (nil, nil).
func (r *ScheduleRepository) LastModified(ctx context.Context, userID string) (*domain.ScheduleRow, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_rows
		WHERE user_id = $1
		ORDER BY updated_at DESC, row_date DESC
		LIMIT 1
	`

	row, err := scanScheduleRow(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row, nil
}

// DeleteRange removes rows dated within [from, to].
func (r *ScheduleRepository) DeleteRange(ctx context.Context, tx usecase.Transaction, userID string, from, to time.Time) error {
	query := `DELETE FROM schedule_rows WHERE user_id = $1 AND row_date BETWEEN $2 AND $3`

	_, err := on(r.pool, tx).Exec(ctx, query, userID, timeToPgDate(from), timeToPgDate(to))
	return err
}

func scanScheduleRow(row pgx.Row) (*domain.ScheduleRow, error) {
	var s domain.ScheduleRow
	var day pgtype.Date
	var inflow, outflow, predicted, actual, variance pgtype.Numeric

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&day,
		&s.Description,
		&inflow,
		&outflow,
		&predicted,
		&actual,
		&variance,
		&s.AutoGenerated,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Date = pgDateToTime(day)
	s.Inflow = numericToDecimal(inflow)
	s.Outflow = numericToDecimal(outflow)
	s.PredictedClosing = numericToDecimal(predicted)
	s.ActualClosing = numericToDecimal(actual)
	s.Variance = numericToDecimal(variance)

	return &s, nil
}

func scanScheduleRows(rows pgx.Rows) ([]*domain.ScheduleRow, error) {
	var out []*domain.ScheduleRow
	for rows.Next() {
		row, err := scanScheduleRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
