package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/fincast/internal/domain"
)

// RecurringEventRepository implements usecase.RecurringEventRepository.
// Weekday sets and custom date lists are stored as jsonb.
type RecurringEventRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringEventRepository creates a new RecurringEventRepository.
func NewRecurringEventRepository(pool *pgxpool.Pool) *RecurringEventRepository {
	return &RecurringEventRepository{pool: pool}
}

const recurringColumns = `id, user_id, description, direction, amount, start_date, end_date,
	frequency, interval_count, weekdays, month_day, custom_dates, active, created_at, updated_at`

// Create persists a new template.
func (r *RecurringEventRepository) Create(ctx context.Context, event *domain.RecurringEvent) error {
	weekdays, dates, err := encodeRule(event)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recurring_events (` + recurringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.Description,
		string(event.Direction),
		decimalToNumeric(event.Amount),
		timeToPgDate(event.StartDate),
		optionalEndDate(event.EndDate),
		string(event.Frequency),
		event.Interval,
		weekdays,
		event.MonthDay,
		dates,
		event.Active,
		timeToPgTimestamptz(event.CreatedAt),
		timeToPgTimestamptz(event.UpdatedAt),
	)

	return err
}

// Update rewrites a template.
func (r *RecurringEventRepository) Update(ctx context.Context, event *domain.RecurringEvent) error {
	weekdays, dates, err := encodeRule(event)
	if err != nil {
		return err
	}

	query := `
		UPDATE recurring_events
		SET description = $3, direction = $4, amount = $5, start_date = $6, end_date = $7,
		    frequency = $8, interval_count = $9, weekdays = $10, month_day = $11,
		    custom_dates = $12, active = $13, updated_at = $14
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.Description,
		string(event.Direction),
		decimalToNumeric(event.Amount),
		timeToPgDate(event.StartDate),
		optionalEndDate(event.EndDate),
		string(event.Frequency),
		event.Interval,
		weekdays,
		event.MonthDay,
		dates,
		event.Active,
		timeToPgTimestamptz(event.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// GetByID retrieves one of the user's templates.
func (r *RecurringEventRepository) GetByID(ctx context.Context, userID, id string) (*domain.RecurringEvent, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_events WHERE id = $1 AND user_id = $2`

	event, err := scanRecurringEvent(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

// List lists the user's templates.
func (r *RecurringEventRepository) List(ctx context.Context, userID string) ([]*domain.RecurringEvent, error) {
	return r.list(ctx, userID, false)
}

// ListActive lists only active templates.
func (r *RecurringEventRepository) ListActive(ctx context.Context, userID string) ([]*domain.RecurringEvent, error) {
	return r.list(ctx, userID, true)
}

func (r *RecurringEventRepository) list(ctx context.Context, userID string, activeOnly bool) ([]*domain.RecurringEvent, error) {
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_events
		WHERE user_id = $1 AND ($2 = false OR active)
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, userID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.RecurringEvent
	for rows.Next() {
		event, err := scanRecurringEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// Delete removes a template.
func (r *RecurringEventRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recurring_events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

func encodeRule(event *domain.RecurringEvent) ([]byte, []byte, error) {
	weekdayInts := make([]int, 0, len(event.Weekdays))
	for _, wd := range event.Weekdays {
		weekdayInts = append(weekdayInts, int(wd))
	}
	weekdays, err := json.Marshal(weekdayInts)
	if err != nil {
		return nil, nil, err
	}

	dateStrings := make([]string, 0, len(event.Dates))
	for _, d := range event.Dates {
		dateStrings = append(dateStrings, d.Format(domain.DateLayout))
	}
	dates, err := json.Marshal(dateStrings)
	if err != nil {
		return nil, nil, err
	}

	return weekdays, dates, nil
}

func optionalEndDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func scanRecurringEvent(row pgx.Row) (*domain.RecurringEvent, error) {
	var e domain.RecurringEvent
	var direction, frequency string
	var amount pgtype.Numeric
	var startDate, endDate pgtype.Date
	var weekdays, dates []byte

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Description,
		&direction,
		&amount,
		&startDate,
		&endDate,
		&frequency,
		&e.Interval,
		&weekdays,
		&e.MonthDay,
		&dates,
		&e.Active,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Direction = domain.Direction(direction)
	e.Frequency = domain.Frequency(frequency)
	e.Amount = numericToDecimal(amount)
	e.StartDate = pgDateToTime(startDate)
	if endDate.Valid {
		e.EndDate = pgDateToTime(endDate)
	}

	var weekdayInts []int
	if err := json.Unmarshal(weekdays, &weekdayInts); err != nil {
		return nil, err
	}
	for _, wd := range weekdayInts {
		e.Weekdays = append(e.Weekdays, time.Weekday(wd))
	}

	var dateStrings []string
	if err := json.Unmarshal(dates, &dateStrings); err != nil {
		return nil, err
	}
	for _, s := range dateStrings {
		d, err := time.ParseInLocation(domain.DateLayout, s, time.UTC)
		if err != nil {
			return nil, err
		}
		e.Dates = append(e.Dates, d)
	}

	return &e, nil
}
