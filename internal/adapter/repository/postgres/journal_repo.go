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

// JournalRepository implements usecase.JournalRepository. Entries and
// lines are written together; lines are never touched individually.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// CreateEntry persists an entry and all of its lines.
func (r *JournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	q := on(r.pool, tx)

	entryQuery := `
		INSERT INTO journal_entries (id, user_id, entry_date, description, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, entryQuery,
		entry.ID,
		entry.UserID,
		timeToPgDate(entry.Date),
		entry.Description,
		entry.Reference,
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO journal_lines (id, entry_id, account_id, side, amount, original_amount, original_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, line := range entry.Lines {
		_, err := q.Exec(ctx, lineQuery,
			line.ID,
			entry.ID,
			line.AccountID,
			string(line.Side),
			decimalToNumeric(line.Amount),
			decimalToNumeric(line.OriginalAmount),
			decimalToNumeric(line.OriginalRate),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an entry with its lines.
func (r *JournalRepository) GetByID(ctx context.Context, userID, id string) (*domain.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, description, reference, created_at
		FROM journal_entries
		WHERE id = $1 AND user_id = $2
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	if err := r.attachLines(ctx, []*domain.JournalEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetByReference retrieves the entry carrying an idempotency reference,
// or (nil, nil) when none does.
func (r *JournalRepository) GetByReference(ctx context.Context, userID, reference string) (*domain.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, description, reference, created_at
		FROM journal_entries
		WHERE user_id = $1 AND reference = $2
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, userID, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.attachLines(ctx, []*domain.JournalEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// List lists the user's entries with lines, newest first.
func (r *JournalRepository) List(ctx context.Context, userID string, limit, offset int) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, description, reference, created_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLines(ctx, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteEntry removes an entry; lines cascade.
func (r *JournalRepository) DeleteEntry(ctx context.Context, tx usecase.Transaction, userID, id string) error {
	q := on(r.pool, tx)

	tag, err := q.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// CountByUser counts the user's entries.
func (r *JournalRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM journal_entries WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// SumMovements aggregates debit/credit totals per account over lines of
// in-scope accounts whose entry date falls within the optional bounds.
func (r *JournalRepository) SumMovements(ctx context.Context, userID string, accountIDs []string, from, to *time.Time) ([]domain.MovementSum, error) {
	query := `
		SELECT l.account_id,
		       COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'debit'), 0),
		       COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'credit'), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE e.user_id = $1
		  AND l.account_id = ANY($2)
		  AND ($3::date IS NULL OR e.entry_date >= $3)
		  AND ($4::date IS NULL OR e.entry_date <= $4)
		GROUP BY l.account_id
		ORDER BY l.account_id
	`

	rows, err := r.pool.Query(ctx, query, userID, accountIDs, optionalPgDate(from), optionalPgDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []domain.MovementSum
	for rows.Next() {
		var s domain.MovementSum
		var debit, credit pgtype.Numeric
		if err := rows.Scan(&s.AccountID, &debit, &credit); err != nil {
			return nil, err
		}
		s.Debit = numericToDecimal(debit)
		s.Credit = numericToDecimal(credit)
		sums = append(sums, s)
	}

	return sums, rows.Err()
}

// SumMovementsByDay is SumMovements with a per-entry-date breakdown,
// ordered by date ascending.
func (r *JournalRepository) SumMovementsByDay(ctx context.Context, userID string, accountIDs []string, from, to *time.Time) ([]usecase.DayMovement, error) {
	query := `
		SELECT e.entry_date, l.account_id,
		       COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'debit'), 0),
		       COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'credit'), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE e.user_id = $1
		  AND l.account_id = ANY($2)
		  AND ($3::date IS NULL OR e.entry_date >= $3)
		  AND ($4::date IS NULL OR e.entry_date <= $4)
		GROUP BY e.entry_date, l.account_id
		ORDER BY e.entry_date, l.account_id
	`

	rows, err := r.pool.Query(ctx, query, userID, accountIDs, optionalPgDate(from), optionalPgDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []usecase.DayMovement
	for rows.Next() {
		var m usecase.DayMovement
		var day pgtype.Date
		var debit, credit pgtype.Numeric
		if err := rows.Scan(&day, &m.AccountID, &debit, &credit); err != nil {
			return nil, err
		}
		m.Date = pgDateToTime(day)
		m.Debit = numericToDecimal(debit)
		m.Credit = numericToDecimal(credit)
		movements = append(movements, m)
	}

	return movements, rows.Err()
}

func (r *JournalRepository) attachLines(ctx context.Context, entries []*domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[string]*domain.JournalEntry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	query := `
		SELECT id, entry_id, account_id, side, amount, original_amount, original_rate
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.JournalLine
		var side string
		var amount, originalAmount, originalRate pgtype.Numeric
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &side, &amount, &originalAmount, &originalRate); err != nil {
			return err
		}
		l.Side = domain.Side(side)
		l.Amount = numericToDecimal(amount)
		l.OriginalAmount = numericToDecimal(originalAmount)
		l.OriginalRate = numericToDecimal(originalRate)

		if entry, ok := byID[l.EntryID]; ok {
			entry.Lines = append(entry.Lines, l)
		}
	}

	return rows.Err()
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var day pgtype.Date
	err := row.Scan(&e.ID, &e.UserID, &day, &e.Description, &e.Reference, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Date = pgDateToTime(day)
	return &e, nil
}
