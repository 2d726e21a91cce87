package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// DailyBalanceRepository implements usecase.DailyBalanceRepository.
type DailyBalanceRepository struct {
	pool *pgxpool.Pool
}

// NewDailyBalanceRepository creates a new DailyBalanceRepository.
func NewDailyBalanceRepository(pool *pgxpool.Pool) *DailyBalanceRepository {
	return &DailyBalanceRepository{pool: pool}
}

// Upsert writes a materialized daily balance.
func (r *DailyBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.DailyBalance) error {
	query := `
		INSERT INTO daily_balances (user_id, balance_date, balance, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, balance_date)
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at
	`

	_, err := on(r.pool, tx).Exec(ctx, query,
		balance.UserID,
		timeToPgDate(balance.Date),
		decimalToNumeric(balance.Balance),
		timeToPgTimestamptz(balance.UpdatedAt),
	)

	return err
}

// GetRange returns materialized balances within [from, to], ordered by date.
func (r *DailyBalanceRepository) GetRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyBalance, error) {
	query := `
		SELECT user_id, balance_date, balance, updated_at
		FROM daily_balances
		WHERE user_id = $1 AND balance_date BETWEEN $2 AND $3
		ORDER BY balance_date
	`

	rows, err := r.pool.Query(ctx, query, userID, timeToPgDate(from), timeToPgDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.DailyBalance
	for rows.Next() {
		var b domain.DailyBalance
		var day pgtype.Date
		var amount pgtype.Numeric
		if err := rows.Scan(&b.UserID, &day, &amount, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.Date = pgDateToTime(day)
		b.Balance = numericToDecimal(amount)
		balances = append(balances, &b)
	}

	return balances, rows.Err()
}

// DeleteAfter removes balances dated strictly after date.
func (r *DailyBalanceRepository) DeleteAfter(ctx context.Context, tx usecase.Transaction, userID string, date time.Time) error {
	query := `DELETE FROM daily_balances WHERE user_id = $1 AND balance_date > $2`

	_, err := on(r.pool, tx).Exec(ctx, query, userID, timeToPgDate(date))
	return err
}
