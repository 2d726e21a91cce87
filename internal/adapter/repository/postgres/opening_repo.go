package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// OpeningBalanceRepository implements usecase.OpeningBalanceRepository.
type OpeningBalanceRepository struct {
	pool *pgxpool.Pool
}

// NewOpeningBalanceRepository creates a new OpeningBalanceRepository.
func NewOpeningBalanceRepository(pool *pgxpool.Pool) *OpeningBalanceRepository {
	return &OpeningBalanceRepository{pool: pool}
}

// Upsert sets an account's opening balance.
func (r *OpeningBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, ob *domain.OpeningBalance) error {
	query := `
		INSERT INTO opening_balances (user_id, account_id, amount, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, account_id)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
	`

	_, err := on(r.pool, tx).Exec(ctx, query,
		ob.UserID,
		ob.AccountID,
		decimalToNumeric(ob.Amount),
		timeToPgTimestamptz(ob.UpdatedAt),
	)

	return err
}

// GetForUser returns every opening balance keyed by account ID.
func (r *OpeningBalanceRepository) GetForUser(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `SELECT account_id, amount FROM opening_balances WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	openings := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var amount pgtype.Numeric
		if err := rows.Scan(&accountID, &amount); err != nil {
			return nil, err
		}
		openings[accountID] = numericToDecimal(amount)
	}

	return openings, rows.Err()
}
