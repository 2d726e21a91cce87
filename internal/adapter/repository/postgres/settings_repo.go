package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// SettingsRepository implements usecase.SettingsRepository.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns the user's initialization setting, or (nil, nil) when the
// ledger has not been initialized.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*domain.InitializationSetting, error) {
	query := `SELECT user_id, initialized_on, first_month FROM ledger_settings WHERE user_id = $1`

	var s domain.InitializationSetting
	var initializedOn pgtype.Date
	err := r.pool.QueryRow(ctx, query, userID).Scan(&s.UserID, &initializedOn, &s.FirstMonth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.InitializedOn = pgDateToTime(initializedOn)

	return &s, nil
}

// Upsert sets the user's initialization setting.
func (r *SettingsRepository) Upsert(ctx context.Context, tx usecase.Transaction, setting *domain.InitializationSetting) error {
	query := `
		INSERT INTO ledger_settings (user_id, initialized_on, first_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET initialized_on = EXCLUDED.initialized_on, first_month = EXCLUDED.first_month
	`

	_, err := on(r.pool, tx).Exec(ctx, query,
		setting.UserID,
		timeToPgDate(setting.InitializedOn),
		setting.FirstMonth,
	)

	return err
}
