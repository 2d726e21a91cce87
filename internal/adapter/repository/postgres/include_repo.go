package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/fincast/internal/domain"
)

// AssetIncludeRepository implements usecase.AssetIncludeRepository.
type AssetIncludeRepository struct {
	pool *pgxpool.Pool
}

// NewAssetIncludeRepository creates a new AssetIncludeRepository.
func NewAssetIncludeRepository(pool *pgxpool.Pool) *AssetIncludeRepository {
	return &AssetIncludeRepository{pool: pool}
}

// List returns the user's forecast baseline selection.
func (r *AssetIncludeRepository) List(ctx context.Context, userID string) ([]*domain.AssetInclude, error) {
	query := `
		SELECT user_id, account_id, override, created_at
		FROM asset_includes
		WHERE user_id = $1
		ORDER BY account_id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var includes []*domain.AssetInclude
	for rows.Next() {
		var inc domain.AssetInclude
		var override pgtype.Numeric
		if err := rows.Scan(&inc.UserID, &inc.AccountID, &override, &inc.CreatedAt); err != nil {
			return nil, err
		}
		if override.Valid {
			v := numericToDecimal(override)
			inc.Override = &v
		}
		includes = append(includes, &inc)
	}

	return includes, rows.Err()
}

// Set adds or replaces an include.
func (r *AssetIncludeRepository) Set(ctx context.Context, include *domain.AssetInclude) error {
	query := `
		INSERT INTO asset_includes (user_id, account_id, override, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, account_id)
		DO UPDATE SET override = EXCLUDED.override
	`

	var override pgtype.Numeric
	if include.Override != nil {
		override = decimalToNumeric(*include.Override)
	}

	_, err := r.pool.Exec(ctx, query,
		include.UserID,
		include.AccountID,
		override,
		timeToPgTimestamptz(include.CreatedAt),
	)

	return err
}

// Delete removes an include.
func (r *AssetIncludeRepository) Delete(ctx context.Context, userID, accountID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM asset_includes WHERE user_id = $1 AND account_id = $2`, userID, accountID)
	return err
}
