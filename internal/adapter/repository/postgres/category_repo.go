package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/fincast/internal/domain"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, account_group, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		string(category.Group),
		timeToPgTimestamptz(category.CreatedAt),
		timeToPgTimestamptz(category.UpdatedAt),
	)

	return err
}

// Update updates a category.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3, account_group = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		string(category.Group),
		timeToPgTimestamptz(category.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

// GetByID retrieves one of the user's categories.
func (r *CategoryRepository) GetByID(ctx context.Context, userID, id string) (*domain.Category, error) {
	query := `
		SELECT id, user_id, name, account_group, created_at, updated_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`

	var c domain.Category
	var group string
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &group, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	c.Group = domain.Group(group)

	return &c, nil
}

// List lists the user's categories.
func (r *CategoryRepository) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	query := `
		SELECT id, user_id, name, account_group, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		var group string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &group, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Group = domain.Group(group)
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}
