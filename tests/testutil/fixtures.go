// Package testutil provides fixtures for database-backed integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to the integration test database, running migrations
// first. Tests are skipped when TEST_DATABASE_URL is not set.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	migrationsPath := "migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "../../migrations"
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	db := &TestDB{Pool: pool, t: t}
	t.Cleanup(db.Close)
	return db
}

// Close releases the pool.
func (db *TestDB) Close() {
	db.Pool.Close()
}

// NewUserID returns a unique ledger owner ID so tests never share state.
func NewUserID() string {
	return "test-user-" + ulid.Make().String()
}

// Truncate empties the given tables between test cases.
func (db *TestDB) Truncate(ctx context.Context, tables ...string) {
	db.t.Helper()

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			db.t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

// Date builds a UTC calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return domain.Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
