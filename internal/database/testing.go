package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB creates a test database connection and verifies it.
// Tests are skipped when PUCKCAST_TEST_DATABASE_URL is not set.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("PUCKCAST_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PUCKCAST_TEST_DATABASE_URL not set; skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	db := &DB{pool: pool}

	// Verify connection
	verifyCtx, verifyCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer verifyCancel()

	if err := db.Ping(verifyCtx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Close(ctx); err != nil {
		t.Logf("warning: failed to close test database: %v", err)
	}
}

// MigrateTestDB applies migrations against the test database
func MigrateTestDB(t *testing.T, migrationsPath string) {
	t.Helper()

	dsn := os.Getenv("PUCKCAST_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PUCKCAST_TEST_DATABASE_URL not set; skipping database test")
	}

	if err := RunMigrations(dsn, migrationsPath); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}
