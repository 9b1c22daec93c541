//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL and applies migrations.
// Skipped if the variable is not set.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	require.NoError(t, err)
	_, err = db.Migrate(ctx)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}
