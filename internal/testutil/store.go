package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"smart-collab/internal/repository"
	"smart-collab/pkg/database"
)

// NewTestDB opens an in-memory SQLite database with the schema applied.
// It is closed automatically when the test completes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.ConnectSQLite(":memory:")
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}
	if err := repository.CreateTableIfNotExists(context.Background(), db); err != nil {
		t.Fatalf("creating tables: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return db
}

// NewTestStore wraps NewTestDB in a repository.Store.
func NewTestStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(NewTestDB(t))
}
