package testutil

import (
	"testing"

	"alcyxob/trainingsplan/internal/repository"
	"alcyxob/trainingsplan/internal/repository/sqlite"
)

// NewTestStore creates a repository store over an in-memory SQLite database
// with all migrations applied. The database is closed when the test completes.
func NewTestStore(t *testing.T) *repository.Store {
	t.Helper()
	database, err := sqlite.OpenDB(sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return sqlite.NewStore(database)
}
