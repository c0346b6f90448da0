package testutil

import (
	"testing"

	"stackhand/internal/db"
)

// SetupTestDB creates a new in-memory database with the migrated schema
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(db.MemoryConfig())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Verify tables were created
	var count int
	err = database.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('stacks', 'external_stack_paths')")
	if err != nil {
		t.Fatalf("Failed to verify tables: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 tables, got %d", count)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}
