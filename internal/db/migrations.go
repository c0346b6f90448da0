package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion reports the applied migration version and whether the last
// migration left the schema dirty. A database that was never migrated
// reports version 0.
func (db *DB) SchemaVersion(ctx context.Context) (uint, bool, error) {
	var row struct {
		Version uint `db:"version"`
		Dirty   bool `db:"dirty"`
	}

	err := db.GetContext(ctx, &row, `SELECT version, dirty FROM schema_migrations LIMIT 1`)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get schema version: %w", err)
	}

	return row.Version, row.Dirty, nil
}
