package db

import (
	"context"
	"fmt"
	"time"

	"stackhand/internal/errors"

	"github.com/google/uuid"
)

// ExternalPathStore defines the operations on configured scan roots
type ExternalPathStore interface {
	ListExternalPaths(ctx context.Context) ([]string, error)
	AddExternalPath(ctx context.Context, path string) error
	RemoveExternalPath(ctx context.Context, path string) error
}

// ExternalPathRepository handles database operations for external scan paths
type ExternalPathRepository struct {
	db *DB
}

// NewExternalPathRepository creates a new external path repository
func NewExternalPathRepository(db *DB) *ExternalPathRepository {
	return &ExternalPathRepository{db: db}
}

// ListExternalPaths returns the configured scan roots in insertion order
func (r *ExternalPathRepository) ListExternalPaths(ctx context.Context) ([]string, error) {
	paths := []string{}
	if err := r.db.SelectContext(ctx, &paths,
		`SELECT path FROM external_stack_paths ORDER BY rowid ASC`); err != nil {
		return nil, fmt.Errorf("failed to list external paths: %w", err)
	}
	return paths, nil
}

// AddExternalPath stores path. Adding a path twice is a no-op.
func (r *ExternalPathRepository) AddExternalPath(ctx context.Context, path string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO external_stack_paths (id, path, created_at) VALUES (?, ?, ?) ON CONFLICT(path) DO NOTHING`,
		uuid.New().String(), path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add external path: %w", err)
	}
	return nil
}

// RemoveExternalPath deletes path
func (r *ExternalPathRepository) RemoveExternalPath(ctx context.Context, path string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM external_stack_paths WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to remove external path: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NotFound(path)
	}

	return nil
}
