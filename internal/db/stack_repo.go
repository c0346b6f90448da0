package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stackhand/internal/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// StackStore defines the stack inventory operations used by the workflows
type StackStore interface {
	GetStackSource(ctx context.Context, name string, envID *int64) (*Stack, error)
	UpdateStackSource(ctx context.Context, name string, envID *int64, src StackSource) error
	AdoptStack(ctx context.Context, stack *Stack) error
	ListComposePaths(ctx context.Context) ([]string, error)
}

// StackRepository handles database operations for stacks
type StackRepository struct {
	db *DB
}

// NewStackRepository creates a new stack repository
func NewStackRepository(db *DB) *StackRepository {
	return &StackRepository{db: db}
}

const stackColumns = `id, name, environment_id, compose_path, env_path, source, created_at, updated_at`

// GetStackSource returns the stack record for name in envID.
// "IS ?" matches a NULL environment when envID is nil.
func (r *StackRepository) GetStackSource(ctx context.Context, name string, envID *int64) (*Stack, error) {
	query := `SELECT ` + stackColumns + ` FROM stacks WHERE name = ? AND environment_id IS ?`

	stack := &Stack{}
	err := r.db.GetContext(ctx, stack, query, name, envID)
	if err == sql.ErrNoRows {
		return nil, errors.StackNotFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stack: %w", err)
	}

	return stack, nil
}

// UpdateStackSource points the stack record at a new compose/env location
func (r *StackRepository) UpdateStackSource(ctx context.Context, name string, envID *int64, src StackSource) error {
	query := `UPDATE stacks SET compose_path = ?, env_path = ? WHERE name = ? AND environment_id IS ?`

	result, err := r.db.ExecContext(ctx, query, src.ComposePath, src.EnvPath, name, envID)
	if err != nil {
		return fmt.Errorf("failed to update stack source: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.StackNotFound(name)
	}

	return nil
}

// AdoptStack records an externally discovered stack. An existing record with
// the same name and environment is repointed at the new location.
func (r *StackRepository) AdoptStack(ctx context.Context, stack *Stack) error {
	if stack.ID == "" {
		stack.ID = uuid.New().String()
	}
	stack.Source = SourceAdopted
	now := time.Now().UTC()

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var existingID string
		err := tx.GetContext(ctx, &existingID,
			`SELECT id FROM stacks WHERE name = ? AND environment_id IS ?`, stack.Name, stack.EnvironmentID)

		switch {
		case err == sql.ErrNoRows:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO stacks (id, name, environment_id, compose_path, env_path, source, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				stack.ID, stack.Name, stack.EnvironmentID, stack.ComposePath, stack.EnvPath, stack.Source, now, now)
			if err != nil {
				return fmt.Errorf("failed to insert stack: %w", err)
			}
			stack.CreatedAt = now
		case err != nil:
			return fmt.Errorf("failed to look up stack: %w", err)
		default:
			_, err = tx.ExecContext(ctx,
				`UPDATE stacks SET compose_path = ?, env_path = ?, source = ? WHERE id = ?`,
				stack.ComposePath, stack.EnvPath, stack.Source, existingID)
			if err != nil {
				return fmt.Errorf("failed to update stack: %w", err)
			}
			stack.ID = existingID
		}

		stack.UpdatedAt = now
		return nil
	})
}

// ListComposePaths returns the compose path of every stack in the inventory
func (r *StackRepository) ListComposePaths(ctx context.Context) ([]string, error) {
	paths := []string{}
	if err := r.db.SelectContext(ctx, &paths, `SELECT compose_path FROM stacks ORDER BY compose_path ASC`); err != nil {
		return nil, fmt.Errorf("failed to list compose paths: %w", err)
	}
	return paths, nil
}

// List returns all stacks ordered by name
func (r *StackRepository) List(ctx context.Context) ([]*Stack, error) {
	stacks := []*Stack{}
	query := `SELECT ` + stackColumns + ` FROM stacks ORDER BY name ASC, environment_id ASC`
	if err := r.db.SelectContext(ctx, &stacks, query); err != nil {
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	return stacks, nil
}

// Create inserts a stack managed under the stacks directory
func (r *StackRepository) Create(ctx context.Context, stack *Stack) error {
	if stack.ID == "" {
		stack.ID = uuid.New().String()
	}
	if stack.Source == "" {
		stack.Source = SourceInternal
	}
	now := time.Now().UTC()
	stack.CreatedAt = now
	stack.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO stacks (id, name, environment_id, compose_path, env_path, source, created_at, updated_at)
		VALUES (:id, :name, :environment_id, :compose_path, :env_path, :source, :created_at, :updated_at)`, stack)
	if err != nil {
		return fmt.Errorf("failed to create stack: %w", err)
	}
	return nil
}
