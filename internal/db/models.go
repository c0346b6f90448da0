// Package db provides database models for stackhand
package db

import (
	"time"
)

// StackSourceKind records how a stack entered the inventory
type StackSourceKind string

const (
	// SourceInternal stacks were created by stackhand under the stacks dir
	SourceInternal StackSourceKind = "internal"
	// SourceAdopted stacks were discovered on disk and adopted
	SourceAdopted StackSourceKind = "adopted"
)

// Stack is a persisted stack record. The pair (Name, EnvironmentID) is unique;
// a nil EnvironmentID means the stack is not bound to an environment.
type Stack struct {
	ID            string          `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	EnvironmentID *int64          `json:"environment_id,omitempty" db:"environment_id"`
	ComposePath   string          `json:"compose_path" db:"compose_path"`
	EnvPath       *string         `json:"env_path,omitempty" db:"env_path"`
	Source        StackSourceKind `json:"source" db:"source"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for Stack
func (Stack) TableName() string {
	return "stacks"
}

// StackSource is the on-disk location of a stack's files
type StackSource struct {
	ComposePath string  `json:"compose_path"`
	EnvPath     *string `json:"env_path,omitempty"`
}

// ExternalPath is a directory scanned for stacks by the "scan all" mode
type ExternalPath struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for ExternalPath
func (ExternalPath) TableName() string {
	return "external_stack_paths"
}
