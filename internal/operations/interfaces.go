package operations

import (
	"context"

	"stackhand/internal/container"
	"stackhand/internal/db"
	"stackhand/internal/discovery"
	"stackhand/internal/relocate"
)

// StackStore defines the inventory operations used by StackOperations
type StackStore interface {
	db.StackStore
}

// ExternalPathStore defines the scan root operations used by StackOperations
type ExternalPathStore interface {
	db.ExternalPathStore
}

// Runtime defines the container runtime queries used by StackOperations
type Runtime interface {
	discovery.ActiveStackLister
	ProjectHints(ctx context.Context, project string) (*container.PathHints, error)
}

// Relocator moves a stack directory
type Relocator interface {
	Relocate(plan relocate.Plan) (*relocate.Result, error)
}
