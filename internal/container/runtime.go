// Package container reads compose stack state from the container runtime.
// It never changes runtime state.
package container

import (
	"context"
)

// ActiveStack is a compose project with at least one running container
type ActiveStack struct {
	Project     string   `json:"project"`
	WorkingDir  string   `json:"workingDir,omitempty"`
	ConfigFiles []string `json:"configFiles,omitempty"`
	Containers  int      `json:"containers"`
}

// PathHints tells where a compose project was started from. Both fields are
// nil when the runtime knows nothing about the project.
type PathHints struct {
	WorkingDir  *string  `json:"workingDir"`
	ConfigFiles []string `json:"configFiles"`
}

// StackRuntime defines the read-only queries stackhand makes against the
// container runtime
type StackRuntime interface {
	// ActiveStacks returns the compose projects that have running containers
	ActiveStacks(ctx context.Context) ([]ActiveStack, error)

	// ProjectHints returns the working directory and config files recorded
	// on any container of project, running or not
	ProjectHints(ctx context.Context, project string) (*PathHints, error)

	// IsAvailable checks if the runtime answers
	IsAvailable(ctx context.Context) bool
}
