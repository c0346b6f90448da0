package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stackhand/internal/container"

	"github.com/stretchr/testify/mock"
)

// MockRuntime is a mock implementation of the container runtime queries.
// Set the *Return fields for simple cases or use On() for expectations.
type MockRuntime struct {
	mock.Mock

	// ActiveStacksReturn is returned by ActiveStacks when no expectation is set
	ActiveStacksReturn []container.ActiveStack
	ActiveStacksError  error
	// HintsReturn is returned by ProjectHints when no expectation is set
	HintsReturn *container.PathHints
	HintsError  error
}

// NewMockRuntime creates a new mock runtime with no running stacks
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{}
}

func (m *MockRuntime) hasExpectation(method string) bool {
	for _, call := range m.ExpectedCalls {
		if call.Method == method {
			return true
		}
	}
	return false
}

// ActiveStacks returns the running compose projects
func (m *MockRuntime) ActiveStacks(ctx context.Context) ([]container.ActiveStack, error) {
	if !m.hasExpectation("ActiveStacks") {
		return m.ActiveStacksReturn, m.ActiveStacksError
	}
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]container.ActiveStack), args.Error(1)
}

// ProjectHints returns path hints for project
func (m *MockRuntime) ProjectHints(ctx context.Context, project string) (*container.PathHints, error) {
	if !m.hasExpectation("ProjectHints") {
		if m.HintsReturn == nil && m.HintsError == nil {
			return &container.PathHints{}, nil
		}
		return m.HintsReturn, m.HintsError
	}
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*container.PathHints), args.Error(1)
}

// IsAvailable reports whether ActiveStacks would succeed
func (m *MockRuntime) IsAvailable(ctx context.Context) bool {
	return m.ActiveStacksError == nil
}

// WriteStack creates dir with the given files (name -> content) and returns dir
func WriteStack(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create stack dir: %v", err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string { return &s }

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 { return &v }
