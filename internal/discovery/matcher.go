package discovery

import (
	"context"
	"path/filepath"

	"stackhand/internal/compose"
	"stackhand/internal/container"
	"stackhand/internal/logger"
)

// ActiveStackLister reports the compose projects that are currently running
type ActiveStackLister interface {
	ActiveStacks(ctx context.Context) ([]container.ActiveStack, error)
}

// Matcher flags candidates whose stack is already running
type Matcher struct {
	lister      ActiveStackLister
	projectName func(composePath string) string
}

// NewMatcher creates a Matcher. A nil lister leaves every candidate unknown.
func NewMatcher(lister ActiveStackLister) *Matcher {
	return &Matcher{lister: lister, projectName: compose.ProjectName}
}

// Annotate returns a copy of candidates with IsRunning set. A candidate is
// running when an active stack has the same working directory, or, for
// active stacks without that label, the same compose project name. If the
// runtime cannot be queried IsRunning stays nil.
func (m *Matcher) Annotate(ctx context.Context, candidates []StackCandidate) []StackCandidate {
	annotated := make([]StackCandidate, len(candidates))
	copy(annotated, candidates)

	if m.lister == nil || len(candidates) == 0 {
		return annotated
	}

	active, err := m.lister.ActiveStacks(ctx)
	if err != nil {
		logger.WithError(err).Warn("Could not query running stacks, running state unknown")
		return annotated
	}

	dirs := make(map[string]bool)
	projects := make(map[string]bool)
	for _, a := range active {
		if a.WorkingDir != "" {
			dirs[normalizeDir(a.WorkingDir)] = true
		} else if a.Project != "" {
			projects[compose.NormalizeProjectName(a.Project)] = true
		}
	}

	for i := range annotated {
		c := &annotated[i]
		running := dirs[normalizeDir(c.WorkingDir)]
		if !running && len(projects) > 0 {
			running = projects[m.projectName(c.ComposePath)]
		}
		c.IsRunning = &running
	}
	return annotated
}

func normalizeDir(dir string) string {
	if dir == "" {
		return ""
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Clean(dir)
}
