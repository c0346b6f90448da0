package discovery

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"stackhand/internal/container"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) ActiveStacks(ctx context.Context) ([]container.ActiveStack, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]container.ActiveStack), args.Error(1)
}

func candidate(dir string) StackCandidate {
	return StackCandidate{
		Name:        filepath.Base(dir),
		ComposePath: filepath.Join(dir, "compose.yaml"),
		WorkingDir:  dir,
	}
}

func TestAnnotateByWorkingDir(t *testing.T) {
	lister := &mockLister{}
	lister.On("ActiveStacks", mock.Anything).Return([]container.ActiveStack{
		{Project: "web", WorkingDir: "/srv/stacks/web/"},
	}, nil)

	input := []StackCandidate{candidate("/srv/stacks/web"), candidate("/srv/stacks/db")}
	out := NewMatcher(lister).Annotate(context.Background(), input)

	require.Len(t, out, 2)
	require.NotNil(t, out[0].IsRunning)
	assert.True(t, *out[0].IsRunning)
	require.NotNil(t, out[1].IsRunning)
	assert.False(t, *out[1].IsRunning)

	// Input is left alone
	assert.Nil(t, input[0].IsRunning)
	lister.AssertExpectations(t)
}

func TestAnnotateFallsBackToProjectName(t *testing.T) {
	lister := &mockLister{}
	lister.On("ActiveStacks", mock.Anything).Return([]container.ActiveStack{
		{Project: "media"},
		{Project: "other", WorkingDir: "/elsewhere"},
	}, nil)

	m := NewMatcher(lister)
	m.projectName = func(composePath string) string {
		return filepath.Base(filepath.Dir(composePath))
	}

	out := m.Annotate(context.Background(), []StackCandidate{candidate("/opt/media"), candidate("/opt/other")})
	assert.True(t, *out[0].IsRunning)
	// "other" has a working dir label, so its name is not used
	assert.False(t, *out[1].IsRunning)
}

func TestAnnotateRuntimeFailureIsUnknown(t *testing.T) {
	lister := &mockLister{}
	lister.On("ActiveStacks", mock.Anything).Return(nil, errors.New("daemon down"))

	out := NewMatcher(lister).Annotate(context.Background(), []StackCandidate{candidate("/a")})
	require.Len(t, out, 1)
	assert.Nil(t, out[0].IsRunning)
}

func TestAnnotateWithoutLister(t *testing.T) {
	out := NewMatcher(nil).Annotate(context.Background(), []StackCandidate{candidate("/a")})
	assert.Nil(t, out[0].IsRunning)

	out = NewMatcher(nil).Annotate(context.Background(), nil)
	assert.Empty(t, out)
}
