package container

import (
	"context"
	stderrors "errors"
	"testing"

	"stackhand/internal/constants"
	"stackhand/internal/errors"

	dockercontainer "github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) ContainerList(ctx context.Context, options dockercontainer.ListOptions) ([]dockercontainer.Summary, error) {
	args := m.Called(ctx, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dockercontainer.Summary), args.Error(1)
}

func composeLabels(project, dir, files string) map[string]string {
	labels := map[string]string{constants.LabelComposeProject: project}
	if dir != "" {
		labels[constants.LabelComposeWorkingDir] = dir
	}
	if files != "" {
		labels[constants.LabelComposeConfigFiles] = files
	}
	return labels
}

func TestActiveStacks(t *testing.T) {
	lister := &mockLister{}
	lister.On("ContainerList", mock.Anything, mock.MatchedBy(func(o dockercontainer.ListOptions) bool {
		return !o.All && o.Filters.ExactMatch("label", constants.LabelComposeProject)
	})).Return([]dockercontainer.Summary{
		{Labels: composeLabels("web", "/srv/web", "/srv/web/compose.yaml")},
		{Labels: composeLabels("web", "/srv/web", "/srv/web/compose.yaml")},
		{Labels: composeLabels("db", "", "")},
	}, nil)

	stacks, err := NewDockerRuntimeWithClient(lister).ActiveStacks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []ActiveStack{
		{Project: "db", Containers: 1},
		{Project: "web", WorkingDir: "/srv/web", ConfigFiles: []string{"/srv/web/compose.yaml"}, Containers: 2},
	}, stacks)
	lister.AssertExpectations(t)
}

func TestActiveStacksRuntimeDown(t *testing.T) {
	lister := &mockLister{}
	lister.On("ContainerList", mock.Anything, mock.Anything).
		Return(nil, stderrors.New("Cannot connect to the Docker daemon at unix:///var/run/docker.sock"))

	_, err := NewDockerRuntimeWithClient(lister).ActiveStacks(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrRuntimeUnavailable))

	var se *errors.StackError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, string(ErrorTypeRuntimeNotFound), se.Context["type"])
}

func TestProjectHints(t *testing.T) {
	lister := &mockLister{}
	lister.On("ContainerList", mock.Anything, mock.MatchedBy(func(o dockercontainer.ListOptions) bool {
		return o.All && o.Filters.ExactMatch("label", constants.LabelComposeProject+"=media")
	})).Return([]dockercontainer.Summary{
		{Labels: composeLabels("media", "", "")},
		{Labels: composeLabels("media", "/opt/media", "/opt/media/compose.yaml, /opt/media/override.yaml")},
	}, nil)

	hints, err := NewDockerRuntimeWithClient(lister).ProjectHints(context.Background(), "media")
	require.NoError(t, err)
	require.NotNil(t, hints.WorkingDir)
	assert.Equal(t, "/opt/media", *hints.WorkingDir)
	assert.Equal(t, []string{"/opt/media/compose.yaml", "/opt/media/override.yaml"}, hints.ConfigFiles)
}

func TestProjectHintsUnknownProject(t *testing.T) {
	lister := &mockLister{}
	lister.On("ContainerList", mock.Anything, mock.Anything).Return([]dockercontainer.Summary{}, nil)

	hints, err := NewDockerRuntimeWithClient(lister).ProjectHints(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, hints.WorkingDir)
	assert.Nil(t, hints.ConfigFiles)
}

func TestIsAvailable(t *testing.T) {
	up := &mockLister{}
	up.On("ContainerList", mock.Anything, mock.Anything).Return([]dockercontainer.Summary{}, nil)
	assert.True(t, NewDockerRuntimeWithClient(up).IsAvailable(context.Background()))

	down := &mockLister{}
	down.On("ContainerList", mock.Anything, mock.Anything).Return(nil, stderrors.New("connection refused"))
	assert.False(t, NewDockerRuntimeWithClient(down).IsAvailable(context.Background()))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorTypePermissionDenied, classifyError(stderrors.New("dial unix /var/run/docker.sock: connect: permission denied")))
	assert.Equal(t, ErrorTypeTimeout, classifyError(context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeUnknown, classifyError(stderrors.New("boom")))
}
