package container

import (
	"context"

	"stackhand/internal/constants"
	"stackhand/internal/errors"
	"stackhand/internal/lazy"

	dockercontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// ContainerLister is the part of the Docker API client DockerRuntime uses
type ContainerLister interface {
	ContainerList(ctx context.Context, options dockercontainer.ListOptions) ([]dockercontainer.Summary, error)
}

// DockerRuntime implements StackRuntime with the Docker Engine API.
// The client is created on first use, so stackhand starts without a daemon.
type DockerRuntime struct {
	client *lazy.Lazy[ContainerLister]
}

// NewDockerRuntime creates a runtime talking to host. An empty host uses
// DOCKER_HOST or the platform default socket.
func NewDockerRuntime(host string) *DockerRuntime {
	return &DockerRuntime{
		client: lazy.New(func(ctx context.Context) (ContainerLister, error) {
			opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
			if host != "" {
				opts = append(opts, client.WithHost(host))
			}
			c, err := client.NewClientWithOpts(opts...)
			if err != nil {
				return nil, errors.RuntimeUnavailable(err)
			}
			return c, nil
		}),
	}
}

// NewDockerRuntimeWithClient creates a runtime over an existing client
func NewDockerRuntimeWithClient(c ContainerLister) *DockerRuntime {
	return &DockerRuntime{client: lazy.Of(c)}
}

// ActiveStacks returns the compose projects with running containers
func (r *DockerRuntime) ActiveStacks(ctx context.Context) ([]ActiveStack, error) {
	labelSets, err := r.listLabels(ctx, false, filters.Arg("label", constants.LabelComposeProject))
	if err != nil {
		LogRuntimeWarning(err, "active_stacks")
		return nil, err
	}
	return groupByProject(labelSets), nil
}

// ProjectHints returns where project was started from
func (r *DockerRuntime) ProjectHints(ctx context.Context, project string) (*PathHints, error) {
	labelSets, err := r.listLabels(ctx, true,
		filters.Arg("label", constants.LabelComposeProject+"="+project))
	if err != nil {
		LogRuntimeWarning(err, "project_hints")
		return nil, err
	}
	return hintsFromLabels(labelSets), nil
}

// IsAvailable checks if the Docker daemon answers
func (r *DockerRuntime) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRuntimeTimeout)
	defer cancel()

	c, err := r.client.Get(ctx)
	if err != nil {
		return false
	}
	_, err = c.ContainerList(ctx, dockercontainer.ListOptions{Limit: 1})
	return err == nil
}

func (r *DockerRuntime) listLabels(ctx context.Context, all bool, args ...filters.KeyValuePair) ([]map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRuntimeTimeout)
	defer cancel()

	c, err := r.client.Get(ctx)
	if err != nil {
		return nil, err
	}

	containers, err := c.ContainerList(ctx, dockercontainer.ListOptions{
		All:     all,
		Filters: filters.NewArgs(args...),
	})
	if err != nil {
		return nil, errors.RuntimeUnavailable(err).WithContext("type", string(classifyError(err)))
	}

	labelSets := make([]map[string]string, 0, len(containers))
	for _, ctr := range containers {
		labelSets = append(labelSets, ctr.Labels)
	}
	return labelSets, nil
}
