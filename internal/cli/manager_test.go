package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"stackhand/internal/config"
	"stackhand/internal/db"
	"stackhand/internal/errors"
	"stackhand/internal/operations"
	"stackhand/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const composeYAML = "services:\n  web:\n    image: nginx\n"

func newTestManager(t *testing.T) (*Manager, *db.StackRepository, *config.GlobalConfig) {
	t.Helper()
	database := testutil.SetupTestDB(t)

	cfg := config.DefaultGlobalConfig()
	cfg.Storage.StacksPath = filepath.Join(t.TempDir(), "stacks")
	cfg.Storage.DatabasePath = ":memory:"

	stacks := db.NewStackRepository(database)
	ops := operations.NewStackOperations(cfg, stacks, db.NewExternalPathRepository(database), testutil.NewMockRuntime())
	return New(ops, nil, "localhost", 8080), stacks, cfg
}

func run(t *testing.T, m *Manager, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	m.Root().SetOut(&out)
	m.Root().SetErr(&out)
	err := m.ExecuteWithContext(context.Background(), args)
	return out.String(), err
}

func TestBasePathCommand(t *testing.T) {
	m, _, cfg := newTestManager(t)

	out, err := run(t, m, "base-path")
	require.NoError(t, err)
	assert.Equal(t, cfg.Storage.StacksPath+"\n", out)
}

func TestServerCommandOnlyWithServeFunc(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, _, err := m.Root().Find([]string{"server"})
	assert.Error(t, err)

	called := false
	withServe := New(nil, func(ctx context.Context, host string, port int) error {
		called = true
		assert.Equal(t, "0.0.0.0", host)
		assert.Equal(t, 9000, port)
		return nil
	}, "localhost", 8080)
	require.NoError(t, withServe.ExecuteWithContext(context.Background(), []string{"server", "--host", "0.0.0.0", "--port", "9000"}))
	assert.True(t, called)
}

func TestScanAdoptRelocate(t *testing.T) {
	m, stacks, _ := newTestManager(t)
	root := t.TempDir()
	webDir := testutil.WriteStack(t, filepath.Join(root, "web"), map[string]string{
		"compose.yaml": composeYAML,
		".env":         "TAG=1\n",
	})

	out, err := run(t, m, "scan", root)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, filepath.Join(webDir, "compose.yaml"))
	assert.Contains(t, out, "stopped")

	out, err = run(t, m, "adopt", "--env", "1", webDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Adopted web")

	stack, err := stacks.GetStackSource(context.Background(), "web", testutil.Int64Ptr(1))
	require.NoError(t, err)
	require.NotNil(t, stack.EnvPath)
	assert.Equal(t, filepath.Join(webDir, ".env"), *stack.EnvPath)

	newDir := filepath.Join(t.TempDir(), "moved")
	out, err = run(t, m, "relocate", "web", "--env", "1", "--from", webDir, "--to", filepath.Join(newDir, "compose.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "moved  compose.yaml")
	assert.Contains(t, out, "Stack record updated")

	_, err = os.Stat(filepath.Join(newDir, ".env"))
	assert.NoError(t, err)

	stack, err = stacks.GetStackSource(context.Background(), "web", testutil.Int64Ptr(1))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(newDir, "compose.yaml"), stack.ComposePath)
}

func TestAdoptRejectsDirectoryWithoutManifest(t *testing.T) {
	m, _, _ := newTestManager(t)
	dir := t.TempDir()

	_, err := run(t, m, "adopt", "--env", "1", dir)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInput))
}

func TestRelocateUnknownStack(t *testing.T) {
	m, _, _ := newTestManager(t)
	dir := testutil.WriteStack(t, t.TempDir(), map[string]string{"compose.yaml": composeYAML})

	_, err := run(t, m, "relocate", "ghost", "--from", dir, "--to", filepath.Join(t.TempDir(), "compose.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrStackNotFound))
}

func TestValidateCommand(t *testing.T) {
	m, _, _ := newTestManager(t)

	out, err := run(t, m, "validate", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	_, err = run(t, m, "validate", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_FOUND")
}

func TestPathsCommands(t *testing.T) {
	m, _, _ := newTestManager(t)
	dir := t.TempDir()

	out, err := run(t, m, "paths", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No external paths configured")

	out, err = run(t, m, "paths", "add", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Added "+dir)

	out, err = run(t, m, "paths", "list")
	require.NoError(t, err)
	assert.Contains(t, out, dir)
	assert.Contains(t, out, "database")

	_, err = run(t, m, "paths", "remove", dir)
	require.NoError(t, err)
}

func TestFileCommands(t *testing.T) {
	m, _, _ := newTestManager(t)
	dir := testutil.WriteStack(t, t.TempDir(), map[string]string{
		"compose.yaml": composeYAML,
		"conf/a.conf":  "x",
	})

	out, err := run(t, m, "ls", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "conf")
	assert.Contains(t, out, "compose.yaml")

	out, err = run(t, m, "cat", filepath.Join(dir, "compose.yaml"))
	require.NoError(t, err)
	assert.Equal(t, composeYAML, out)

	_, err = run(t, m, "cat", dir)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrIsADirectory))
}
