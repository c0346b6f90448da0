package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func findManifest(t *testing.T, dir string) (string, bool) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return FindManifest(entries)
}

func TestFindManifestPriority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "docker-compose.yml"), "services: {}\n")
	writeFile(t, filepath.Join(dir, "compose.yml"), "services: {}\n")

	name, ok := findManifest(t, dir)
	assert.True(t, ok)
	assert.Equal(t, "compose.yml", name)

	writeFile(t, filepath.Join(dir, "compose.yaml"), "services: {}\n")
	name, _ = findManifest(t, dir)
	assert.Equal(t, "compose.yaml", name)
}

func TestFindManifestIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "compose.yaml"), 0755))

	_, ok := findManifest(t, dir)
	assert.False(t, ok)
}

func TestHasEnvFile(t *testing.T) {
	dir := t.TempDir()
	entries, _ := os.ReadDir(dir)
	assert.False(t, HasEnvFile(entries))

	writeFile(t, filepath.Join(dir, ".env"), "A=1\n")
	entries, _ = os.ReadDir(dir)
	assert.True(t, HasEnvFile(entries))
}

func TestNormalizeProjectName(t *testing.T) {
	assert.Equal(t, "mediaserver", NormalizeProjectName("Media Server"))
	assert.Equal(t, "my_app-2", NormalizeProjectName("My_App-2"))
	assert.Equal(t, "app", NormalizeProjectName("-_app"))
	assert.Equal(t, "appv2", NormalizeProjectName("app.v2"))
}

func TestProjectName(t *testing.T) {
	root := t.TempDir()

	named := filepath.Join(root, "Stack-One", "compose.yaml")
	writeFile(t, named, "name: custom\nservices:\n  web:\n    image: nginx\n")
	assert.Equal(t, "custom", ProjectName(named))

	unnamed := filepath.Join(root, "Stack-Two", "compose.yaml")
	writeFile(t, unnamed, "services:\n  web:\n    image: nginx\n")
	assert.Equal(t, "stack-two", ProjectName(unnamed))

	broken := filepath.Join(root, "Broken", "compose.yaml")
	writeFile(t, broken, "services: [\n")
	assert.Equal(t, "broken", ProjectName(broken))
}

func TestParseManifestName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compose.yaml")
	writeFile(t, path, "name: Media\nservices:\n  web:\n    image: nginx\n")

	manifest, err := ParseManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "Media", manifest.Name)

	_, err = ParseManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseEnvFile(t *testing.T) {
	content := "# comment\nZED=last\n\nALPHA=1\nexport QUOTED=\"hello world\"\nEMPTY=\nALPHA=2\n"

	vars, err := ParseEnvFile(content)
	require.NoError(t, err)
	assert.Equal(t, []EnvVar{
		{Key: "ZED", Value: "last"},
		{Key: "ALPHA", Value: "2"},
		{Key: "QUOTED", Value: "hello world"},
		{Key: "EMPTY", Value: ""},
	}, vars)
}

func TestParseEnvFileEmpty(t *testing.T) {
	vars, err := ParseEnvFile("")
	require.NoError(t, err)
	assert.Empty(t, vars)
}
