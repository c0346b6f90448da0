package files

import (
	"os"
	"path/filepath"
	"testing"

	"stackhand/internal/constants"
	"stackhand/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrdersDirectoriesFirst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bb"), 0640))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "zdir"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "adir"), 0700))
	require.NoError(t, os.Chmod(filepath.Join(dir, "b.txt"), 0640))
	require.NoError(t, os.Chmod(filepath.Join(dir, "adir"), 0700))

	listing, err := NewBrowser().List(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(listing.Entries))
	for _, e := range listing.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"adir", "zdir", "a.txt", "b.txt"}, names)

	assert.Equal(t, KindDirectory, listing.Entries[0].Kind)
	assert.Equal(t, "700", listing.Entries[0].Mode)
	assert.Equal(t, KindFile, listing.Entries[3].Kind)
	assert.Equal(t, int64(2), listing.Entries[3].Size)
	assert.Equal(t, "640", listing.Entries[3].Mode)
	assert.Equal(t, filepath.Join(dir, "a.txt"), listing.Entries[2].Path)

	require.NotNil(t, listing.Parent)
	assert.Equal(t, filepath.Dir(dir), *listing.Parent)
}

func TestListRootHasNoParent(t *testing.T) {
	listing, err := NewBrowser().List("")
	require.NoError(t, err)
	assert.Equal(t, "/", listing.Path)
	assert.Nil(t, listing.Parent)
}

func TestListSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0755))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling")))

	listing, err := NewBrowser().List(dir)
	require.NoError(t, err)

	// The dangling link cannot be stat'ed and is left out
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, "target", listing.Entries[0].Name)
	assert.Equal(t, "link", listing.Entries[1].Name)
	assert.Equal(t, KindSymlink, listing.Entries[1].Kind)
}

func TestListErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewBrowser().List(filepath.Join(dir, "missing"))
	assert.True(t, errors.HasCode(err, errors.ErrNotFound))

	_, err = NewBrowser().List(file)
	assert.True(t, errors.HasCode(err, errors.ErrNotADirectory))
}

func TestReadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compose.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0644))

	content, err := NewBrowser().ReadContent(path)
	require.NoError(t, err)
	assert.Equal(t, "services: {}\n", content.Content)
	assert.Equal(t, int64(13), content.Size)
	assert.Equal(t, path, content.Path)
}

func TestReadContentErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewBrowser().ReadContent(filepath.Join(dir, "missing"))
	assert.True(t, errors.HasCode(err, errors.ErrNotFound))

	_, err = NewBrowser().ReadContent(dir)
	assert.True(t, errors.HasCode(err, errors.ErrIsADirectory))

	_, err = NewBrowser().ReadContent("")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidPath))
}

func TestReadContentSizeLimit(t *testing.T) {
	dir := t.TempDir()

	exact := filepath.Join(dir, "exact")
	f, err := os.Create(exact)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(constants.MaxReadableFileSize))
	require.NoError(t, f.Close())

	content, err := NewBrowser().ReadContent(exact)
	require.NoError(t, err)
	assert.Len(t, content.Content, int(constants.MaxReadableFileSize))

	over := filepath.Join(dir, "over")
	f, err = os.Create(over)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(constants.MaxReadableFileSize+1))
	require.NoError(t, f.Close())

	_, err = NewBrowser().ReadContent(over)
	assert.True(t, errors.HasCode(err, errors.ErrFileTooLarge))
}
