// Package files provides read-only browsing of the host filesystem for
// picking stack locations.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"stackhand/internal/constants"
	"stackhand/internal/errors"
)

// EntryKind classifies a directory entry
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
	KindSymlink   EntryKind = "symlink"
)

// Entry is one item of a directory listing
type Entry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Kind    EntryKind `json:"type"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
	Mode    string    `json:"mode"`
}

// Listing is the result of List. Parent is nil at the filesystem root.
type Listing struct {
	Path    string  `json:"path"`
	Parent  *string `json:"parent"`
	Entries []Entry `json:"entries"`
}

// Content is the result of ReadContent
type Content struct {
	Path    string    `json:"path"`
	Content string    `json:"content"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// Browser lists directories and reads small files
type Browser struct {
	maxFileSize int64
}

// NewBrowser creates a Browser that refuses files over MaxReadableFileSize
func NewBrowser() *Browser {
	return &Browser{maxFileSize: constants.MaxReadableFileSize}
}

// List returns the entries of path, directories first, then by name.
// An empty path lists the filesystem root. Entries that cannot be
// stat'ed are left out.
func (b *Browser) List(path string) (*Listing, error) {
	if path == "" {
		path = string(filepath.Separator)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.FromStat(path, err)
	}
	if !info.IsDir() {
		return nil, errors.NotADirectory(path)
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.FromStat(path, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		full := filepath.Join(path, de.Name())
		lst, err := os.Lstat(full)
		if err != nil {
			continue
		}

		kind := KindFile
		switch {
		case lst.Mode()&os.ModeSymlink != 0:
			kind = KindSymlink
		case lst.IsDir():
			kind = KindDirectory
		}

		// Size, time and mode describe the link target, like ls -L
		st, err := os.Stat(full)
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    full,
			Kind:    kind,
			Size:    st.Size(),
			ModTime: st.ModTime(),
			Mode:    fmt.Sprintf("%03o", st.Mode().Perm()),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Kind == KindDirectory, entries[j].Kind == KindDirectory
		if di != dj {
			return di
		}
		return entries[i].Name < entries[j].Name
	})

	listing := &Listing{Path: path, Entries: entries}
	if parent := filepath.Dir(path); parent != path {
		listing.Parent = &parent
	}

	return listing, nil
}

// ReadContent returns the text of the regular file at path.
func (b *Browser) ReadContent(path string) (*Content, error) {
	if path == "" {
		return nil, errors.InvalidPath(path, "path is required")
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.FromStat(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.IsADirectory(path)
	}
	if info.Size() > b.maxFileSize {
		return nil, errors.FileTooLarge(path, info.Size(), b.maxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FromStat(path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, b.maxFileSize))
	if err != nil {
		return nil, errors.FromStat(path, err)
	}

	return &Content{
		Path:    path,
		Content: string(data),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
