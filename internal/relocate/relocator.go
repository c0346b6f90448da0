// Package relocate moves the files of a stack directory to a new directory.
package relocate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"stackhand/internal/constants"
	"stackhand/internal/errors"
	"stackhand/internal/logger"
	"stackhand/internal/types"
)

// RenameFunc has the signature of os.Rename
type RenameFunc func(oldpath, newpath string) error

// Relocator moves every direct entry of a source directory into a
// destination directory, falling back to copy and delete across filesystems.
// It does no locking; callers serialise relocations of the same stack.
type Relocator struct {
	rename RenameFunc
}

// New creates a Relocator backed by os.Rename
func New() *Relocator {
	return &Relocator{rename: os.Rename}
}

// NewWithRename creates a Relocator that uses rename for the first move
// attempt of each entry
func NewWithRename(rename RenameFunc) *Relocator {
	return &Relocator{rename: rename}
}

// Relocate executes plan. Only setup failures are returned as errors;
// per-entry failures are reported in the Result. Running the same plan again
// after a partial failure only touches entries still left in the source.
func (r *Relocator) Relocate(plan Plan) (*Result, error) {
	if plan.SourceDir == "" || plan.DestinationComposePath == "" {
		return nil, errors.InvalidInput("relocation plan", "oldDir and newComposePath are required")
	}
	if !filepath.IsAbs(plan.SourceDir) || !filepath.IsAbs(plan.DestinationComposePath) {
		return nil, errors.InvalidPath(plan.SourceDir, "source and destination must be absolute")
	}

	sourceDir := filepath.Clean(plan.SourceDir)
	destDir := filepath.Clean(plan.DestinationDir())

	info, err := os.Stat(sourceDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, errors.SourceMissing(sourceDir)
	case err != nil:
		return nil, errors.FromStat(sourceDir, err)
	case !info.IsDir():
		return nil, errors.SourceMissing(sourceDir)
	}

	var batch types.Batch[string]
	if sourceDir == destDir {
		// Renaming an entry onto itself is a successful no-op.
		entries, err := os.ReadDir(sourceDir)
		if err != nil {
			return nil, errors.FromStat(sourceDir, err)
		}
		for _, entry := range entries {
			batch.Succeed(entry.Name())
		}
		return newResult(&batch), nil
	}

	if err := os.MkdirAll(destDir, constants.DirPermissions); err != nil {
		return nil, errors.FromStat(destDir, err).WithContext("destination", destDir)
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, errors.FromStat(sourceDir, err)
	}

	log := logger.WithFields(logger.Fields{"source": sourceDir, "destination": destDir})

	for _, entry := range entries {
		name := entry.Name()
		src := filepath.Join(sourceDir, name)
		dst := filepath.Join(destDir, name)

		if src == destDir || strings.HasPrefix(destDir, src+string(filepath.Separator)) {
			batch.Fail(name, fmt.Sprintf("Failed to move %s: destination is inside it", name))
			continue
		}

		res := r.moveEntry(name, src, dst)
		switch res.outcome {
		case outcomeMoved, outcomeCopied:
			batch.Succeed(name)
			log.WithField("file", name).Debugf("entry %s", res.outcome)
		default:
			batch.Fail(name, res.message)
			log.WithField("file", name).Warn(res.message)
		}
	}

	result := newResult(&batch)
	result.SourceDirRemoved = removeIfEmpty(sourceDir)
	return result, nil
}

// removeIfEmpty deletes dir when nothing is left in it. Failures leave an
// empty directory behind, which is harmless.
func removeIfEmpty(dir string) bool {
	remaining, err := os.ReadDir(dir)
	if err != nil || len(remaining) > 0 {
		return false
	}
	return os.Remove(dir) == nil
}
