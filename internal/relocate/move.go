package relocate

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"stackhand/internal/errors"
)

// outcome tags how a single entry left the source directory
type outcome int

const (
	outcomeMoved outcome = iota
	outcomeCopied
	outcomeFailed
)

func (o outcome) String() string {
	switch o {
	case outcomeMoved:
		return "moved"
	case outcomeCopied:
		return "copied"
	default:
		return "failed"
	}
}

type moveResult struct {
	outcome outcome
	message string
}

func failed(format string, args ...interface{}) moveResult {
	return moveResult{outcome: outcomeFailed, message: fmt.Sprintf(format, args...)}
}

// moveEntry moves src to dst. A rename is tried first; only a cross-device
// failure falls back to copy and delete. The source is removed only after
// the destination has been written, synced and renamed into place.
func (r *Relocator) moveEntry(name, src, dst string) moveResult {
	err := r.rename(src, dst)
	if err == nil {
		return moveResult{outcome: outcomeMoved}
	}
	if !stderrors.Is(err, syscall.EXDEV) {
		return failed("Failed to move %s: %v", name, err)
	}

	if err := copyEntry(name, src, dst); err != nil {
		return failed("Failed to copy %s: %v", name, err)
	}

	if err := os.Remove(src); err != nil {
		// Both copies exist now; a later run overwrites the destination.
		return failed("Copied %s but failed to remove source: %v", name, err)
	}

	return moveResult{outcome: outcomeCopied}
}

// copyEntry recreates src at dst on another filesystem
func copyEntry(name, src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return copySymlink(src, dst)
	case mode.IsDir():
		return errors.CrossDeviceFallbackFailed(name,
			fmt.Errorf("directories cannot be copied across filesystems"))
	case mode.IsRegular():
		return copyFile(src, dst, info)
	default:
		return errors.CrossDeviceFallbackFailed(name,
			fmt.Errorf("unsupported file type %s", mode.Type()))
	}
}

// copyFile writes src into a temp file next to dst and renames it over dst,
// so dst is either the old content or the complete new content.
func copyFile(src, dst string, info os.FileInfo) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".stackhand-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		return err
	}

	return os.Rename(tmpPath, dst)
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}

	tmpPath := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".stackhand-link")
	os.Remove(tmpPath)
	if err := os.Symlink(target, tmpPath); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
