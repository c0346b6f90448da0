package validation

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"stackhand/internal/errors"
)

// PathResult is the outcome of validating a candidate stack storage path.
// Code and Reason are empty when Valid is true.
type PathResult struct {
	Valid        bool             `json:"valid"`
	Code         errors.ErrorCode `json:"code,omitempty"`
	Reason       string           `json:"error,omitempty"`
	OverlapsWith string           `json:"overlapsWith,omitempty"`
}

func invalid(code errors.ErrorCode, reason string) PathResult {
	return PathResult{Code: code, Reason: reason}
}

// StackPath decides whether path may be used as a stack storage location
// alongside existing. The checks short-circuit in this order: the path must
// be absolute, must exist, must be a directory, and must neither equal nor
// contain nor be contained by any existing path. Only stat calls are made.
func StackPath(path string, existing []string) PathResult {
	if path == "" || !filepath.IsAbs(path) {
		return invalid(errors.ErrInvalidPath, "Path must be absolute")
	}

	info, err := os.Stat(path)
	if err != nil {
		se := errors.FromStat(path, err)
		switch se.Code {
		case errors.ErrNotFound:
			return invalid(se.Code, "Path does not exist")
		case errors.ErrPermissionDenied:
			return invalid(se.Code, "Permission denied")
		default:
			return invalid(se.Code, err.Error())
		}
	}
	if !info.IsDir() {
		return invalid(errors.ErrNotADirectory, "Path is not a directory")
	}

	candidate := normalize(path)
	for _, other := range existing {
		if other == "" {
			continue
		}
		if overlaps(candidate, normalize(other)) {
			return PathResult{
				Code:         errors.ErrOverlapConflict,
				Reason:       "Path overlaps with existing path: " + other,
				OverlapsWith: other,
			}
		}
	}

	return PathResult{Valid: true}
}

// Overlaps reports whether a and b are equal or one contains the other.
func Overlaps(a, b string) bool {
	return overlaps(normalize(a), normalize(b))
}

func normalize(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	p = filepath.Clean(p)
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}

func overlaps(a, b string) bool {
	return a == b || isWithin(a, b) || isWithin(b, a)
}

// isWithin reports whether child lies strictly below parent. Both must be
// clean. "/data/a" is not within "/data/ab".
func isWithin(child, parent string) bool {
	if !strings.HasSuffix(parent, string(filepath.Separator)) {
		parent += string(filepath.Separator)
	}
	return strings.HasPrefix(child, parent)
}
