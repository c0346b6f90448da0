package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"stackhand/internal/compose"
	"stackhand/internal/logger"
)

// skippedDirs are never descended into
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Scanner looks for directories containing a compose manifest. It only
// reads the filesystem.
type Scanner struct{}

// NewScanner creates a Scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanConfigured scans configured roots. Each root and its direct child
// directories are examined; nothing deeper.
func (s *Scanner) ScanConfigured(roots []string) ScanResult {
	sc := newScan()
	for _, root := range roots {
		root = filepath.Clean(root)
		entries, ok := sc.readDir(root)
		if !ok {
			continue
		}
		sc.examine(root, entries)

		for _, e := range entries {
			if !e.IsDir() || skippedDirs[e.Name()] {
				continue
			}
			child := filepath.Join(root, e.Name())
			if childEntries, ok := sc.readDir(child); ok {
				sc.examine(child, childEntries)
			}
		}
	}
	return sc.result()
}

// ScanPath scans root recursively. Symlinked directories are not followed,
// and neither are .git and node_modules. A directory holding a manifest is
// not descended into, so a stack nested inside another stack's directory is
// not reported; scan the nested directory directly to find it.
func (s *Scanner) ScanPath(root string) ScanResult {
	sc := newScan()
	sc.walk(filepath.Clean(root))
	return sc.result()
}

// Inspect examines a single directory. It returns nil when dir holds no
// manifest.
func (s *Scanner) Inspect(dir string) (*StackCandidate, error) {
	dir = filepath.Clean(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sc := newScan()
	if !sc.examine(dir, entries) {
		return nil, nil
	}
	return &sc.discovered[0], nil
}

type scan struct {
	discovered []StackCandidate
	errors     []string
	seen       map[string]bool
}

func newScan() *scan {
	return &scan{
		discovered: []StackCandidate{},
		errors:     []string{},
		seen:       make(map[string]bool),
	}
}

func (sc *scan) result() ScanResult {
	return ScanResult{Discovered: sc.discovered, Skipped: []StackCandidate{}, Errors: sc.errors}
}

func (sc *scan) readDir(dir string) ([]os.DirEntry, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		msg := fmt.Sprintf("Failed to scan %s: %v", dir, unwrapPathError(err))
		sc.errors = append(sc.errors, msg)
		logger.WithField("path", dir).Debug(msg)
		return nil, false
	}
	return entries, true
}

// examine records dir as a candidate if it holds a manifest
func (sc *scan) examine(dir string, entries []os.DirEntry) bool {
	manifest, ok := compose.FindManifest(entries)
	if !ok {
		return false
	}

	composePath := filepath.Join(dir, manifest)
	if sc.seen[composePath] {
		return true
	}
	sc.seen[composePath] = true

	candidate := StackCandidate{
		Name:        filepath.Base(dir),
		ComposePath: composePath,
		WorkingDir:  dir,
	}
	if compose.HasEnvFile(entries) {
		candidate.EnvPath = filepath.Join(dir, compose.EnvFileName)
	}
	sc.discovered = append(sc.discovered, candidate)
	return true
}

func (sc *scan) walk(dir string) {
	entries, ok := sc.readDir(dir)
	if !ok {
		return
	}
	if sc.examine(dir, entries) {
		return
	}

	for _, e := range entries {
		// DirEntry.IsDir is false for symlinks, so links are not followed
		if !e.IsDir() || skippedDirs[e.Name()] {
			continue
		}
		sc.walk(filepath.Join(dir, e.Name()))
	}
}

func unwrapPathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}
