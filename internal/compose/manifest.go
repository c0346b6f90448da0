// Package compose knows how stack directories are laid out: which file names
// count as a compose manifest and how docker compose derives a project name.
package compose

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestNames lists recognised manifest file names in priority order.
// When a directory holds several, the first one listed wins.
var ManifestNames = []string{
	"compose.yaml",
	"compose.yml",
	"docker-compose.yaml",
	"docker-compose.yml",
}

// EnvFileName is the env file docker compose reads next to the manifest
const EnvFileName = ".env"

// Manifest holds the parts of a compose file stackhand cares about
type Manifest struct {
	Name string `yaml:"name"`
}

// ParseManifest reads and parses the compose file at path
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading compose file: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing compose file: %w", err)
	}

	return &manifest, nil
}

// FindManifest picks the manifest among a directory's entries.
// Directories named like a manifest are ignored.
func FindManifest(entries []fs.DirEntry) (string, bool) {
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			present[e.Name()] = true
		}
	}
	for _, name := range ManifestNames {
		if present[name] {
			return name, true
		}
	}
	return "", false
}

// HasEnvFile reports whether entries include a .env file
func HasEnvFile(entries []fs.DirEntry) bool {
	for _, e := range entries {
		if e.Name() == EnvFileName && !e.IsDir() {
			return true
		}
	}
	return false
}

var projectNameInvalidChars = regexp.MustCompile(`[^a-z0-9_-]`)

// NormalizeProjectName applies docker compose's project name rules:
// lowercase, only [a-z0-9_-], starting with a letter or digit.
func NormalizeProjectName(name string) string {
	name = projectNameInvalidChars.ReplaceAllString(strings.ToLower(name), "")
	return strings.TrimLeft(name, "_-")
}

// ProjectName returns the compose project name for the manifest at
// composePath: the manifest's top-level name key if set, otherwise the
// normalised name of its directory. An unreadable manifest falls back to
// the directory name.
func ProjectName(composePath string) string {
	if manifest, err := ParseManifest(composePath); err == nil && manifest.Name != "" {
		return NormalizeProjectName(manifest.Name)
	}
	return NormalizeProjectName(filepath.Base(filepath.Dir(composePath)))
}
