package compose

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// EnvVar is one variable from a .env file
type EnvVar struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	IsSecret bool   `json:"isSecret"`
}

// ParseEnvFile parses .env content. Variables are returned in the order
// their keys first appear; when a key repeats, the last value wins.
func ParseEnvFile(content string) ([]EnvVar, error) {
	values, err := godotenv.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing env file: %w", err)
	}

	vars := make([]EnvVar, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, key := range keyOrder(content) {
		value, ok := values[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		vars = append(vars, EnvVar{Key: key, Value: value})
	}

	// Keys the line scan could not place, e.g. from multi-line values
	var rest []string
	for key := range values {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		vars = append(vars, EnvVar{Key: key, Value: values[key]})
	}

	return vars, nil
}

func keyOrder(content string) []string {
	var keys []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		idx := strings.IndexAny(line, "=:")
		if idx <= 0 {
			continue
		}
		keys = append(keys, strings.TrimSpace(line[:idx]))
	}
	return keys
}
