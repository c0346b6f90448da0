package validation

import (
	"regexp"
	"strings"

	"stackhand/internal/errors"
)

// stackNameRegex matches directory base names usable as stack names
var stackNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// StackName validates a stack name taken from a URL or CLI argument
func StackName(name string) error {
	if name == "" {
		return errors.InvalidInput(name, "stack name cannot be empty")
	}

	if len(name) > 255 {
		return errors.InvalidInput(name, "stack name too long (max 255 characters)")
	}

	if !stackNameRegex.MatchString(name) {
		return errors.InvalidInput(name, "letters, digits, '.', '_' or '-', starting with a letter or digit")
	}

	return nil
}

// EnvironmentID validates an environment id; ids are positive
func EnvironmentID(id int64) error {
	if id <= 0 {
		return errors.InvalidInput("environmentId", "a positive environment id")
	}
	return nil
}

// NonEmptyString validates that a string is not empty or only whitespace
func NonEmptyString(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.InvalidInput(field, "a non-empty value")
	}
	return nil
}
