package container

import (
	"stackhand/internal/errors"
	"stackhand/internal/logger"
)

// LogRuntimeWarning logs a runtime query failure with structured fields
func LogRuntimeWarning(err error, operation string) {
	if err == nil {
		return
	}

	fields := logger.Fields{
		"operation": operation,
	}

	var se *errors.StackError
	if errors.As(err, &se) {
		if t, ok := se.Context["type"]; ok {
			fields["error_type"] = t
		}
	}

	logger.WithFields(fields).WithError(err).Warn("Container runtime query failed")
}
