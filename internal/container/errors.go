package container

import (
	"strings"
)

// ErrorType represents the type of runtime error
type ErrorType string

const (
	// ErrorTypeRuntimeNotFound indicates the daemon could not be reached
	ErrorTypeRuntimeNotFound ErrorType = "runtime_not_found"
	// ErrorTypePermissionDenied indicates the socket is not accessible
	ErrorTypePermissionDenied ErrorType = "permission_denied"
	// ErrorTypeTimeout indicates the daemon did not answer in time
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnknown indicates an unknown error
	ErrorTypeUnknown ErrorType = "unknown"
)

// classifyError attempts to determine the error type from a client error
func classifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "permission denied"):
		return ErrorTypePermissionDenied
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return ErrorTypeTimeout
	case strings.Contains(msg, "cannot connect to the docker daemon") ||
		strings.Contains(msg, "no such file or directory") ||
		strings.Contains(msg, "connection refused"):
		return ErrorTypeRuntimeNotFound
	default:
		return ErrorTypeUnknown
	}
}
