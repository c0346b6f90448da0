package errors

import (
	"fmt"
	"io/fs"
)

// Filesystem Errors
func NotFound(path string) *StackError {
	return NewWithDetails(ErrNotFound, "Path not found", fmt.Sprintf("Path: %s", path))
}

func NotADirectory(path string) *StackError {
	return NewWithDetails(ErrNotADirectory, "Not a directory", fmt.Sprintf("Path: %s", path))
}

func IsADirectory(path string) *StackError {
	return NewWithDetails(ErrIsADirectory, "Cannot read directory as file", fmt.Sprintf("Path: %s", path))
}

func PermissionDenied(path string, cause error) *StackError {
	return WrapWithDetails(ErrPermissionDenied, "Permission denied", fmt.Sprintf("Path: %s", path), cause)
}

func FileTooLarge(path string, size, limit int64) *StackError {
	return NewWithDetails(ErrFileTooLarge, "File too large",
		fmt.Sprintf("Path: %s, Size: %d, Max: %dMB", path, size, limit/1024/1024))
}

func SourceMissing(dir string) *StackError {
	return NewWithDetails(ErrSourceMissing, "Source directory does not exist", fmt.Sprintf("Path: %s", dir))
}

func CrossDeviceFallbackFailed(name string, cause error) *StackError {
	return WrapWithDetails(ErrCrossDeviceFallbackFailed, "Cross-device copy failed",
		fmt.Sprintf("File: %s", name), cause)
}

// FromStat classifies an error returned by os.Stat / os.ReadDir for path.
func FromStat(path string, err error) *StackError {
	switch {
	case Is(err, fs.ErrNotExist):
		return NotFound(path).WithCause(err)
	case Is(err, fs.ErrPermission):
		return PermissionDenied(path, err)
	default:
		return WrapWithDetails(ErrFileSystem, "Filesystem error", fmt.Sprintf("Path: %s", path), err)
	}
}

// Validation Errors
func InvalidInput(input, expected string) *StackError {
	return NewWithDetails(ErrInvalidInput, "Invalid input",
		fmt.Sprintf("Input: %s, Expected: %s", input, expected))
}

func InvalidPath(path, reason string) *StackError {
	return NewWithDetails(ErrInvalidPath, "Invalid path",
		fmt.Sprintf("Path: %s, Reason: %s", path, reason))
}

func OverlapConflict(path, existing string) *StackError {
	return NewWithDetails(ErrOverlapConflict, "Path overlaps an existing path",
		fmt.Sprintf("Path: %s, Existing: %s", path, existing))
}

// Inventory Errors
func StackNotFound(name string) *StackError {
	return NewWithDetails(ErrStackNotFound, "Stack not found", fmt.Sprintf("Stack: %s", name))
}

func PersistenceFailure(name string, cause error) *StackError {
	return WrapWithDetails(ErrPersistenceFailure, "Failed to persist stack",
		fmt.Sprintf("Stack: %s", name), cause)
}

func ManifestNotMoved(path string) *StackError {
	return NewWithDetails(ErrManifestNotMoved, "Compose file is missing at destination, record not updated",
		fmt.Sprintf("Path: %s", path))
}

func DatabaseConnectionError(cause error) *StackError {
	return Wrap(ErrDatabaseConnection, "Database connection failed", cause)
}

func DatabaseMigrationError(cause error) *StackError {
	return Wrap(ErrDatabaseMigration, "Database migration failed", cause)
}

func RuntimeUnavailable(cause error) *StackError {
	return Wrap(ErrRuntimeUnavailable, "Container runtime is not available", cause)
}

// Configuration Errors
func ConfigInvalid(reason string) *StackError {
	return NewWithDetails(ErrConfigInvalid, "Invalid configuration", reason)
}

func ConfigParseError(cause error) *StackError {
	return Wrap(ErrConfigParse, "Failed to parse configuration", cause)
}

// Access Errors
func Unauthorized() *StackError {
	return New(ErrUnauthorized, "Unauthorized")
}

func Forbidden(resource, action string) *StackError {
	return NewWithDetails(ErrForbidden, "Permission denied",
		fmt.Sprintf("Resource: %s, Action: %s", resource, action))
}

// Internal Errors
func InternalError(details string, cause error) *StackError {
	if cause != nil {
		return WrapWithDetails(ErrInternal, "Internal error", details, cause)
	}
	return NewWithDetails(ErrInternal, "Internal error", details)
}
