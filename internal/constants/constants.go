// Package constants defines application-wide constants to avoid magic numbers
package constants

import "time"

// AppName is used for XDG directories, env var prefixes and the CLI root.
const AppName = "stackhand"

// Network and Port Constants
const (
	// DefaultServerPort is the default port for the stackhand API server
	DefaultServerPort = 8080

	// DefaultServerHost binds to loopback unless configured otherwise
	DefaultServerHost = "localhost"
)

// File System Permissions
const (
	// DirPermissions is used when creating stack and data directories
	DirPermissions = 0755

	// FilePermissions is used for config files
	FilePermissions = 0644
)

// File browsing limits
const (
	// MaxReadableFileSize is the largest file ReadContent will return (10 MiB)
	MaxReadableFileSize int64 = 10 * 1024 * 1024
)

// Database Configuration
const (
	DefaultMaxOpenConnections = 1
	DefaultMaxIdleConnections = 1
	DefaultConnectionLifetime = 5 * time.Minute
	DefaultPingTimeout        = 5 * time.Second
)

// HTTP Configuration
const (
	DefaultServerReadTimeout     = 30 * time.Second
	DefaultServerWriteTimeout    = 60 * time.Second
	DefaultServerShutdownTimeout = 15 * time.Second

	// MaxRequestBodySize bounds JSON request bodies
	MaxRequestBodySize = "2M"
)

// Container runtime
const (
	// DefaultRuntimeTimeout bounds a single query against the Docker daemon
	DefaultRuntimeTimeout = 5 * time.Second
)

// Compose labels set by docker compose on every container it creates
const (
	LabelComposeProject     = "com.docker.compose.project"
	LabelComposeWorkingDir  = "com.docker.compose.project.working_dir"
	LabelComposeConfigFiles = "com.docker.compose.project.config_files"
)
