package server

import (
	"stackhand/internal/operations"
)

// HealthResponse represents the /health payload
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	Database      string `json:"database"`
	SchemaVersion uint   `json:"schemaVersion,omitempty"`
	Runtime       string `json:"runtime"`
}

// BasePathResponse represents the default stacks directory
type BasePathResponse struct {
	BasePath string `json:"basePath"`
}

// PathRequest is the body of validate-path and external path requests
type PathRequest struct {
	Path string `json:"path"`
}

// ExternalPathsResponse lists the configured scan roots
type ExternalPathsResponse struct {
	Paths []operations.ExternalPathInfo `json:"paths"`
}

// ExternalPathResponse names a scan root that was added or removed
type ExternalPathResponse struct {
	Path string `json:"path"`
}
