package server

import (
	"net/http"
	"strconv"
	"time"

	"stackhand/internal/errors"

	"github.com/labstack/echo/v4"
)

// Permission resources and actions checked by the routes
const (
	resourceStacks   = "stacks"
	resourceSettings = "settings"
	actionCreate     = "create"
	actionEdit       = "edit"
)

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("/api")

	stacks := api.Group("/stacks")
	stacks.GET("/base-path", s.handleBasePath)
	stacks.GET("/path-hints", s.handlePathHints, s.requireAuth())
	stacks.POST("/scan", s.handleScanStacks, s.requirePermission(resourceStacks, actionCreate))
	stacks.POST("/adopt", s.handleAdoptStacks, s.requirePermission(resourceStacks, actionCreate))
	stacks.POST("/validate-path", s.handleValidatePath, s.requirePermission(resourceSettings, actionEdit))
	stacks.POST("/:name/relocate", s.handleRelocateStack, s.requirePermission(resourceStacks, actionEdit))

	system := api.Group("/system", s.requirePermission(resourceStacks, actionEdit))
	system.GET("/files", s.handleListFiles)
	system.GET("/files/content", s.handleReadFile)

	settings := api.Group("/settings", s.requirePermission(resourceSettings, actionEdit))
	settings.GET("/external-paths", s.handleListExternalPaths)
	settings.POST("/external-paths", s.handleAddExternalPath)
	settings.DELETE("/external-paths", s.handleRemoveExternalPath)
}

// handleHealth reports service health. The database and runtime are
// reported separately; only a database failure degrades the status.
func (s *Server) handleHealth(c echo.Context) error {
	ctx := c.Request().Context()
	resp := HealthResponse{
		Status:   "healthy",
		Version:  Version,
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
		Database: "unknown",
		Runtime:  "unknown",
	}

	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			resp.Database = "unhealthy"
			resp.Status = "degraded"
		} else {
			resp.Database = "healthy"
			if v, _, err := s.db.SchemaVersion(ctx); err == nil {
				resp.SchemaVersion = v
			}
		}
	}

	if s.runtime != nil {
		if s.runtime.IsAvailable(ctx) {
			resp.Runtime = "healthy"
		} else {
			resp.Runtime = "unavailable"
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// envParam parses the optional ?env= query parameter
func envParam(c echo.Context) (*int64, error) {
	raw := c.QueryParam("env")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.InvalidInput(raw, "a positive environment id")
	}
	return &id, nil
}
