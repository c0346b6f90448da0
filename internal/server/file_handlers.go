package server

import (
	"net/http"

	"stackhand/internal/errors"

	"github.com/labstack/echo/v4"
)

// handleListFiles lists a directory on the host. An empty path lists "/".
func (s *Server) handleListFiles(c echo.Context) error {
	listing, err := s.ops.ListDirectory(c.QueryParam("path"))
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, listing)
}

func (s *Server) handleReadFile(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return errors.HandleError(c, errors.InvalidPath(path, "Path is required"))
	}

	content, err := s.ops.ReadFile(path)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, content)
}
