package server

import (
	"net/http"

	"stackhand/internal/errors"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleListExternalPaths(c echo.Context) error {
	paths, err := s.ops.ListExternalPaths(c.Request().Context())
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, ExternalPathsResponse{Paths: paths})
}

func (s *Server) handleAddExternalPath(c echo.Context) error {
	var req PathRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err.Error())
	}

	path, err := s.ops.AddExternalPath(c.Request().Context(), req.Path)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, ExternalPathResponse{Path: path})
}

// handleRemoveExternalPath takes the path from ?path=
func (s *Server) handleRemoveExternalPath(c echo.Context) error {
	path := c.QueryParam("path")
	if err := s.ops.RemoveExternalPath(c.Request().Context(), path); err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, ExternalPathResponse{Path: path})
}
