package server

import (
	"net/http"

	"stackhand/internal/errors"
	"stackhand/internal/logger"
	"stackhand/internal/operations"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleBasePath(c echo.Context) error {
	return c.JSON(http.StatusOK, BasePathResponse{BasePath: s.ops.BasePath()})
}

func (s *Server) handlePathHints(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return errors.HandleError(c, errors.InvalidInput("name", "Stack name is required"))
	}
	envID, err := envParam(c)
	if err != nil {
		return errors.HandleError(c, err)
	}

	hints, err := s.ops.PathHints(c.Request().Context(), name, envID)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, hints)
}

// handleScanStacks scans the configured external paths, or the path given
// in the body
func (s *Server) handleScanStacks(c echo.Context) error {
	var req operations.ScanRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err.Error())
	}

	result, err := s.ops.ScanStacks(c.Request().Context(), req)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// handleValidatePath always answers 200; an unusable path is reported with
// valid=false and the reason
func (s *Server) handleValidatePath(c echo.Context) error {
	var req PathRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err.Error())
	}

	result, err := s.ops.ValidatePath(c.Request().Context(), req.Path)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleAdoptStacks(c echo.Context) error {
	var req operations.AdoptRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err.Error())
	}

	result, err := s.ops.AdoptStacks(c.Request().Context(), req)
	if err != nil {
		return errors.HandleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// handleRelocateStack moves a stack's files. When files were moved but the
// record could not be updated, the relocation result is still returned with
// the error's status so the caller can see what happened on disk.
func (s *Server) handleRelocateStack(c echo.Context) error {
	var req operations.RelocateRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err.Error())
	}
	req.Name = c.Param("name")

	envID, err := envParam(c)
	if err != nil {
		return errors.HandleError(c, err)
	}
	req.EnvironmentID = envID

	resp, err := s.ops.RelocateStack(c.Request().Context(), req)
	if err != nil {
		if resp == nil {
			return errors.HandleError(c, err)
		}
		status, _ := errors.Response(err)
		logger.GetLogger(c).WithError(err).WithField("stack", req.Name).Warn("Relocation finished without updating the stack record")
		return c.JSON(status, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
