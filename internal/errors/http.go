package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorResponse represents the structure of error responses sent to clients
type HTTPErrorResponse struct {
	Error   string                 `json:"error"`
	Code    ErrorCode              `json:"code"`
	Details string                 `json:"details,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Response builds the response body and status for err.
// Errors that are not StackErrors are reported as internal errors with the
// underlying message preserved for diagnostics.
func Response(err error) (int, HTTPErrorResponse) {
	var se *StackError
	if As(err, &se) {
		return se.GetHTTPStatus(), HTTPErrorResponse{
			Error:   se.Message,
			Code:    se.Code,
			Details: se.Details,
			Context: se.Context,
		}
	}

	return http.StatusInternalServerError, HTTPErrorResponse{
		Error:   "Internal server error",
		Code:    ErrInternal,
		Details: err.Error(),
	}
}

// ToHTTPError converts an error to an Echo HTTP error
func ToHTTPError(err error) error {
	status, body := Response(err)
	return echo.NewHTTPError(status, body).SetInternal(err)
}

// HandleError is a helper function for consistent error handling in HTTP handlers
func HandleError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	status, body := Response(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(status, body)
}

// BadRequest creates a 400 Bad Request error
func BadRequest(message, details string) error {
	return echo.NewHTTPError(http.StatusBadRequest, HTTPErrorResponse{
		Error:   message,
		Code:    ErrInvalidInput,
		Details: details,
	})
}
