package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"stackhand/internal/errors"
	"stackhand/internal/logger"

	"github.com/labstack/echo/v4"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// ContextKeyAuth is the key for the AuthContext of a request
const ContextKeyAuth contextKey = "auth"

// AuthContext is the outcome of authorizing one request
type AuthContext struct {
	AuthEnabled     bool
	IsAuthenticated bool
	permissions     map[string]bool // "resource:action"; nil grants everything
}

// Can reports whether the request may perform action on resource. With auth
// disabled every action is allowed.
func (a AuthContext) Can(resource, action string) bool {
	if !a.AuthEnabled {
		return true
	}
	if !a.IsAuthenticated {
		return false
	}
	if a.permissions == nil {
		return true
	}
	return a.permissions[resource+":"+action]
}

// Authorizer decides who is calling
type Authorizer interface {
	Authorize(c echo.Context) AuthContext
}

// TokenAuthorizer authenticates requests carrying a bearer token equal to
// the configured API token. An empty token disables auth.
type TokenAuthorizer struct {
	token string
}

// NewTokenAuthorizer creates a TokenAuthorizer
func NewTokenAuthorizer(token string) *TokenAuthorizer {
	return &TokenAuthorizer{token: token}
}

// Authorize implements Authorizer
func (a *TokenAuthorizer) Authorize(c echo.Context) AuthContext {
	if a.token == "" {
		return AuthContext{}
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	presented, ok := strings.CutPrefix(header, "Bearer ")
	authenticated := ok && subtle.ConstantTimeCompare([]byte(strings.TrimSpace(presented)), []byte(a.token)) == 1

	return AuthContext{AuthEnabled: true, IsAuthenticated: authenticated}
}

func (s *Server) authorize(c echo.Context) AuthContext {
	if ac, ok := c.Get(string(ContextKeyAuth)).(AuthContext); ok {
		return ac
	}
	ac := s.authorizer.Authorize(c)
	c.Set(string(ContextKeyAuth), ac)
	return ac
}

// requireAuth rejects unauthenticated requests when auth is enabled
func (s *Server) requireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac := s.authorize(c)
			if ac.AuthEnabled && !ac.IsAuthenticated {
				return errors.HandleError(c, errors.Unauthorized())
			}
			return next(c)
		}
	}
}

// requirePermission rejects requests lacking resource:action. Unauthenticated
// requests are refused with 403 like any other missing permission.
func (s *Server) requirePermission(resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac := s.authorize(c)
			if ac.AuthEnabled && !ac.Can(resource, action) {
				logger.GetLogger(c).WithFields(logger.Fields{
					"resource": resource,
					"action":   action,
				}).Warn("Permission denied")
				return errors.HandleError(c, errors.Forbidden(resource, action))
			}
			return next(c)
		}
	}
}

// ErrorHandler renders errors that escaped a handler in the common error
// response shape
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var body errors.HTTPErrorResponse

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch msg := he.Message.(type) {
		case errors.HTTPErrorResponse:
			body = msg
		case string:
			body = errors.HTTPErrorResponse{Error: msg, Code: codeForStatus(status)}
		default:
			body = errors.HTTPErrorResponse{Error: http.StatusText(status), Code: codeForStatus(status)}
		}
	} else {
		status, body = errors.Response(err)
	}

	entry := logger.GetLogger(c).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Debug("Request error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

func codeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusForbidden:
		return errors.ErrForbidden
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusMethodNotAllowed:
		return errors.ErrInvalidInput
	default:
		return errors.ErrInternal
	}
}
