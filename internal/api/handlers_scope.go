package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// getScope handles GET /api/v1/scope
func (s *Server) getScope(c echo.Context) error {
	spec := s.builder.Scope()
	resp := ScopeResponse{
		Restricted: spec != nil && !spec.IsEmpty(),
	}
	if resp.Restricted {
		resp.Scope = spec
	}
	return c.JSON(http.StatusOK, resp)
}

// validateScope handles POST /api/v1/scope/validate
//
// Validates a scope document without touching the scope cache or the
// model. Returns the full validation result either way.
func (s *Server) validateScope(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return BadRequestError("failed to read request body", err.Error())
	}

	result, err := s.validator.ValidateScope(body)
	if err != nil {
		return InternalError("scope validation failed", err.Error())
	}

	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, result)
}
