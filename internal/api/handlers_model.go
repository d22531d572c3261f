package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cartograph-io/cartograph/internal/cluster"
	"github.com/cartograph-io/cartograph/internal/collector"
	"github.com/cartograph-io/cartograph/internal/model"
)

// currentModel returns the published model or a 503 APIError when no
// build has succeeded yet.
func (s *Server) currentModel() (*model.ClusterModel, error) {
	m := s.builder.Current()
	if m == nil {
		return nil, UnavailableError("no cluster model available",
			"no model build has succeeded yet")
	}
	return m, nil
}

// getModelSummary handles GET /api/v1/model
func (s *Server) getModelSummary(c echo.Context) error {
	m, err := s.currentModel()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewModelSummary(m))
}

// getModel handles GET /api/v1/model/full
func (s *Server) getModel(c echo.Context) error {
	m, err := s.currentModel()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewModelResponse(m))
}

// rebuildModel handles POST /api/v1/model/rebuild
//
// An empty body forces a rebuild for the stored scope. A JSON body is
// validated as a scope document and handed to the builder; the scope
// cache then decides whether the stored scope already covers it.
func (s *Server) rebuildModel(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return BadRequestError("failed to read request body", err.Error())
	}

	spec := s.builder.Scope()
	if len(body) > 0 {
		result, err := s.validator.ValidateScope(body)
		if err != nil {
			return InternalError("scope validation failed", err.Error())
		}
		if !result.Valid {
			fieldErrors := make(map[string]string, len(result.Errors))
			for _, verr := range result.Errors {
				fieldErrors[verr.Field] = verr.Message
			}
			return ValidationFailedError("invalid scope document", fieldErrors)
		}
		spec = result.Scope
	} else {
		// Same scope, fresh data
		s.builder.MarkStale()
	}

	m, err := s.builder.GetModel(c.Request().Context(), spec)
	if err != nil {
		return rebuildError(err)
	}

	return c.JSON(http.StatusOK, NewModelSummary(m))
}

// rebuildError maps builder failures onto HTTP status codes.
func rebuildError(err error) *APIError {
	if collector.IsUnavailable(err) {
		return UnavailableError("cluster model unavailable", err.Error())
	}
	if cluster.IsAmbiguous(err) {
		return BadRequestError("ambiguous scope selector", err.Error())
	}
	var transport *cluster.TransportError
	if errors.As(err, &transport) {
		return UpstreamError("cluster inventory unreachable", err.Error())
	}
	return InternalError("model rebuild failed", err.Error())
}
