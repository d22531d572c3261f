package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// listHosts handles GET /api/v1/model/hosts
func (s *Server) listHosts(c echo.Context) error {
	m, err := s.currentModel()
	if err != nil {
		return err
	}

	hosts := m.Hosts()

	// Optional state filter (up, down)
	if state := c.QueryParam("state"); state != "" {
		filtered := hosts[:0]
		for _, h := range hosts {
			if h.State == state {
				filtered = append(filtered, h)
			}
		}
		hosts = filtered
	}

	return c.JSON(http.StatusOK, HostListResponse{
		Count: len(hosts),
		Hosts: hosts,
	})
}

// getHost handles GET /api/v1/model/hosts/:id
func (s *Server) getHost(c echo.Context) error {
	m, err := s.currentModel()
	if err != nil {
		return err
	}

	id := c.Param("id")
	host, err := m.GetHostByUUID(id)
	if err != nil {
		return NotFoundError("host", id)
	}

	return c.JSON(http.StatusOK, host)
}

// getHostInstances handles GET /api/v1/model/hosts/:id/instances
func (s *Server) getHostInstances(c echo.Context) error {
	m, err := s.currentModel()
	if err != nil {
		return err
	}

	id := c.Param("id")
	if _, err := m.GetHostByUUID(id); err != nil {
		return NotFoundError("host", id)
	}

	instances := m.InstancesOnHost(id)
	return c.JSON(http.StatusOK, InstanceListResponse{
		Count:     len(instances),
		Instances: instances,
	})
}
