package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// listInstances handles GET /api/v1/model/instances
func (s *Server) listInstances(c echo.Context) error {
	m, err := s.currentModel()
	if err != nil {
		return err
	}

	if unmapped, _ := strconv.ParseBool(c.QueryParam("unmapped")); unmapped {
		instances := m.UnmappedInstances()
		return c.JSON(http.StatusOK, InstanceListResponse{
			Count:     len(instances),
			Instances: instances,
		})
	}

	instances := m.Instances()

	// Optional project filter
	if project := c.QueryParam("project"); project != "" {
		filtered := instances[:0]
		for _, i := range instances {
			if i.ProjectID == project {
				filtered = append(filtered, i)
			}
		}
		instances = filtered
	}

	return c.JSON(http.StatusOK, InstanceListResponse{
		Count:     len(instances),
		Instances: instances,
	})
}

// getInstance handles GET /api/v1/model/instances/:id
func (s *Server) getInstance(c echo.Context) error {
	m, err := s.currentModel()
	if err != nil {
		return err
	}

	id := c.Param("id")
	instance, err := m.GetInstanceByUUID(id)
	if err != nil {
		return NotFoundError("instance", id)
	}

	detail := InstanceDetail{Instance: instance}
	if host, ok := m.HostForInstance(id); ok {
		detail.Host = host
	}

	return c.JSON(http.StatusOK, detail)
}
