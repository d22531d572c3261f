package api

import (
	"time"

	"github.com/cartograph-io/cartograph/internal/model"
	"github.com/cartograph-io/cartograph/models"
)

// ErrorResponse is a simple error payload for handler-level failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ModelSummary is the lightweight view of a published model.
type ModelSummary struct {
	BuildID   string            `json:"build_id"`
	BuiltAt   time.Time         `json:"built_at"`
	Hosts     int               `json:"hosts"`
	Instances int               `json:"instances"`
	Mapped    int               `json:"mapped"`
	Unmapped  int               `json:"unmapped"`
	Scope     *models.ScopeSpec `json:"scope,omitempty"`
}

// NewModelSummary builds a summary from a published model.
func NewModelSummary(m *model.ClusterModel) ModelSummary {
	s := ModelSummary{
		BuildID:   m.BuildID(),
		BuiltAt:   m.BuiltAt(),
		Hosts:     m.HostCount(),
		Instances: m.InstanceCount(),
		Mapped:    m.MappedCount(),
		Unmapped:  m.InstanceCount() - m.MappedCount(),
	}
	if scope := m.Scope(); scope != nil && !scope.IsEmpty() {
		s.Scope = scope
	}
	return s
}

// HostTopology is one host plus the instances mapped onto it.
type HostTopology struct {
	Host      *models.Host       `json:"host"`
	Instances []*models.Instance `json:"instances"`
}

// ModelResponse is the full two-layer model view.
type ModelResponse struct {
	ModelSummary
	Topology          []HostTopology     `json:"topology"`
	UnmappedInstances []*models.Instance `json:"unmapped_instances,omitempty"`
}

// NewModelResponse renders the complete model including the mapping.
func NewModelResponse(m *model.ClusterModel) ModelResponse {
	hosts := m.Hosts()
	topology := make([]HostTopology, 0, len(hosts))
	for _, h := range hosts {
		topology = append(topology, HostTopology{
			Host:      h,
			Instances: m.InstancesOnHost(h.UUID),
		})
	}
	return ModelResponse{
		ModelSummary:      NewModelSummary(m),
		Topology:          topology,
		UnmappedInstances: m.UnmappedInstances(),
	}
}

// HostListResponse wraps a host listing with its count.
type HostListResponse struct {
	Count int            `json:"count"`
	Hosts []*models.Host `json:"hosts"`
}

// InstanceListResponse wraps an instance listing with its count.
type InstanceListResponse struct {
	Count     int                `json:"count"`
	Instances []*models.Instance `json:"instances"`
}

// InstanceDetail is one instance plus the host it runs on, nil for an
// unmapped instance.
type InstanceDetail struct {
	Instance *models.Instance `json:"instance"`
	Host     *models.Host     `json:"host,omitempty"`
}

// ScopeResponse reports the currently stored audit scope.
type ScopeResponse struct {
	Scope      *models.ScopeSpec `json:"scope,omitempty"`
	Restricted bool              `json:"restricted"`
}
