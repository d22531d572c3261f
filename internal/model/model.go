// Package model holds the in-memory cluster model: the full set of
// Host and Instance entities plus the single explicit Instance→Host
// relation. A model is populated by exactly one build and then
// published as an immutable handle; it is never mutated in place once
// readers can see it.
package model

import (
	"sort"
	"time"

	"github.com/cartograph-io/cartograph/models"
)

// ClusterModel owns hosts, instances and the "runs on" relation.
// Exactly one live model exists per scope context; a rebuild replaces
// the previous model in full, never patches it.
type ClusterModel struct {
	buildID string
	builtAt time.Time
	scope   *models.ScopeSpec

	hosts     map[string]*models.Host
	instances map[string]*models.Instance

	// mapping is instance uuid -> host uuid, many-to-one
	mapping map[string]string

	// byHost indexes the reverse direction for per-host enumeration
	byHost map[string]map[string]struct{}
}

// New allocates an empty model for the given scope. The scope is the
// one the build was resolved against and is recorded for callers.
func New(scope *models.ScopeSpec) *ClusterModel {
	return &ClusterModel{
		buildID:   models.GenerateID("build"),
		builtAt:   time.Now().UTC(),
		scope:     scope.Clone(),
		hosts:     make(map[string]*models.Host),
		instances: make(map[string]*models.Instance),
		mapping:   make(map[string]string),
		byHost:    make(map[string]map[string]struct{}),
	}
}

// BuildID returns the unique identifier of the build that produced
// this model.
func (m *ClusterModel) BuildID() string { return m.buildID }

// BuiltAt returns the UTC time the model was allocated.
func (m *ClusterModel) BuiltAt() time.Time { return m.builtAt }

// Scope returns the scope the model was built for.
func (m *ClusterModel) Scope() *models.ScopeSpec { return m.scope }

// AddHost adds or refreshes a host. The last record wins; hosts are
// keyed by service uuid.
func (m *ClusterModel) AddHost(h *models.Host) {
	m.hosts[h.UUID] = h
	if _, ok := m.byHost[h.UUID]; !ok {
		m.byHost[h.UUID] = make(map[string]struct{})
	}
}

// AddInstance adds or refreshes an instance without touching its
// mapping.
func (m *ClusterModel) AddInstance(i *models.Instance) {
	m.instances[i.UUID] = i
}

// MapInstance records that the instance runs on the host. Mapping is
// idempotent: a second call for the same instance overwrites the
// previous relation instead of duplicating it.
func (m *ClusterModel) MapInstance(i *models.Instance, h *models.Host) {
	if prev, ok := m.mapping[i.UUID]; ok {
		delete(m.byHost[prev], i.UUID)
	}
	m.mapping[i.UUID] = h.UUID
	if _, ok := m.byHost[h.UUID]; !ok {
		m.byHost[h.UUID] = make(map[string]struct{})
	}
	m.byHost[h.UUID][i.UUID] = struct{}{}
}

// GetHostByUUID looks a host up by service uuid.
func (m *ClusterModel) GetHostByUUID(uuid string) (*models.Host, error) {
	h, ok := m.hosts[uuid]
	if !ok {
		return nil, &HostNotFoundError{UUID: uuid}
	}
	return h, nil
}

// GetInstanceByUUID looks an instance up by uuid.
func (m *ClusterModel) GetInstanceByUUID(uuid string) (*models.Instance, error) {
	i, ok := m.instances[uuid]
	if !ok {
		return nil, &InstanceNotFoundError{UUID: uuid}
	}
	return i, nil
}

// HostForInstance returns the host the instance is mapped to, or false
// when the instance is unmapped or unknown.
func (m *ClusterModel) HostForInstance(uuid string) (*models.Host, bool) {
	hostUUID, ok := m.mapping[uuid]
	if !ok {
		return nil, false
	}
	h, ok := m.hosts[hostUUID]
	return h, ok
}

// InstancesOnHost returns the instances mapped to the host, sorted by
// uuid for deterministic output.
func (m *ClusterModel) InstancesOnHost(hostUUID string) []*models.Instance {
	ids := m.byHost[hostUUID]
	out := make([]*models.Instance, 0, len(ids))
	for id := range ids {
		if inst, ok := m.instances[id]; ok {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out
}

// Hosts returns all hosts sorted by uuid.
func (m *ClusterModel) Hosts() []*models.Host {
	out := make([]*models.Host, 0, len(m.hosts))
	for _, h := range m.hosts {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out
}

// Instances returns all instances sorted by uuid, mapped or not.
func (m *ClusterModel) Instances() []*models.Instance {
	out := make([]*models.Instance, 0, len(m.instances))
	for _, i := range m.instances {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out
}

// UnmappedInstances returns the instances with no resolvable host.
func (m *ClusterModel) UnmappedInstances() []*models.Instance {
	out := make([]*models.Instance, 0)
	for _, i := range m.instances {
		if _, ok := m.mapping[i.UUID]; !ok {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out
}

// HostCount returns the number of hosts in the model.
func (m *ClusterModel) HostCount() int { return len(m.hosts) }

// InstanceCount returns the number of instances in the model.
func (m *ClusterModel) InstanceCount() int { return len(m.instances) }

// MappedCount returns the number of instances with a recorded host.
func (m *ClusterModel) MappedCount() int { return len(m.mapping) }
