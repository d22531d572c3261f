package scope

import (
	"github.com/cartograph-io/cartograph/internal/cluster"
	"github.com/cartograph-io/cartograph/models"
)

// Exclusions is the flattened form of a spec's exclude block, ready to
// be consulted during a build. Hosts named directly or via an excluded
// aggregate leave the resolved host set; instances are skipped by
// uuid, owning project or metadata match.
type Exclusions struct {
	hosts     map[string]struct{}
	instances map[string]struct{}
	projects  map[string]struct{}
	metadata  []map[string]string
}

// NewExclusions flattens the exclude block. Aggregate exclusions are
// expanded to their member hosts using the supplied aggregate list.
// Project refs given by uuid are registered directly; refs given by
// name are resolved by the caller and added with AddProjectID.
func NewExclusions(spec *models.ExcludeSpec, aggregates []cluster.Aggregate) *Exclusions {
	e := &Exclusions{
		hosts:     make(map[string]struct{}),
		instances: make(map[string]struct{}),
		projects:  make(map[string]struct{}),
	}
	if spec == nil {
		return e
	}

	for _, h := range spec.Hosts {
		e.hosts[h.Name] = struct{}{}
	}
	for _, i := range spec.Instances {
		e.instances[i.UUID] = struct{}{}
	}
	for _, p := range spec.Projects {
		if p.UUID != "" {
			e.projects[p.UUID] = struct{}{}
		}
	}
	e.metadata = spec.InstanceMetadata

	ids := make(map[string]struct{})
	names := make(map[string]struct{})
	for _, ref := range spec.HostAggregates {
		if ref.ID != "" {
			ids[ref.ID] = struct{}{}
		}
		if ref.Name != "" {
			names[ref.Name] = struct{}{}
		}
	}
	for _, agg := range aggregates {
		_, byID := ids[agg.ID]
		_, byName := names[agg.Name]
		if byID || byName {
			for _, h := range agg.Hosts {
				e.hosts[h] = struct{}{}
			}
		}
	}
	return e
}

// AddProjectID registers a project uuid resolved from a name-based
// ref.
func (e *Exclusions) AddProjectID(id string) {
	e.projects[id] = struct{}{}
}

// NamedProjects returns the project refs that still need resolving
// through the identity directory.
func NamedProjects(spec *models.ExcludeSpec) []string {
	if spec == nil {
		return nil
	}
	var names []string
	for _, p := range spec.Projects {
		if p.UUID == "" && p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// ExcludesHost reports whether the host uuid is excluded.
func (e *Exclusions) ExcludesHost(uuid string) bool {
	_, ok := e.hosts[uuid]
	return ok
}

// ExcludesInstance reports whether the instance record is excluded by
// uuid, project or metadata. A metadata selector matches when every
// one of its key/value pairs is present on the instance.
func (e *Exclusions) ExcludesInstance(rec *cluster.InstanceRecord) bool {
	if _, ok := e.instances[rec.UUID]; ok {
		return true
	}
	if _, ok := e.projects[rec.TenantID]; ok {
		return true
	}
	for _, selector := range e.metadata {
		if len(selector) == 0 {
			continue
		}
		matched := true
		for k, v := range selector {
			if rec.Metadata[k] != v {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
