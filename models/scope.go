package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Wildcard is the literal that matches every aggregate or zone when it
// appears in an inclusion filter. Its presence short-circuits further
// filtering for that field.
const Wildcard = "*"

// ScopeSpec is the declarative filter describing which subset of the
// cluster a model build should consider. A ScopeSpec is immutable once
// it has been applied to a build; callers hand in a new spec to change
// the scope.
//
// Example JSON representation:
//
//	{
//	  "host_aggregates": [{"name": "gpu-pool"}, {"id": 7}],
//	  "availability_zones": [{"name": "az-1"}],
//	  "exclude": {
//	    "instances": [{"uuid": "c0ffee"}],
//	    "projects": [{"name": "batch"}]
//	  }
//	}
type ScopeSpec struct {
	// HostAggregates selects hosts belonging to the named aggregates
	HostAggregates []AggregateRef `json:"host_aggregates,omitempty"`

	// AvailabilityZones selects hosts whose service reports membership
	// in one of the named zones
	AvailabilityZones []ZoneRef `json:"availability_zones,omitempty"`

	// Exclude removes entities from the resolved scope after inclusion
	Exclude *ExcludeSpec `json:"exclude,omitempty"`
}

// AggregateRef selects a host aggregate either by numeric id or by
// name. The id also accepts the literal wildcard. Exactly one of the
// two fields is set.
type AggregateRef struct {
	// ID is the aggregate id as a decimal string, or the wildcard.
	// Integers are normalized to their decimal form at JSON decode.
	ID string

	// Name is the aggregate name, or the wildcard
	Name string
}

// ZoneRef selects an availability zone by name. The name accepts the
// literal wildcard.
type ZoneRef struct {
	Name string `json:"name"`
}

// ExcludeSpec removes entities from an otherwise-included scope.
type ExcludeSpec struct {
	Instances        []InstanceRef       `json:"instances,omitempty"`
	Hosts            []HostRef           `json:"hosts,omitempty"`
	HostAggregates   []AggregateRef      `json:"host_aggregates,omitempty"`
	Projects         []ProjectRef        `json:"projects,omitempty"`
	InstanceMetadata []map[string]string `json:"instance_metadata,omitempty"`
}

// InstanceRef selects an instance by uuid.
type InstanceRef struct {
	UUID string `json:"uuid"`
}

// HostRef selects a host by its service uuid.
type HostRef struct {
	Name string `json:"name"`
}

// ProjectRef selects a project by uuid or by name. Name-based refs are
// resolved through the identity directory before the build applies
// them.
type ProjectRef struct {
	UUID string `json:"uuid,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON decodes an aggregate selector of the form {"id": 7},
// {"id": "*"} or {"name": "gpu-pool"}. Unknown keys are rejected.
func (r *AggregateRef) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, val := range raw {
		switch key {
		case "id":
			var id int
			if err := json.Unmarshal(val, &id); err == nil {
				r.ID = strconv.Itoa(id)
				continue
			}
			var s string
			if err := json.Unmarshal(val, &s); err != nil || s != Wildcard {
				return fmt.Errorf("aggregate id must be an integer or %q", Wildcard)
			}
			r.ID = Wildcard
		case "name":
			if err := json.Unmarshal(val, &r.Name); err != nil {
				return fmt.Errorf("aggregate name must be a string")
			}
		default:
			return fmt.Errorf("unknown aggregate selector key %q", key)
		}
	}
	return nil
}

// MarshalJSON renders the selector back in its wire form, with numeric
// ids as integers.
func (r AggregateRef) MarshalJSON() ([]byte, error) {
	if r.ID != "" {
		if id, err := strconv.Atoi(r.ID); err == nil {
			return json.Marshal(map[string]int{"id": id})
		}
		return json.Marshal(map[string]string{"id": r.ID})
	}
	return json.Marshal(map[string]string{"name": r.Name})
}

// IsEmpty reports whether the spec places no restriction at all.
func (s *ScopeSpec) IsEmpty() bool {
	if s == nil {
		return true
	}
	return len(s.HostAggregates) == 0 &&
		len(s.AvailabilityZones) == 0 &&
		s.Exclude.isEmpty()
}

func (e *ExcludeSpec) isEmpty() bool {
	if e == nil {
		return true
	}
	return len(e.Instances) == 0 && len(e.Hosts) == 0 &&
		len(e.HostAggregates) == 0 && len(e.Projects) == 0 &&
		len(e.InstanceMetadata) == 0
}

// Clone returns a deep copy of the spec.
func (s *ScopeSpec) Clone() *ScopeSpec {
	if s == nil {
		return nil
	}
	c := &ScopeSpec{
		HostAggregates:    append([]AggregateRef(nil), s.HostAggregates...),
		AvailabilityZones: append([]ZoneRef(nil), s.AvailabilityZones...),
	}
	if s.Exclude != nil {
		c.Exclude = &ExcludeSpec{
			Instances:      append([]InstanceRef(nil), s.Exclude.Instances...),
			Hosts:          append([]HostRef(nil), s.Exclude.Hosts...),
			HostAggregates: append([]AggregateRef(nil), s.Exclude.HostAggregates...),
			Projects:       append([]ProjectRef(nil), s.Exclude.Projects...),
		}
		for _, m := range s.Exclude.InstanceMetadata {
			c.Exclude.InstanceMetadata = append(c.Exclude.InstanceMetadata, maps.Clone(m))
		}
	}
	return c
}

// Equal reports whether both specs have identical content.
func (s *ScopeSpec) Equal(other *ScopeSpec) bool {
	return s.Covers(other) && other.Covers(s)
}

// Covers reports whether every selector in other is already present in
// s. A stored scope that covers an incoming scope means the incoming
// scope does not materially differ: it introduces no value and no
// field the stored scope lacks.
func (s *ScopeSpec) Covers(other *ScopeSpec) bool {
	if other.IsEmpty() {
		return true
	}
	if s == nil {
		return false
	}
	for _, ref := range other.HostAggregates {
		if !containsRef(s.HostAggregates, ref) {
			return false
		}
	}
	for _, z := range other.AvailabilityZones {
		if !containsRef(s.AvailabilityZones, z) {
			return false
		}
	}
	return s.Exclude.covers(other.Exclude)
}

func (e *ExcludeSpec) covers(other *ExcludeSpec) bool {
	if other.isEmpty() {
		return true
	}
	if e == nil {
		return false
	}
	for _, i := range other.Instances {
		if !containsRef(e.Instances, i) {
			return false
		}
	}
	for _, h := range other.Hosts {
		if !containsRef(e.Hosts, h) {
			return false
		}
	}
	for _, a := range other.HostAggregates {
		if !containsRef(e.HostAggregates, a) {
			return false
		}
	}
	for _, p := range other.Projects {
		if !containsRef(e.Projects, p) {
			return false
		}
	}
	for _, m := range other.InstanceMetadata {
		found := false
		for _, own := range e.InstanceMetadata {
			if maps.Equal(own, m) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsRef[T comparable](refs []T, ref T) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
