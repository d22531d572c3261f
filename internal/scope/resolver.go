// Package scope turns declarative audit-scope filters into concrete
// host sets and remembers which scope the current model was built for.
package scope

import (
	"github.com/cartograph-io/cartograph/internal/cluster"
	"github.com/cartograph-io/cartograph/models"
)

// Resolve computes the set of host uuids selected by the spec's
// aggregate and zone inclusion filters. The second return value is
// false when both filters are empty, meaning "no restriction": the
// caller falls back to the unfiltered host catalog.
//
// The result is the union of both collections. A literal wildcard in
// either the aggregate id list or name list includes every aggregate
// member regardless of other entries; a wildcard zone name includes
// every host with a zone service record.
//
// Resolve is purely functional over its inputs.
func Resolve(spec *models.ScopeSpec, aggregates []cluster.Aggregate, services []cluster.ZoneService) (map[string]struct{}, bool) {
	hosts := make(map[string]struct{})
	if spec.IsEmpty() {
		return hosts, false
	}
	restricted := false

	if len(spec.HostAggregates) > 0 {
		restricted = true
		collectAggregateHosts(spec.HostAggregates, aggregates, hosts)
	}
	if len(spec.AvailabilityZones) > 0 {
		restricted = true
		collectZoneHosts(spec.AvailabilityZones, services, hosts)
	}
	return hosts, restricted
}

func collectAggregateHosts(refs []models.AggregateRef, aggregates []cluster.Aggregate, hosts map[string]struct{}) {
	ids := make(map[string]struct{})
	names := make(map[string]struct{})
	includeAll := false
	for _, ref := range refs {
		if ref.ID == models.Wildcard || ref.Name == models.Wildcard {
			includeAll = true
		}
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
		if includeAll || byID || byName {
			for _, h := range agg.Hosts {
				hosts[h] = struct{}{}
			}
		}
	}
}

func collectZoneHosts(refs []models.ZoneRef, services []cluster.ZoneService, hosts map[string]struct{}) {
	zones := make(map[string]struct{})
	includeAll := false
	for _, ref := range refs {
		if ref.Name == models.Wildcard {
			includeAll = true
		}
		zones[ref.Name] = struct{}{}
	}

	for _, svc := range services {
		if _, ok := zones[svc.Zone]; ok || includeAll {
			hosts[svc.Host] = struct{}{}
		}
	}
}
