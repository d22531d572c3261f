// Package cluster defines the boundary to the remote cluster inventory
// service that supplies raw host, aggregate, zone and instance records.
// The model builder consumes the Source interface only; the HTTP
// implementation in this package is one possible collaborator.
//
// Every operation is a single attempt. Retry and backoff, if any,
// belong to the collaborator behind the interface, not to callers.
package cluster

import "context"

// Aggregate is a named grouping of hosts used for scheduling and
// placement policy. IDs are carried as decimal strings so they compare
// directly against scope selectors.
type Aggregate struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Hosts []string `json:"hosts"`
}

// ZoneService is one host's availability-zone membership record.
type ZoneService struct {
	Host string `json:"host"`
	Zone string `json:"zone"`
}

// ServiceRecord is the service block embedded in a host record.
type ServiceRecord struct {
	Host           string `json:"host"`
	DisabledReason string `json:"disabled_reason,omitempty"`
}

// HostRecord is the raw hypervisor record as reported by the inventory
// service. Field extraction into the model happens at this boundary;
// loosely typed attributes never leak past it.
type HostRecord struct {
	ID         int           `json:"id"`
	Hostname   string        `json:"hypervisor_hostname"`
	Service    ServiceRecord `json:"service"`
	MemoryMB   int64         `json:"memory_mb"`
	FreeDiskGB int64         `json:"free_disk_gb"`
	LocalGB    int64         `json:"local_gb"`
	VCPUs      int           `json:"vcpus"`
	State      string        `json:"state"`
	Status     string        `json:"status"`
}

// FlavorRecord is the resource-footprint template of an instance.
type FlavorRecord struct {
	RAM   int64 `json:"ram"`
	Disk  int64 `json:"disk"`
	VCPUs int   `json:"vcpus"`
}

// InstanceRecord is the raw instance record. HostID is the service
// uuid of the owning host and is optional: an instance mid-migration
// or shelved reports no host.
type InstanceRecord struct {
	UUID     string            `json:"uuid"`
	Name     string            `json:"name"`
	Flavor   FlavorRecord      `json:"flavor"`
	State    string            `json:"vm_state"`
	TenantID string            `json:"tenant_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Locked   bool              `json:"locked"`
	HostID   string            `json:"host,omitempty"`
}

// Source supplies raw cluster inventory data. Implementations return
// *NotFoundError when a named entity is absent and *TransportError when
// the service is unreachable or responds malformed.
type Source interface {
	// ListAggregates returns all host aggregates with their membership.
	ListAggregates(ctx context.Context) ([]Aggregate, error)

	// ListZoneServices returns the zone membership of every host service.
	ListZoneServices(ctx context.Context) ([]ZoneService, error)

	// ListHosts returns the full host catalog.
	ListHosts(ctx context.Context) ([]HostRecord, error)

	// GetHost returns the full record for one host by service uuid.
	GetHost(ctx context.Context, id string) (*HostRecord, error)

	// ListInstancesForHost returns the uuids of the instances currently
	// reported on the host.
	ListInstancesForHost(ctx context.Context, hostID string) ([]string, error)

	// GetInstance returns the full record for one instance.
	GetInstance(ctx context.Context, id string) (*InstanceRecord, error)
}
