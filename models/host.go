package models

// Host represents a physical compute node in the cluster model.
//
// One Host exists per physical node. Hosts are created during the
// physical-layer pass of a model build and are never mutated outside a
// rebuild; readers always observe the host set of a single, complete
// build.
//
// The Host model includes:
//   - Identification (numeric id, service uuid, hypervisor hostname)
//   - Capacity (memory, free disk, disk capacity, vcpus)
//   - Operational state (state, status, disabled reason)
//
// Example JSON representation:
//
//	{
//	  "id": 12,
//	  "uuid": "compute-0",
//	  "hostname": "compute-0.cluster.local",
//	  "memory": 65536,
//	  "disk": 380,
//	  "diskCapacity": 400,
//	  "vcpus": 32,
//	  "state": "up",
//	  "status": "enabled"
//	}
type Host struct {
	// ID is the numeric identifier assigned by the cluster service
	ID int `json:"id"`

	// UUID is the service host identifier. It is the primary lookup key
	// in the cluster model and the value instances reference as their
	// owning host.
	UUID string `json:"uuid"`

	// Hostname is the hypervisor hostname
	Hostname string `json:"hostname"`

	// Memory is the total memory in megabytes
	Memory int64 `json:"memory"`

	// Disk is the free disk space in gigabytes
	Disk int64 `json:"disk"`

	// DiskCapacity is the total local disk capacity in gigabytes
	DiskCapacity int64 `json:"diskCapacity"`

	// VCPUs is the number of virtual CPUs the node offers
	VCPUs int `json:"vcpus"`

	// State is the power/availability state reported by the service (up, down)
	State string `json:"state"`

	// Status is the administrative status (enabled, disabled)
	Status string `json:"status"`

	// DisabledReason is the operator-supplied reason when Status is disabled
	DisabledReason string `json:"disabledReason,omitempty"`
}
