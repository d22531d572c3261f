package models

// Instance represents a virtual workload in the cluster model.
// Its resource footprint comes from the flavor it was launched with.
// An instance whose host could not be resolved stays in the model
// unmapped; it is never discarded.
type Instance struct {
	UUID         string            `json:"uuid"`
	Name         string            `json:"name"`
	Memory       int64             `json:"memory"`
	Disk         int64             `json:"disk"`
	DiskCapacity int64             `json:"diskCapacity"`
	VCPUs        int               `json:"vcpus"`
	State        string            `json:"state"`
	ProjectID    string            `json:"projectId"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Locked       bool              `json:"locked"`
}
