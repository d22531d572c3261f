package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartograph-io/cartograph/internal/cluster"
	"github.com/cartograph-io/cartograph/internal/model"
	"github.com/cartograph-io/cartograph/models"
)

func TestMapInstance_RelatesToHost(t *testing.T) {
	b := New(newTestSource())
	m := model.New(nil)
	m.AddHost(&models.Host{UUID: "node-1"})

	b.mapInstance(instanceRecord("i-1", "node-1", "p-web"), m)

	h, ok := m.HostForInstance("i-1")
	require.True(t, ok)
	assert.Equal(t, "node-1", h.UUID)
}

func TestMapInstance_NoHostAttributeStaysUnmapped(t *testing.T) {
	b := New(newTestSource())
	m := model.New(nil)
	m.AddHost(&models.Host{UUID: "node-1"})

	b.mapInstance(instanceRecord("i-1", "", "p-web"), m)

	// The instance is part of the model even without a host
	_, err := m.GetInstanceByUUID("i-1")
	require.NoError(t, err)
	_, ok := m.HostForInstance("i-1")
	assert.False(t, ok)
	assert.Len(t, m.UnmappedInstances(), 1)
}

func TestMapInstance_UnknownHostTolerated(t *testing.T) {
	b := New(newTestSource())
	m := model.New(nil)
	m.AddHost(&models.Host{UUID: "node-1"})

	b.mapInstance(instanceRecord("i-1", "node-gone", "p-web"), m)

	_, err := m.GetInstanceByUUID("i-1")
	require.NoError(t, err)
	_, ok := m.HostForInstance("i-1")
	assert.False(t, ok)
}

func TestBuildInstance_FlavorFootprint(t *testing.T) {
	rec := &cluster.InstanceRecord{
		UUID:     "i-1",
		Name:     "vm-i-1",
		Flavor:   cluster.FlavorRecord{RAM: 4096, Disk: 40, VCPUs: 4},
		State:    "active",
		TenantID: "p-web",
		Metadata: map[string]string{"tier": "gold"},
		Locked:   true,
	}

	inst := buildInstance(rec)

	assert.Equal(t, "i-1", inst.UUID)
	assert.Equal(t, int64(4096), inst.Memory)
	assert.Equal(t, int64(40), inst.Disk)
	assert.Equal(t, int64(40), inst.DiskCapacity)
	assert.Equal(t, 4, inst.VCPUs)
	assert.Equal(t, "active", inst.State)
	assert.Equal(t, "p-web", inst.ProjectID)
	assert.Equal(t, "gold", inst.Metadata["tier"])
	assert.True(t, inst.Locked)
}

func TestBuildHost_FieldExtraction(t *testing.T) {
	rec := &cluster.HostRecord{
		ID:         7,
		Hostname:   "node-7.example.org",
		Service:    cluster.ServiceRecord{Host: "node-7", DisabledReason: "maintenance"},
		MemoryMB:   131072,
		FreeDiskGB: 500,
		LocalGB:    1000,
		VCPUs:      64,
		State:      "up",
		Status:     "disabled",
	}

	h := buildHost(rec)

	assert.Equal(t, 7, h.ID)
	assert.Equal(t, "node-7", h.UUID)
	assert.Equal(t, "node-7.example.org", h.Hostname)
	assert.Equal(t, int64(131072), h.Memory)
	assert.Equal(t, int64(500), h.Disk)
	assert.Equal(t, int64(1000), h.DiskCapacity)
	assert.Equal(t, 64, h.VCPUs)
	assert.Equal(t, "maintenance", h.DisabledReason)
}
