package collector

import (
	"github.com/cartograph-io/cartograph/internal/cluster"
	"github.com/cartograph-io/cartograph/internal/model"
	"github.com/cartograph-io/cartograph/models"
)

// mapInstance adds the instance to the model and records which host it
// runs on. A record without a host attribute stays unmapped; so does a
// record whose host is no longer in the model — a live cluster is not
// a consistent snapshot, and an instance must never be discarded just
// because its host reference went stale between enumeration calls.
func (b *Builder) mapInstance(rec *cluster.InstanceRecord, m *model.ClusterModel) {
	inst := buildInstance(rec)
	m.AddInstance(inst)

	if rec.HostID == "" {
		b.debugLog("instance %s reports no host, kept unmapped", inst.UUID)
		return
	}

	host, err := m.GetHostByUUID(rec.HostID)
	if err != nil {
		b.debugLog("instance %s references unknown host %s, kept unmapped", inst.UUID, rec.HostID)
		return
	}
	m.MapInstance(inst, host)
}

// buildInstance extracts the model fields from a raw instance record.
// The resource footprint comes from the flavor the instance was
// launched with.
func buildInstance(rec *cluster.InstanceRecord) *models.Instance {
	return &models.Instance{
		UUID:         rec.UUID,
		Name:         rec.Name,
		Memory:       rec.Flavor.RAM,
		Disk:         rec.Flavor.Disk,
		DiskCapacity: rec.Flavor.Disk,
		VCPUs:        rec.Flavor.VCPUs,
		State:        rec.State,
		ProjectID:    rec.TenantID,
		Metadata:     rec.Metadata,
		Locked:       rec.Locked,
	}
}
