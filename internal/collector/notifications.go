package collector

import (
	"context"
	"log"

	"github.com/cartograph-io/cartograph/models"
)

// InstanceEventType classifies a lifecycle notification from the
// cluster's event stream.
type InstanceEventType string

const (
	InstanceCreated InstanceEventType = "instance.created"
	InstanceUpdated InstanceEventType = "instance.updated"
	InstanceDeleted InstanceEventType = "instance.deleted"
)

// InstanceEvent is a lifecycle notification about one instance.
type InstanceEvent struct {
	Type   InstanceEventType `json:"type"`
	UUID   string            `json:"uuid"`
	HostID string            `json:"host,omitempty"`
}

// HandleInstanceEvent marks the model stale. Events coalesce: any
// number of notifications between two builds cost exactly one rebuild,
// which the next GetModel or Refresh performs against a consistent
// snapshot rather than patching entities in place.
func (b *Builder) HandleInstanceEvent(ev InstanceEvent) {
	b.debugLog("instance event %s for %s, marking model stale", ev.Type, ev.UUID)
	b.stale.Store(true)
}

// MarkStale forces the next GetModel to rebuild even for an unchanged
// scope.
func (b *Builder) MarkStale() {
	b.stale.Store(true)
}

// Stale reports whether the published model no longer reflects the
// cluster.
func (b *Builder) Stale() bool {
	return b.stale.Load()
}

// Scope returns the currently stored audit scope, nil when none has
// been applied.
func (b *Builder) Scope() *models.ScopeSpec {
	return b.state.Current()
}

// Refresh rebuilds the model for the currently stored scope and
// returns the result. Used by the background scheduler and by the
// rebuild endpoint when no new scope is supplied.
func (b *Builder) Refresh(ctx context.Context) error {
	b.stale.Store(true)
	spec := b.state.Current()
	if _, err := b.GetModel(ctx, spec); err != nil {
		log.Printf("model refresh failed: %v", err)
		return err
	}
	return nil
}
