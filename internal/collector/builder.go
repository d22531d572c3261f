// Package collector builds the two-layer cluster model: the physical
// layer of hosts first, then the virtual layer of instances linked
// back to their hosts. The builder is the only component that touches
// the scope resolver, the scope cache and the instance mapper.
package collector

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cartograph-io/cartograph/internal/cluster"
	"github.com/cartograph-io/cartograph/internal/identity"
	"github.com/cartograph-io/cartograph/internal/model"
	"github.com/cartograph-io/cartograph/internal/scope"
	"github.com/cartograph-io/cartograph/models"
)

// Builder constructs and owns the cluster model. Exactly one rebuild
// runs at a time; a request arriving while one is in flight serializes
// behind it and, when its scope is unchanged, lands on the reuse path
// and receives the freshly published model.
type Builder struct {
	source    cluster.Source
	directory identity.Directory

	state   *scope.State
	current atomic.Pointer[model.ClusterModel]
	stale   atomic.Bool

	// mu enforces the single-writer rule for rebuilds
	mu sync.Mutex

	publishHook func(*model.ClusterModel)
	debug       bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithDirectory wires an identity directory so name-based project
// exclusions can be resolved.
func WithDirectory(d identity.Directory) Option {
	return func(b *Builder) { b.directory = d }
}

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(b *Builder) { b.debug = debug }
}

// WithPublishHook registers a callback invoked after every successful
// model publish. Used to feed the live event stream.
func WithPublishHook(hook func(*model.ClusterModel)) Option {
	return func(b *Builder) { b.publishHook = hook }
}

// New creates a Builder on top of the given inventory source.
func New(source cluster.Source, opts ...Option) *Builder {
	b := &Builder{
		source: source,
		state:  scope.NewState(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// debugLog logs a message only if debug mode is enabled
func (b *Builder) debugLog(format string, args ...interface{}) {
	if b.debug {
		log.Printf(format, args...)
	}
}

// GetModel returns the cluster model for the requested scope. When the
// scope cache decides the request can be served from the cached model,
// that model is returned unchanged and no remote calls happen.
// Otherwise the model is rebuilt and atomically published.
//
// A failed rebuild never replaces the previous model: the error is
// returned, the previous model stays reachable through Current as the
// last-known-good snapshot, and the first-ever failure reports
// UnavailableError so callers are not handed an empty model they would
// mistake for an empty cluster.
func (b *Builder) GetModel(ctx context.Context, spec *models.ScopeSpec) (*model.ClusterModel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	decision := b.state.Apply(spec)
	current := b.current.Load()
	if decision == scope.Reuse && current != nil && !b.stale.Load() {
		b.debugLog("scope unchanged, reusing model %s", current.BuildID())
		return current, nil
	}

	built, err := b.rebuild(ctx, b.state.Current())
	if err != nil {
		// Forget the just-applied scope so a repeated request does not
		// reuse a model built for an older one.
		b.state.Invalidate()
		if current == nil {
			return nil, &UnavailableError{Err: err}
		}
		return nil, fmt.Errorf("refreshing cluster model: %w", err)
	}

	b.current.Store(built)
	b.stale.Store(false)
	b.debugLog("published model %s: %d hosts, %d instances (%d mapped)",
		built.BuildID(), built.HostCount(), built.InstanceCount(), built.MappedCount())
	if b.publishHook != nil {
		b.publishHook(built)
	}
	return built, nil
}

// Current returns the last published model, nil when no build has
// succeeded yet. Readers always observe a complete model.
func (b *Builder) Current() *model.ClusterModel {
	return b.current.Load()
}

// rebuild constructs a fresh model for the scope. It never touches the
// published model; the caller installs the result on success.
func (b *Builder) rebuild(ctx context.Context, spec *models.ScopeSpec) (*model.ClusterModel, error) {
	m := model.New(spec)

	var aggregates []cluster.Aggregate
	if needsAggregates(spec) {
		var err error
		aggregates, err = b.source.ListAggregates(ctx)
		if err != nil {
			return nil, err
		}
	}

	var services []cluster.ZoneService
	if spec != nil && len(spec.AvailabilityZones) > 0 {
		var err error
		services, err = b.source.ListZoneServices(ctx)
		if err != nil {
			return nil, err
		}
	}

	excl, err := b.buildExclusions(ctx, spec, aggregates)
	if err != nil {
		return nil, err
	}

	if err := b.addPhysicalLayer(ctx, m, spec, aggregates, services, excl); err != nil {
		return nil, err
	}
	if err := b.addVirtualLayer(ctx, m, excl); err != nil {
		return nil, err
	}
	return m, nil
}

// addPhysicalLayer resolves the target host set and adds one Host per
// still-resolvable node. A host that disappeared between enumeration
// and detail fetch is skipped; a single missing host never aborts the
// build.
func (b *Builder) addPhysicalLayer(ctx context.Context, m *model.ClusterModel, spec *models.ScopeSpec,
	aggregates []cluster.Aggregate, services []cluster.ZoneService, excl *scope.Exclusions) error {

	hostSet, restricted := scope.Resolve(spec, aggregates, services)
	if !restricted || len(hostSet) == 0 {
		catalog, err := b.source.ListHosts(ctx)
		if err != nil {
			return err
		}
		hostSet = make(map[string]struct{}, len(catalog))
		for _, rec := range catalog {
			hostSet[rec.Service.Host] = struct{}{}
		}
	}

	targets := make([]string, 0, len(hostSet))
	for id := range hostSet {
		if excl.ExcludesHost(id) {
			b.debugLog("host %s excluded by scope", id)
			continue
		}
		targets = append(targets, id)
	}
	sort.Strings(targets)
	b.debugLog("resolved %d target hosts", len(targets))

	for _, id := range targets {
		rec, err := b.source.GetHost(ctx, id)
		if err != nil {
			if cluster.IsNotFound(err) {
				b.debugLog("host %s vanished during build, skipping", id)
				continue
			}
			return err
		}
		m.AddHost(buildHost(rec))
	}
	return nil
}

// addVirtualLayer enumerates the instances of every host in the model
// and maps each still-resolvable record. An instance terminated
// between enumeration and fetch is logged and skipped, never fatal.
func (b *Builder) addVirtualLayer(ctx context.Context, m *model.ClusterModel, excl *scope.Exclusions) error {
	for _, h := range m.Hosts() {
		ids, err := b.source.ListInstancesForHost(ctx, h.UUID)
		if err != nil {
			if cluster.IsNotFound(err) {
				b.debugLog("host %s vanished before instance enumeration, skipping", h.UUID)
				continue
			}
			return err
		}
		for _, id := range ids {
			rec, err := b.source.GetInstance(ctx, id)
			if err != nil {
				if cluster.IsNotFound(err) {
					log.Printf("instance %s vanished during build, skipping", id)
					continue
				}
				return err
			}
			if excl.ExcludesInstance(rec) {
				b.debugLog("instance %s excluded by scope", rec.UUID)
				continue
			}
			b.mapInstance(rec, m)
		}
	}
	return nil
}

// buildExclusions flattens the exclude block and resolves name-based
// project refs through the identity directory. Lookup failures here
// indicate a caller defect, not transient cluster state, and abort the
// build.
func (b *Builder) buildExclusions(ctx context.Context, spec *models.ScopeSpec, aggregates []cluster.Aggregate) (*scope.Exclusions, error) {
	var exclude *models.ExcludeSpec
	if spec != nil {
		exclude = spec.Exclude
	}
	excl := scope.NewExclusions(exclude, aggregates)

	names := scope.NamedProjects(exclude)
	if len(names) == 0 {
		return excl, nil
	}
	if b.directory == nil {
		return nil, fmt.Errorf("scope excludes projects by name but no identity directory is configured")
	}
	for _, name := range names {
		project, err := identity.FindProject(ctx, b.directory, name)
		if err != nil {
			return nil, fmt.Errorf("resolving excluded project %q: %w", name, err)
		}
		excl.AddProjectID(project.ID)
	}
	return excl, nil
}

func needsAggregates(spec *models.ScopeSpec) bool {
	if spec == nil {
		return false
	}
	if len(spec.HostAggregates) > 0 {
		return true
	}
	return spec.Exclude != nil && len(spec.Exclude.HostAggregates) > 0
}

// buildHost extracts the model fields from a raw hypervisor record.
func buildHost(rec *cluster.HostRecord) *models.Host {
	return &models.Host{
		ID:             rec.ID,
		UUID:           rec.Service.Host,
		Hostname:       rec.Hostname,
		Memory:         rec.MemoryMB,
		Disk:           rec.FreeDiskGB,
		DiskCapacity:   rec.LocalGB,
		VCPUs:          rec.VCPUs,
		State:          rec.State,
		Status:         rec.Status,
		DisabledReason: rec.Service.DisabledReason,
	}
}
