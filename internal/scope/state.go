package scope

import (
	"sync"

	"github.com/cartograph-io/cartograph/models"
)

// Decision is the outcome of applying a requested scope against the
// stored one.
type Decision int

const (
	// Reuse means the cached model can be returned unchanged.
	Reuse Decision = iota

	// Rebuild means the model must be constructed from scratch.
	Rebuild
)

func (d Decision) String() string {
	if d == Reuse {
		return "reuse"
	}
	return "rebuild"
}

// State is the process-lifetime cache of the last scope applied to the
// current model. It is created empty, replaced whenever a scope change
// is accepted, and cleared when an empty scope follows a non-empty
// one.
type State struct {
	mu      sync.Mutex
	current *models.ScopeSpec
	applied bool
}

// NewState returns an empty scope cache.
func NewState() *State {
	return &State{}
}

// Apply compares the requested scope against the stored one and
// stores the new scope when it materially differs. A scope materially
// differs when it contains any selector value or field the stored
// scope lacks. An empty scope arriving after a non-empty one clears
// the cache entirely — the audit scope was removed, so any prior
// restriction is invalid.
func (s *State) Apply(spec *models.ScopeSpec) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.applied {
		s.current = spec.Clone()
		s.applied = true
		return Rebuild
	}

	if spec.IsEmpty() {
		if s.current.IsEmpty() {
			return Reuse
		}
		s.current = nil
		return Rebuild
	}

	if s.current.Covers(spec) {
		return Reuse
	}
	s.current = spec.Clone()
	return Rebuild
}

// Current returns the stored scope, nil when none (or an empty one)
// is stored.
func (s *State) Current() *models.ScopeSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Invalidate forgets that any scope was applied, forcing the next
// Apply to signal Rebuild. Used after a failed build so a repeated
// request does not reuse a model built for an older scope.
func (s *State) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.applied = false
}
