package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartograph-io/cartograph/models"
)

func gpuScope() *models.ScopeSpec {
	return &models.ScopeSpec{
		HostAggregates: []models.AggregateRef{{Name: "gpu-pool"}},
	}
}

func TestState_FirstApplyRebuilds(t *testing.T) {
	s := NewState()
	assert.Equal(t, Rebuild, s.Apply(gpuScope()))
}

func TestState_FirstApplyEmptyRebuilds(t *testing.T) {
	// Even an unrestricted scope needs a first build
	s := NewState()
	assert.Equal(t, Rebuild, s.Apply(nil))
	assert.Nil(t, s.Current())
}

func TestState_SameScopeReuses(t *testing.T) {
	s := NewState()
	s.Apply(gpuScope())
	assert.Equal(t, Reuse, s.Apply(gpuScope()))
}

func TestState_CoveredScopeReuses(t *testing.T) {
	s := NewState()
	s.Apply(&models.ScopeSpec{
		HostAggregates: []models.AggregateRef{{Name: "gpu-pool"}, {Name: "ssd-pool"}},
	})
	// A subset of the stored scope introduces nothing new
	assert.Equal(t, Reuse, s.Apply(gpuScope()))
}

func TestState_NewSelectorRebuilds(t *testing.T) {
	s := NewState()
	s.Apply(gpuScope())

	wider := &models.ScopeSpec{
		HostAggregates: []models.AggregateRef{{Name: "gpu-pool"}, {Name: "ssd-pool"}},
	}
	assert.Equal(t, Rebuild, s.Apply(wider))
	assert.True(t, s.Current().Equal(wider))
}

func TestState_EmptyAfterNonEmptyClears(t *testing.T) {
	s := NewState()
	s.Apply(gpuScope())

	assert.Equal(t, Rebuild, s.Apply(nil))
	assert.Nil(t, s.Current())

	// A second empty scope reuses the unrestricted model
	assert.Equal(t, Reuse, s.Apply(&models.ScopeSpec{}))
}

func TestState_StoresClone(t *testing.T) {
	s := NewState()
	spec := gpuScope()
	s.Apply(spec)

	spec.HostAggregates[0].Name = "mutated"
	require.NotNil(t, s.Current())
	assert.Equal(t, "gpu-pool", s.Current().HostAggregates[0].Name)
}

func TestState_InvalidateForcesRebuild(t *testing.T) {
	s := NewState()
	s.Apply(gpuScope())
	assert.Equal(t, Reuse, s.Apply(gpuScope()))

	s.Invalidate()
	assert.Nil(t, s.Current())
	assert.Equal(t, Rebuild, s.Apply(gpuScope()))
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "reuse", Reuse.String())
	assert.Equal(t, "rebuild", Rebuild.String())
}
