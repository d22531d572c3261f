package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRef_UnmarshalIntegerID(t *testing.T) {
	var ref AggregateRef
	err := json.Unmarshal([]byte(`{"id": 7}`), &ref)
	require.NoError(t, err)
	assert.Equal(t, "7", ref.ID)
	assert.Empty(t, ref.Name)
}

func TestAggregateRef_UnmarshalWildcardID(t *testing.T) {
	var ref AggregateRef
	err := json.Unmarshal([]byte(`{"id": "*"}`), &ref)
	require.NoError(t, err)
	assert.Equal(t, Wildcard, ref.ID)
}

func TestAggregateRef_UnmarshalName(t *testing.T) {
	var ref AggregateRef
	err := json.Unmarshal([]byte(`{"name": "gpu-pool"}`), &ref)
	require.NoError(t, err)
	assert.Equal(t, "gpu-pool", ref.Name)
	assert.Empty(t, ref.ID)
}

func TestAggregateRef_RejectsStringID(t *testing.T) {
	var ref AggregateRef
	err := json.Unmarshal([]byte(`{"id": "7"}`), &ref)
	assert.Error(t, err)
}

func TestAggregateRef_RejectsUnknownKey(t *testing.T) {
	var ref AggregateRef
	err := json.Unmarshal([]byte(`{"uuid": "abc"}`), &ref)
	assert.Error(t, err)
}

func TestAggregateRef_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(AggregateRef{ID: "7"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 7}`, string(data))

	data, err = json.Marshal(AggregateRef{ID: Wildcard})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "*"}`, string(data))

	data, err = json.Marshal(AggregateRef{Name: "gpu-pool"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "gpu-pool"}`, string(data))
}

func TestScopeSpec_IsEmpty(t *testing.T) {
	var nilSpec *ScopeSpec
	assert.True(t, nilSpec.IsEmpty())
	assert.True(t, (&ScopeSpec{}).IsEmpty())
	assert.True(t, (&ScopeSpec{Exclude: &ExcludeSpec{}}).IsEmpty())

	assert.False(t, (&ScopeSpec{
		HostAggregates: []AggregateRef{{Name: "gpu-pool"}},
	}).IsEmpty())
	assert.False(t, (&ScopeSpec{
		Exclude: &ExcludeSpec{Instances: []InstanceRef{{UUID: "i-1"}}},
	}).IsEmpty())
}

func TestScopeSpec_CoversIdentical(t *testing.T) {
	spec := &ScopeSpec{
		HostAggregates:    []AggregateRef{{Name: "gpu-pool"}, {ID: "7"}},
		AvailabilityZones: []ZoneRef{{Name: "az-1"}},
	}
	assert.True(t, spec.Covers(spec.Clone()))
	assert.True(t, spec.Equal(spec.Clone()))
}

func TestScopeSpec_CoversEmptyIncoming(t *testing.T) {
	spec := &ScopeSpec{HostAggregates: []AggregateRef{{Name: "gpu-pool"}}}
	assert.True(t, spec.Covers(nil))
	assert.True(t, spec.Covers(&ScopeSpec{}))
}

func TestScopeSpec_CoversRejectsNewSelector(t *testing.T) {
	stored := &ScopeSpec{HostAggregates: []AggregateRef{{Name: "gpu-pool"}}}
	incoming := &ScopeSpec{HostAggregates: []AggregateRef{{Name: "gpu-pool"}, {Name: "ssd-pool"}}}
	assert.False(t, stored.Covers(incoming))
	assert.True(t, incoming.Covers(stored))
	assert.False(t, stored.Equal(incoming))
}

func TestScopeSpec_CoversRejectsNewExclude(t *testing.T) {
	stored := &ScopeSpec{HostAggregates: []AggregateRef{{Name: "gpu-pool"}}}
	incoming := stored.Clone()
	incoming.Exclude = &ExcludeSpec{Projects: []ProjectRef{{Name: "batch"}}}
	assert.False(t, stored.Covers(incoming))
}

func TestScopeSpec_CoversMetadataSelectors(t *testing.T) {
	stored := &ScopeSpec{
		AvailabilityZones: []ZoneRef{{Name: "az-1"}},
		Exclude: &ExcludeSpec{
			InstanceMetadata: []map[string]string{{"optimize": "false"}},
		},
	}
	same := stored.Clone()
	assert.True(t, stored.Covers(same))

	different := stored.Clone()
	different.Exclude.InstanceMetadata = []map[string]string{{"optimize": "true"}}
	assert.False(t, stored.Covers(different))
}

func TestScopeSpec_CloneIsDeep(t *testing.T) {
	spec := &ScopeSpec{
		HostAggregates: []AggregateRef{{Name: "gpu-pool"}},
		Exclude: &ExcludeSpec{
			Instances:        []InstanceRef{{UUID: "i-1"}},
			InstanceMetadata: []map[string]string{{"k": "v"}},
		},
	}

	clone := spec.Clone()
	clone.HostAggregates[0].Name = "changed"
	clone.Exclude.Instances[0].UUID = "changed"
	clone.Exclude.InstanceMetadata[0]["k"] = "changed"

	assert.Equal(t, "gpu-pool", spec.HostAggregates[0].Name)
	assert.Equal(t, "i-1", spec.Exclude.Instances[0].UUID)
	assert.Equal(t, "v", spec.Exclude.InstanceMetadata[0]["k"])
}

func TestScopeSpec_DecodeFullDocument(t *testing.T) {
	doc := `{
		"host_aggregates": [{"name": "gpu-pool"}, {"id": 7}],
		"availability_zones": [{"name": "az-1"}],
		"exclude": {
			"instances": [{"uuid": "i-1"}],
			"hosts": [{"name": "node-3"}],
			"projects": [{"uuid": "p-1"}, {"name": "batch"}],
			"instance_metadata": [{"optimize": "false"}]
		}
	}`

	var spec ScopeSpec
	err := json.Unmarshal([]byte(doc), &spec)
	require.NoError(t, err)

	assert.Len(t, spec.HostAggregates, 2)
	assert.Equal(t, "7", spec.HostAggregates[1].ID)
	assert.Equal(t, "az-1", spec.AvailabilityZones[0].Name)
	require.NotNil(t, spec.Exclude)
	assert.Equal(t, "node-3", spec.Exclude.Hosts[0].Name)
	assert.Equal(t, "batch", spec.Exclude.Projects[1].Name)
	assert.Equal(t, "false", spec.Exclude.InstanceMetadata[0]["optimize"])
}
