package model_test

import (
	"encoding/json"
	"testing"

	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolStats_Headroom(t *testing.T) {
	tests := []struct {
		name  string
		stats model.PoolStats
		want  bool
	}{
		{"idle pool", model.PoolStats{Threads: 4, Active: 0, Largest: 4}, true},
		{"partially busy", model.PoolStats{Threads: 4, Active: 3, Largest: 4}, true},
		{"saturated", model.PoolStats{Threads: 4, Active: 4, Largest: 4}, false},
		{"zero pool", model.PoolStats{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Headroom())
		})
	}
}

func TestDecision_Constructors(t *testing.T) {
	allow := model.Allow()
	assert.True(t, allow.Allowed)
	assert.Empty(t, allow.Reason)

	deny := model.Deny(model.DenyCPU)
	assert.False(t, deny.Allowed)
	assert.Equal(t, model.DenyCPU, deny.Reason)
}

func TestNodeMeta_HasRole(t *testing.T) {
	meta := model.NodeMeta{
		NodeID: "node-1",
		Roles:  []model.NodeRole{model.NodeRoleHot},
	}
	assert.True(t, meta.HasRole(model.NodeRoleHot))
	assert.False(t, meta.HasRole(model.NodeRoleWarm))
}

func TestNodeMeta_JSONRoundTrip(t *testing.T) {
	meta := model.NodeMeta{
		NodeID:    "node-1",
		Roles:     []model.NodeRole{model.NodeRoleHot, model.NodeRoleWarm},
		Status:    model.NodeStatusHealthy,
		Timestamp: 1700000000,
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded model.NodeMeta
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, meta, decoded)
}
