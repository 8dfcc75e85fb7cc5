package service_test

import (
	"testing"

	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/Harsh-87/segmentd/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClusterGate_Evaluate(t *testing.T) {
	tests := []struct {
		name        string
		remoteStore bool
		warmNode    bool
		wantAllowed bool
		wantReason  model.DenyReason
	}{
		{
			name:        "remote store disabled",
			remoteStore: false,
			warmNode:    true,
			wantAllowed: false,
			wantReason:  model.DenyRemoteStoreDisabled,
		},
		{
			name:        "no warm node",
			remoteStore: true,
			warmNode:    false,
			wantAllowed: false,
			wantReason:  model.DenyNoWarmNode,
		},
		{
			name:        "both missing reports remote store first",
			remoteStore: false,
			warmNode:    false,
			wantAllowed: false,
			wantReason:  model.DenyRemoteStoreDisabled,
		},
		{
			name:        "eligible cluster",
			remoteStore: true,
			warmNode:    true,
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := service.NewClusterGate(&stubInfo{
				remoteStore: tt.remoteStore,
				warmNode:    tt.warmNode,
			}, zap.NewNop())

			decision := gate.Evaluate()
			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			if !tt.wantAllowed {
				assert.Equal(t, tt.wantReason, decision.Reason)
			}
		})
	}
}

func TestClusterGate_ReEvaluatesEachCall(t *testing.T) {
	info := &stubInfo{remoteStore: false, warmNode: true}
	gate := service.NewClusterGate(info, zap.NewNop())

	assert.False(t, gate.Evaluate().Allowed)

	// A denial is not sticky; flipping the configuration makes the
	// next evaluation pass.
	info.remoteStore = true
	assert.True(t, gate.Evaluate().Allowed)
}
