package service

import (
	"github.com/Harsh-87/segmentd/internal/model"
	"go.uber.org/zap"
)

// ClusterGate decides whether auto force merge applies to this cluster
// at all. Merging ahead of time only pays off when cold data can be
// offloaded to remote storage and warm capacity exists to receive it,
// so both flags must hold. A denial here short-circuits the whole
// cycle.
type ClusterGate struct {
	info   ClusterInfoProvider
	logger *zap.Logger
}

// NewClusterGate creates a gate backed by the given cluster info provider.
func NewClusterGate(info ClusterInfoProvider, logger *zap.Logger) *ClusterGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClusterGate{info: info, logger: logger}
}

// Evaluate reads the cluster configuration fresh and returns whether
// auto force merge is applicable.
func (g *ClusterGate) Evaluate() model.Decision {
	if !g.info.RemoteStoreEnabled() {
		g.logger.Info("Cluster not eligible for auto force merge",
			zap.String("reason", string(model.DenyRemoteStoreDisabled)))
		return model.Deny(model.DenyRemoteStoreDisabled)
	}

	if !g.info.HasWarmNode() {
		g.logger.Info("Cluster not eligible for auto force merge",
			zap.String("reason", string(model.DenyNoWarmNode)))
		return model.Deny(model.DenyNoWarmNode)
	}

	return model.Allow()
}
