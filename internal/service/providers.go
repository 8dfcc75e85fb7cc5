package service

import (
	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/Harsh-87/segmentd/internal/shard"
)

// NodeStatsProvider yields point-in-time node resource snapshots. Every
// call must return a fresh reading; implementations never cache.
type NodeStatsProvider interface {
	Snapshot() model.ResourceSnapshot
}

// ClusterInfoProvider exposes the cluster-wide tiering configuration
// read once per cycle by the eligibility gate.
type ClusterInfoProvider interface {
	RemoteStoreEnabled() bool
	HasWarmNode() bool
}

// ShardRegistry enumerates the primary shards hosted on this node.
type ShardRegistry interface {
	PrimaryShards() []shard.Handle
}

// PoolStatsProvider exposes the force-merge worker pool counters.
type PoolStatsProvider interface {
	PoolStats() model.PoolStats
}
