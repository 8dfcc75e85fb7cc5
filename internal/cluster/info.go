package cluster

// WarmNodeSource answers whether the cluster currently has a warm-tier
// member. Backed by gossip membership in production.
type WarmNodeSource interface {
	HasWarmNode() bool
}

// Info provides the cluster-wide configuration read each cycle by the
// eligibility gate. Reads are always answered from current state; the
// gate never caches them.
type Info struct {
	remoteStoreEnabled bool
	warmNodes          WarmNodeSource
}

// NewInfo builds a cluster info provider from the configured remote
// store flag and a warm-node source.
func NewInfo(remoteStoreEnabled bool, warmNodes WarmNodeSource) *Info {
	return &Info{
		remoteStoreEnabled: remoteStoreEnabled,
		warmNodes:          warmNodes,
	}
}

// RemoteStoreEnabled reports whether remote-backed storage is enabled
// cluster-wide.
func (i *Info) RemoteStoreEnabled() bool {
	return i.remoteStoreEnabled
}

// HasWarmNode reports whether any warm-tier node exists in the cluster.
func (i *Info) HasWarmNode() bool {
	if i.warmNodes == nil {
		return false
	}
	return i.warmNodes.HasWarmNode()
}

// StaticWarmNodes is a fixed warm-node source, used when gossip is
// disabled and topology comes from configuration.
type StaticWarmNodes bool

// HasWarmNode implements WarmNodeSource.
func (s StaticWarmNodes) HasWarmNode() bool {
	return bool(s)
}
