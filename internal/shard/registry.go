package shard

import (
	"sort"
	"sync"

	"github.com/Harsh-87/segmentd/internal/model"
	"go.uber.org/zap"
)

// Handle is the scheduler's view of one locally hosted shard. The
// storage engine owns the shard; the handle only exposes the stats and
// the merge entry point the scheduler needs.
type Handle interface {
	// ID returns the shard's identifier, unique on this node.
	ID() string
	// Primary reports whether this copy is the authoritative one.
	Primary() bool
	// Stats returns a fresh per-shard snapshot.
	Stats() (model.ShardStats, error)
	// ForceMerge compacts the shard's segments down to at most
	// maxSegments. Blocks until the merge finishes or fails.
	ForceMerge(maxSegments int) error
}

// Registry tracks the shards hosted on this node. The storage engine
// registers a handle when a shard is allocated here and deregisters it
// on relocation or deletion.
type Registry struct {
	logger *zap.Logger

	mu     sync.RWMutex
	shards map[string]Handle
}

// NewRegistry creates an empty shard registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger: logger,
		shards: make(map[string]Handle),
	}
}

// Register adds or replaces a shard handle.
func (r *Registry) Register(h Handle) {
	r.mu.Lock()
	r.shards[h.ID()] = h
	r.mu.Unlock()

	r.logger.Info("Shard registered",
		zap.String("shard_id", h.ID()),
		zap.Bool("primary", h.Primary()))
}

// Deregister removes a shard handle by id.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	_, ok := r.shards[id]
	delete(r.shards, id)
	r.mu.Unlock()

	if ok {
		r.logger.Info("Shard deregistered", zap.String("shard_id", id))
	}
}

// PrimaryShards returns the primary shards hosted on this node, in
// stable id order.
func (r *Registry) PrimaryShards() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	primaries := make([]Handle, 0, len(r.shards))
	for _, h := range r.shards {
		if h.Primary() {
			primaries = append(primaries, h)
		}
	}
	sort.Slice(primaries, func(i, j int) bool {
		return primaries[i].ID() < primaries[j].ID()
	})
	return primaries
}

// Len returns the number of registered shards.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shards)
}
