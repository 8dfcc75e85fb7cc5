package service_test

import (
	"sync"

	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/Harsh-87/segmentd/internal/shard"
)

// stubStats always returns the same snapshot.
type stubStats struct {
	snap model.ResourceSnapshot
}

func (s *stubStats) Snapshot() model.ResourceSnapshot {
	return s.snap
}

// seqStats returns queued snapshots in order, repeating the last one
// once the queue is drained.
type seqStats struct {
	mu    sync.Mutex
	snaps []model.ResourceSnapshot
	calls int
}

func (s *seqStats) Snapshot() model.ResourceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.snaps) == 0 {
		return model.ResourceSnapshot{}
	}
	snap := s.snaps[0]
	if len(s.snaps) > 1 {
		s.snaps = s.snaps[1:]
	}
	return snap
}

// healthySnapshot is a snapshot that passes every monitor check with
// plenty of free memory for the segment-size check.
func healthySnapshot() model.ResourceSnapshot {
	return model.ResourceSnapshot{
		CPUPercent:          20,
		MemUsedPercent:      30,
		MemFreeBytes:        64 << 30, // 64GB
		HeapUsedPercent:     40,
		GCActive:            false,
		MergeWorkerHeadroom: true,
	}
}

// stubInfo is a fixed cluster info provider.
type stubInfo struct {
	remoteStore bool
	warmNode    bool
}

func (s *stubInfo) RemoteStoreEnabled() bool { return s.remoteStore }
func (s *stubInfo) HasWarmNode() bool        { return s.warmNode }

// fakeShard is a scripted shard handle recording merge invocations.
type fakeShard struct {
	id       string
	primary  bool
	stats    model.ShardStats
	statsErr error
	mergeErr error
	onMerge  func(id string)

	mu     sync.Mutex
	merges []int
}

func (f *fakeShard) ID() string    { return f.id }
func (f *fakeShard) Primary() bool { return f.primary }

func (f *fakeShard) Stats() (model.ShardStats, error) {
	if f.statsErr != nil {
		return model.ShardStats{}, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeShard) ForceMerge(maxSegments int) error {
	f.mu.Lock()
	f.merges = append(f.merges, maxSegments)
	f.mu.Unlock()
	if f.onMerge != nil {
		f.onMerge(f.id)
	}
	return f.mergeErr
}

func (f *fakeShard) mergeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.merges)
}

// fakeRegistry returns a fixed set of shard handles.
type fakeRegistry struct {
	shards []shard.Handle
}

func (r *fakeRegistry) PrimaryShards() []shard.Handle {
	primaries := make([]shard.Handle, 0, len(r.shards))
	for _, h := range r.shards {
		if h.Primary() {
			primaries = append(primaries, h)
		}
	}
	return primaries
}
