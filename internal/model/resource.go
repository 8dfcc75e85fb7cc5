package model

import "time"

// ResourceSnapshot is a point-in-time reading of node resource usage.
// A snapshot is taken fresh on every evaluation and is never reused
// across a revalidation boundary.
type ResourceSnapshot struct {
	CPUPercent          float64
	MemUsedPercent      float64
	MemFreeBytes        uint64
	HeapUsedPercent     float64
	GCActive            bool // a collector ran in the sampling window
	MergeWorkerHeadroom bool // the force-merge pool has an idle worker
	CapturedAt          time.Time
}

// PoolStats mirrors the force-merge worker pool counters used for
// headroom checks and stats logging.
type PoolStats struct {
	Threads int
	Active  int
	Largest int
	Queue   int
}

// Headroom reports whether the pool has idle capacity relative to its
// historical peak.
func (s PoolStats) Headroom() bool {
	return s.Largest-s.Active > 0
}
