package model

import "time"

// ShardStats is a per-shard snapshot used for merge eligibility. Built
// fresh each cycle from the shard's current state and discarded at the
// end of the cycle.
type ShardStats struct {
	SegmentCount int
	TranslogAge  time.Duration // time since the earliest unflushed op
	SegmentBytes uint64        // sum of on-disk segment sizes
}
