package service

import (
	"time"

	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/Harsh-87/segmentd/internal/shard"
	"go.uber.org/zap"
)

// ShardEvaluator decides per-shard merge eligibility. Its sort key,
// translog age, orders the candidate batch: the staler a shard's
// translog, the longer it has gone without ingest and the safer it is
// to merge.
type ShardEvaluator struct {
	stats   NodeStatsProvider
	recency time.Duration
	logger  *zap.Logger
}

// NewShardEvaluator creates an evaluator. recency is the minimum
// translog age below which a shard counts as actively ingesting.
func NewShardEvaluator(stats NodeStatsProvider, recency time.Duration, logger *zap.Logger) *ShardEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShardEvaluator{stats: stats, recency: recency, logger: logger}
}

// Evaluate checks one shard and returns the decision together with the
// stats snapshot the decision was made from, so the caller can sort
// candidates without re-reading shard state.
func (e *ShardEvaluator) Evaluate(h shard.Handle) (model.Decision, model.ShardStats) {
	var stats model.ShardStats

	// Replica copies are never force-merged.
	if !h.Primary() {
		e.logger.Debug("Shard is not primary", zap.String("shard_id", h.ID()))
		return model.Deny(model.DenyNotPrimary), stats
	}

	stats, err := h.Stats()
	if err != nil {
		e.logger.Warn("Failed to read shard stats",
			zap.String("shard_id", h.ID()),
			zap.Error(err))
		return model.Deny(model.DenyStatsUnavailable), stats
	}

	// Already optimally merged, a merge would be wasted work.
	if stats.SegmentCount < 2 {
		e.logger.Debug("Shard has less than 2 segments",
			zap.String("shard_id", h.ID()),
			zap.Int("segment_count", stats.SegmentCount))
		return model.Deny(model.DenySegmentCount), stats
	}

	// Recent translog activity means the shard is still ingesting;
	// merging now would contend with write throughput.
	if stats.TranslogAge < e.recency {
		e.logger.Debug("Shard translog is too recent",
			zap.String("shard_id", h.ID()),
			zap.Duration("translog_age", stats.TranslogAge))
		return model.Deny(model.DenyTranslogRecent), stats
	}

	// Merging segments larger than free memory risks page-cache
	// eviction that could destabilize the node.
	freeBytes := e.stats.Snapshot().MemFreeBytes
	if stats.SegmentBytes >= freeBytes {
		e.logger.Debug("Shard segments too large for available memory",
			zap.String("shard_id", h.ID()),
			zap.Uint64("segment_bytes", stats.SegmentBytes),
			zap.Uint64("mem_free_bytes", freeBytes))
		return model.Deny(model.DenySegmentSize), stats
	}

	return model.Allow(), stats
}
