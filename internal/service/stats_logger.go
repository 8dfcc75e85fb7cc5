package service

import (
	"context"
	"time"

	errs "github.com/Harsh-87/segmentd/internal/errors"
	"github.com/Harsh-87/segmentd/internal/metrics"
	"go.uber.org/zap"
)

// StatsLogger is a flat periodic batch job that logs node and per-shard
// stats and publishes them to prometheus. It makes no decisions; it
// exists so operators can see the same readings the merge scheduler
// acts on.
type StatsLogger struct {
	stats    NodeStatsProvider
	registry ShardRegistry
	pool     PoolStatsProvider
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewStatsLogger creates a stats logger. metrics may be nil (tests).
func NewStatsLogger(
	stats NodeStatsProvider,
	registry ShardRegistry,
	pool PoolStatsProvider,
	interval time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *StatsLogger {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsLogger{
		stats:    stats,
		registry: registry,
		pool:     pool,
		interval: interval,
		logger:   logger,
		metrics:  m,
	}
}

// Start runs the collection loop until the context is cancelled.
func (l *StatsLogger) Start(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// Run initial collection
	l.Collect()

	for {
		select {
		case <-ticker.C:
			l.Collect()
		case <-ctx.Done():
			l.logger.Info("Stats logger stopped")
			return
		}
	}
}

// Collect gathers and emits one round of stats.
func (l *StatsLogger) Collect() {
	snap := l.stats.Snapshot()
	l.logger.Info("Node resource stats",
		zap.Float64("cpu_percent", snap.CPUPercent),
		zap.Float64("mem_used_percent", snap.MemUsedPercent),
		zap.Uint64("mem_free_bytes", snap.MemFreeBytes),
		zap.Float64("heap_used_percent", snap.HeapUsedPercent),
		zap.Bool("gc_active", snap.GCActive))
	if l.metrics != nil {
		l.metrics.UpdateSnapshot(snap)
	}

	if l.pool != nil {
		stats := l.pool.PoolStats()
		l.logger.Info("Force merge pool stats",
			zap.Int("threads", stats.Threads),
			zap.Int("active", stats.Active),
			zap.Int("largest", stats.Largest),
			zap.Int("queue", stats.Queue))
		if l.metrics != nil {
			l.metrics.UpdatePoolStats(stats)
		}
	}

	for _, h := range l.registry.PrimaryShards() {
		stats, err := h.Stats()
		if err != nil {
			l.logger.Warn("Failed to read shard stats",
				zap.String("shard_id", h.ID()),
				zap.Error(errs.StatsFailed(h.ID(), err)))
			continue
		}
		l.logger.Info("Primary shard stats",
			zap.String("shard_id", h.ID()),
			zap.Int("segment_count", stats.SegmentCount),
			zap.Duration("translog_age", stats.TranslogAge),
			zap.Uint64("segment_bytes", stats.SegmentBytes))
	}
}
