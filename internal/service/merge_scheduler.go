package service

import (
	"context"
	"sort"
	"time"

	errs "github.com/Harsh-87/segmentd/internal/errors"
	"github.com/Harsh-87/segmentd/internal/metrics"
	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/Harsh-87/segmentd/internal/shard"
	"go.uber.org/zap"
)

// candidate pairs a shard handle with the stats snapshot it was
// admitted on. Candidates live for one cycle only.
type candidate struct {
	handle shard.Handle
	stats  model.ShardStats
}

// MergeScheduler runs one maintenance cycle: gate the cluster, check
// node health, collect and order eligible shards, then merge them one
// by one with a health recheck before each. Nothing a cycle encounters
// is surfaced to a caller; eligibility denials and per-shard merge
// failures are handled here.
type MergeScheduler struct {
	gate        *ClusterGate
	monitor     *NodeMonitor
	evaluator   *ShardEvaluator
	registry    ShardRegistry
	maxSegments int
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// MergeSchedulerConfig holds the scheduler's knobs.
type MergeSchedulerConfig struct {
	MaxSegments int
}

// NewMergeScheduler wires the scheduler from its three validators and
// the shard registry. metrics may be nil (tests).
func NewMergeScheduler(
	cfg *MergeSchedulerConfig,
	gate *ClusterGate,
	monitor *NodeMonitor,
	evaluator *ShardEvaluator,
	registry ShardRegistry,
	logger *zap.Logger,
	m *metrics.Metrics,
) *MergeScheduler {
	maxSegments := cfg.MaxSegments
	if maxSegments < 1 {
		maxSegments = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeScheduler{
		gate:        gate,
		monitor:     monitor,
		evaluator:   evaluator,
		registry:    registry,
		maxSegments: maxSegments,
		logger:      logger,
		metrics:     m,
	}
}

// RunCycle executes one full scheduling cycle.
func (s *MergeScheduler) RunCycle(ctx context.Context) {
	start := time.Now()

	// Cluster-wide gate. A denial skips this cycle only; the
	// configuration can change before the next one.
	if decision := s.gate.Evaluate(); !decision.Allowed {
		s.recordCycle(metrics.CycleClusterIneligible, start, 0)
		return
	}

	// Up-front node health check.
	if decision := s.monitor.Check(); !decision.Allowed {
		s.recordNodeDenial(decision.Reason)
		s.recordCycle(metrics.CycleNodeConstrained, start, 0)
		return
	}

	candidates := s.collectCandidates()
	if len(candidates) == 0 {
		s.logger.Debug("No eligible shards for force merge")
		s.recordCycle(metrics.CycleCompleted, start, 0)
		return
	}

	s.logger.Info("Starting force merge batch",
		zap.Int("candidates", len(candidates)))

	s.runBatch(candidates)
	s.recordCycle(metrics.CycleCompleted, start, len(candidates))
}

// collectCandidates evaluates every primary shard and returns the
// allowed ones ordered by translog age, oldest first. Ties break on
// shard id so iteration order is reproducible.
func (s *MergeScheduler) collectCandidates() []candidate {
	var candidates []candidate
	for _, h := range s.registry.PrimaryShards() {
		decision, stats := s.evaluator.Evaluate(h)
		if !decision.Allowed {
			s.recordShardSkip(decision.Reason)
			continue
		}
		candidates = append(candidates, candidate{handle: h, stats: stats})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].stats.TranslogAge != candidates[j].stats.TranslogAge {
			return candidates[i].stats.TranslogAge > candidates[j].stats.TranslogAge
		}
		return candidates[i].handle.ID() < candidates[j].handle.ID()
	})
	return candidates
}

// runBatch merges candidates in order. Node health is revalidated
// before each one; a denial stops the remainder of the batch, since
// node-level strain is not shard-specific. A failed merge is logged
// and the batch moves on.
func (s *MergeScheduler) runBatch(candidates []candidate) {
	merged := 0
	for _, c := range candidates {
		if decision := s.monitor.Check(); !decision.Allowed {
			s.logger.Info("Node conditions no longer suitable, stopping batch",
				zap.String("reason", string(decision.Reason)),
				zap.Int("merged", merged),
				zap.Int("remaining", len(candidates)-merged))
			s.recordNodeDenial(decision.Reason)
			if s.metrics != nil {
				s.metrics.RecordBatchAbort()
			}
			return
		}

		mergeStart := time.Now()
		err := c.handle.ForceMerge(s.maxSegments)
		duration := time.Since(mergeStart)

		if err != nil {
			s.logger.Error("Force merge failed",
				zap.String("shard_id", c.handle.ID()),
				zap.Duration("duration", duration),
				zap.Error(errs.MergeFailed(c.handle.ID(), err)))
			if s.metrics != nil {
				s.metrics.RecordMerge(false, duration.Seconds())
			}
			continue
		}

		merged++
		s.logger.Info("Force merge completed",
			zap.String("shard_id", c.handle.ID()),
			zap.Int("max_segments", s.maxSegments),
			zap.Duration("translog_age", c.stats.TranslogAge),
			zap.Duration("duration", duration))
		if s.metrics != nil {
			s.metrics.RecordMerge(true, duration.Seconds())
		}
	}
}

func (s *MergeScheduler) recordCycle(result string, start time.Time, candidates int) {
	if s.metrics != nil {
		s.metrics.RecordCycle(result, time.Since(start).Seconds(), candidates)
	}
}

func (s *MergeScheduler) recordNodeDenial(reason model.DenyReason) {
	if s.metrics != nil {
		s.metrics.RecordNodeDenial(reason)
	}
}

func (s *MergeScheduler) recordShardSkip(reason model.DenyReason) {
	if s.metrics != nil {
		s.metrics.RecordShardSkip(reason)
	}
}
