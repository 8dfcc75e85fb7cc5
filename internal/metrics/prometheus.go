package metrics

import (
	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle results reported by the scheduler.
const (
	CycleCompleted         = "completed"
	CycleClusterIneligible = "cluster_ineligible"
	CycleNodeConstrained   = "node_constrained"
)

// Metrics holds all Prometheus metrics for the merge daemon
type Metrics struct {
	// Cycle metrics
	CyclesTotal        prometheus.CounterVec
	CycleDuration      prometheus.Histogram
	CandidatesPerCycle prometheus.Histogram
	BatchAbortsTotal   prometheus.Counter

	// Merge metrics
	MergesTotal   prometheus.CounterVec
	MergeDuration prometheus.Histogram

	// Eligibility metrics
	ShardSkipsTotal  prometheus.CounterVec
	NodeDenialsTotal prometheus.CounterVec

	// System metrics
	CPUPercent      prometheus.Gauge
	MemUsedPercent  prometheus.Gauge
	MemFreeBytes    prometheus.Gauge
	HeapUsedPercent prometheus.Gauge

	// Force-merge pool metrics
	PoolThreads prometheus.Gauge
	PoolActive  prometheus.Gauge
	PoolLargest prometheus.Gauge
	PoolQueue   prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(nodeID string) *Metrics {
	labels := prometheus.Labels{"node_id": nodeID}

	return &Metrics{
		CyclesTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "segmentd",
			Subsystem:   "forcemerge",
			Name:        "cycles_total",
			Help:        "Total number of scheduler cycles by result",
			ConstLabels: labels,
		}, []string{"result"}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "segmentd",
			Subsystem:   "forcemerge",
			Name:        "cycle_duration_seconds",
			Help:        "Histogram of scheduler cycle durations",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms to ~45m
		}),
		CandidatesPerCycle: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "segmentd",
			Subsystem:   "forcemerge",
			Name:        "candidates_per_cycle",
			Help:        "Histogram of eligible candidates per cycle",
			ConstLabels: labels,
			Buckets:     prometheus.LinearBuckets(0, 1, 10),
		}),
		BatchAbortsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace:   "segmentd",
			Subsystem:   "forcemerge",
			Name:        "batch_aborts_total",
			Help:        "Total number of batches stopped early by a mid-batch resource recheck",
			ConstLabels: labels,
		}),
		MergesTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "segmentd",
			Subsystem:   "forcemerge",
			Name:        "merges_total",
			Help:        "Total number of force merges by status",
			ConstLabels: labels,
		}, []string{"status"}),
		MergeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "segmentd",
			Subsystem:   "forcemerge",
			Name:        "merge_duration_seconds",
			Help:        "Histogram of per-shard force merge durations",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
		ShardSkipsTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "segmentd",
			Subsystem:   "forcemerge",
			Name:        "shard_skips_total",
			Help:        "Total number of shards skipped by eligibility reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		NodeDenialsTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "segmentd",
			Subsystem:   "forcemerge",
			Name:        "node_denials_total",
			Help:        "Total number of node resource denials by reason",
			ConstLabels: labels,
		}, []string{"reason"}),

		CPUPercent: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "segmentd",
			Subsystem:   "system",
			Name:        "cpu_percent",
			Help:        "CPU usage percentage from the latest snapshot",
			ConstLabels: labels,
		}),
		MemUsedPercent: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "segmentd",
			Subsystem:   "system",
			Name:        "mem_used_percent",
			Help:        "Memory usage percentage from the latest snapshot",
			ConstLabels: labels,
		}),
		MemFreeBytes: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "segmentd",
			Subsystem:   "system",
			Name:        "mem_free_bytes",
			Help:        "Free memory in bytes from the latest snapshot",
			ConstLabels: labels,
		}),
		HeapUsedPercent: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "segmentd",
			Subsystem:   "system",
			Name:        "heap_used_percent",
			Help:        "Heap usage percentage from the latest snapshot",
			ConstLabels: labels,
		}),

		PoolThreads: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "segmentd",
			Subsystem:   "pool",
			Name:        "threads",
			Help:        "Force-merge pool worker count",
			ConstLabels: labels,
		}),
		PoolActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "segmentd",
			Subsystem:   "pool",
			Name:        "active",
			Help:        "Force-merge pool active workers",
			ConstLabels: labels,
		}),
		PoolLargest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "segmentd",
			Subsystem:   "pool",
			Name:        "largest",
			Help:        "Force-merge pool historical peak of active workers",
			ConstLabels: labels,
		}),
		PoolQueue: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace:   "segmentd",
			Subsystem:   "pool",
			Name:        "queue",
			Help:        "Force-merge pool queued tasks",
			ConstLabels: labels,
		}),
	}
}

// RecordCycle records one completed scheduler cycle
func (m *Metrics) RecordCycle(result string, duration float64, candidates int) {
	m.CyclesTotal.WithLabelValues(result).Inc()
	m.CycleDuration.Observe(duration)
	m.CandidatesPerCycle.Observe(float64(candidates))
}

// RecordMerge records one force merge attempt
func (m *Metrics) RecordMerge(success bool, duration float64) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.MergesTotal.WithLabelValues(status).Inc()
	m.MergeDuration.Observe(duration)
}

// RecordShardSkip records a shard excluded by the eligibility evaluator
func (m *Metrics) RecordShardSkip(reason model.DenyReason) {
	m.ShardSkipsTotal.WithLabelValues(string(reason)).Inc()
}

// RecordNodeDenial records a resource health denial
func (m *Metrics) RecordNodeDenial(reason model.DenyReason) {
	m.NodeDenialsTotal.WithLabelValues(string(reason)).Inc()
}

// RecordBatchAbort records a batch stopped early by the mid-batch recheck
func (m *Metrics) RecordBatchAbort() {
	m.BatchAbortsTotal.Inc()
}

// UpdateSnapshot publishes the latest resource snapshot
func (m *Metrics) UpdateSnapshot(snap model.ResourceSnapshot) {
	m.CPUPercent.Set(snap.CPUPercent)
	m.MemUsedPercent.Set(snap.MemUsedPercent)
	m.MemFreeBytes.Set(float64(snap.MemFreeBytes))
	m.HeapUsedPercent.Set(snap.HeapUsedPercent)
}

// UpdatePoolStats publishes the force-merge pool counters
func (m *Metrics) UpdatePoolStats(stats model.PoolStats) {
	m.PoolThreads.Set(float64(stats.Threads))
	m.PoolActive.Set(float64(stats.Active))
	m.PoolLargest.Set(float64(stats.Largest))
	m.PoolQueue.Set(float64(stats.Queue))
}
