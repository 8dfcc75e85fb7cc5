package service

import (
	"github.com/Harsh-87/segmentd/internal/model"
	"go.uber.org/zap"
)

// NodeThresholds configures the resource health monitor.
type NodeThresholds struct {
	CPUPercent  float64
	MemPercent  float64
	HeapPercent float64
}

// NodeMonitor checks whether node resources permit a force merge right
// now. The scheduler re-runs it before every candidate, not just once
// per cycle: merges are resource-intensive and node conditions shift
// while a batch runs.
type NodeMonitor struct {
	stats      NodeStatsProvider
	thresholds NodeThresholds
	logger     *zap.Logger
}

// NewNodeMonitor creates a monitor with the given thresholds.
func NewNodeMonitor(stats NodeStatsProvider, thresholds NodeThresholds, logger *zap.Logger) *NodeMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NodeMonitor{stats: stats, thresholds: thresholds, logger: logger}
}

// Check takes a fresh snapshot and evaluates it. The snapshot is never
// reused across calls.
func (m *NodeMonitor) Check() model.Decision {
	return m.Evaluate(m.stats.Snapshot())
}

// Evaluate applies the threshold checks to one snapshot, denying on the
// first failing condition. Each denial logs the metric that triggered
// it.
func (m *NodeMonitor) Evaluate(snap model.ResourceSnapshot) model.Decision {
	if snap.CPUPercent > m.thresholds.CPUPercent {
		m.logger.Info("CPU usage too high for force merge",
			zap.Float64("cpu_percent", snap.CPUPercent),
			zap.Float64("threshold", m.thresholds.CPUPercent))
		return model.Deny(model.DenyCPU)
	}

	if snap.MemUsedPercent > m.thresholds.MemPercent {
		m.logger.Info("Memory usage too high for force merge",
			zap.Float64("mem_used_percent", snap.MemUsedPercent),
			zap.Float64("threshold", m.thresholds.MemPercent))
		return model.Deny(model.DenyMemory)
	}

	if snap.HeapUsedPercent > m.thresholds.HeapPercent {
		m.logger.Info("Heap usage too high for force merge",
			zap.Float64("heap_used_percent", snap.HeapUsedPercent),
			zap.Float64("threshold", m.thresholds.HeapPercent))
		return model.Deny(model.DenyHeap)
	}

	if snap.GCActive {
		m.logger.Info("GC ran in the sampling window, deferring force merge")
		return model.Deny(model.DenyGCActive)
	}

	if !snap.MergeWorkerHeadroom {
		m.logger.Info("No idle force merge workers available")
		return model.Deny(model.DenyNoMergeWorkers)
	}

	return model.Allow()
}
