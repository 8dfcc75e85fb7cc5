package sysstats

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Harsh-87/segmentd/internal/model"
	"go.uber.org/zap"
)

// PoolStatser exposes the force-merge worker pool counters.
type PoolStatser interface {
	PoolStats() model.PoolStats
}

// Collector samples node resource usage. Every Snapshot call produces a
// fresh reading; nothing is cached across calls except the previous CPU
// and GC samples needed to compute deltas over the sampling window.
type Collector struct {
	logger *zap.Logger
	pool   PoolStatser

	mu        sync.Mutex
	lastTotal uint64
	lastIdle  uint64
	lastNumGC uint32
	primed    bool
}

// NewCollector creates a collector bound to the force-merge pool.
func NewCollector(pool PoolStatser, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger, pool: pool}
}

// Snapshot returns a fresh point-in-time resource reading.
func (c *Collector) Snapshot() model.ResourceSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := model.ResourceSnapshot{CapturedAt: time.Now()}

	snap.CPUPercent = c.sampleCPU()

	usedPercent, freeBytes := readMeminfo(c.logger)
	snap.MemUsedPercent = usedPercent
	snap.MemFreeBytes = freeBytes

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapSys > 0 {
		snap.HeapUsedPercent = float64(ms.HeapAlloc) / float64(ms.HeapSys) * 100
	}

	// A collector ran if NumGC advanced since the previous snapshot.
	if c.primed {
		snap.GCActive = ms.NumGC != c.lastNumGC
	}
	c.lastNumGC = ms.NumGC

	if c.pool != nil {
		snap.MergeWorkerHeadroom = c.pool.PoolStats().Headroom()
	}

	c.primed = true
	return snap
}

// sampleCPU computes busy percentage over the window since the last
// call from /proc/stat aggregate counters. The first call has no
// window and reports zero.
func (c *Collector) sampleCPU() float64 {
	total, idle, ok := readProcStat(c.logger)
	if !ok {
		return 0
	}

	var percent float64
	if c.primed && total > c.lastTotal {
		dTotal := total - c.lastTotal
		dIdle := idle - c.lastIdle
		if dIdle > dTotal {
			dIdle = dTotal
		}
		percent = float64(dTotal-dIdle) / float64(dTotal) * 100
	}
	c.lastTotal = total
	c.lastIdle = idle
	return percent
}

// readProcStat parses the aggregate cpu line of /proc/stat.
func readProcStat(logger *zap.Logger) (total, idle uint64, ok bool) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		logger.Debug("CPU stats unavailable", zap.Error(err))
		return 0, 0, false
	}

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}
		for i, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return 0, 0, false
			}
			total += v
			// fields: user nice system idle iowait ...
			if i == 3 || i == 4 {
				idle += v
			}
		}
		return total, idle, true
	}
	return 0, 0, false
}

// readMeminfo parses MemTotal and MemAvailable from /proc/meminfo.
func readMeminfo(logger *zap.Logger) (usedPercent float64, freeBytes uint64) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		logger.Debug("Memory stats unavailable", zap.Error(err))
		return 0, 0
	}

	var totalKB, availKB uint64
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = v
		case "MemAvailable:":
			availKB = v
		}
	}

	if totalKB == 0 {
		return 0, 0
	}
	used := totalKB - availKB
	return float64(used) / float64(totalKB) * 100, availKB * 1024
}
