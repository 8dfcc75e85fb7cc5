package service

import (
	"context"
	"sync"
	"time"

	errs "github.com/Harsh-87/segmentd/internal/errors"
	"github.com/Harsh-87/segmentd/internal/util/workerpool"
	"go.uber.org/zap"
)

// CycleFunc is one maintenance cycle.
type CycleFunc func(context.Context)

// driverState tracks the recurring task's lifecycle.
type driverState int

const (
	stateIdle driverState = iota
	stateScheduled
	stateRunning
	stateCancelled
)

// Driver arms a recurring fixed-delay timer that runs one cycle at a
// time on the dedicated force-merge worker pool. The next cycle is
// armed only after the current one fully completes, so cycle duration
// can never cause overlapping runs. Completion always re-arms, whatever
// the cycle's outcome: a single bad cycle must not silently disable
// future maintenance. Cancellation is terminal and does not interrupt
// an in-flight cycle.
type Driver struct {
	interval time.Duration
	pool     *workerpool.WorkerPool
	cycle    CycleFunc
	logger   *zap.Logger

	mu             sync.Mutex
	state          driverState
	timer          *time.Timer
	lastCycleStart time.Time
}

// NewDriver creates a driver in the idle state. Start arms it.
func NewDriver(interval time.Duration, pool *workerpool.WorkerPool, cycle CycleFunc, logger *zap.Logger) *Driver {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		interval: interval,
		pool:     pool,
		cycle:    cycle,
		logger:   logger,
	}
}

// Start arms the recurring timer. Idempotent; a cancelled driver stays
// cancelled.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != stateIdle {
		return
	}
	d.state = stateScheduled
	d.armLocked()

	d.logger.Info("Merge driver started", zap.Duration("interval", d.interval))
}

// TriggerNow runs a cycle immediately instead of waiting for the
// timer. The regular schedule resumes after the cycle completes.
func (d *Driver) TriggerNow() error {
	d.mu.Lock()
	switch d.state {
	case stateCancelled, stateIdle:
		d.mu.Unlock()
		return errs.DriverStopped()
	case stateRunning:
		d.mu.Unlock()
		return errs.CycleRunning()
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.fire()
	return nil
}

// Stop cancels future cycles. Idempotent. An in-flight cycle runs to
// completion but will not re-arm.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == stateCancelled {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.state = stateCancelled

	d.logger.Info("Merge driver stopped")
}

// Running reports whether a cycle is currently executing.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == stateRunning
}

// Cancelled reports whether the driver has been stopped.
func (d *Driver) Cancelled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == stateCancelled
}

// LastCycleStart returns when the most recent cycle began.
func (d *Driver) LastCycleStart() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastCycleStart
}

// armLocked schedules the next firing. Caller holds d.mu.
func (d *Driver) armLocked() {
	d.timer = time.AfterFunc(d.interval, d.fire)
}

// fire moves the driver to running and hands the cycle to the pool.
func (d *Driver) fire() {
	d.mu.Lock()
	if d.state != stateScheduled {
		d.mu.Unlock()
		return
	}
	d.state = stateRunning
	d.lastCycleStart = time.Now()
	d.mu.Unlock()

	task := workerpool.Task{
		ID: "force-merge-cycle",
		Fn: func(ctx context.Context) error {
			defer d.cycleDone()
			d.runCycle(ctx)
			return nil
		},
	}

	if err := d.pool.Submit(task); err != nil {
		// Pool saturated or stopped: skip this cycle but keep the
		// schedule alive.
		d.logger.Warn("Could not submit merge cycle", zap.Error(err))
		d.cycleDone()
	}
}

// runCycle executes one cycle, absorbing panics so a failing cycle can
// never stop future scheduling.
func (d *Driver) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Merge cycle panicked", zap.Any("panic", r))
		}
	}()
	d.cycle(ctx)
}

// cycleDone re-arms the timer unless the driver was cancelled while the
// cycle ran.
func (d *Driver) cycleDone() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == stateCancelled {
		return
	}
	d.state = stateScheduled
	d.armLocked()
}
