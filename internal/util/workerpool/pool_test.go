package workerpool_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Harsh-87/segmentd/internal/util/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPool(t *testing.T, workers, queue int) *workerpool.WorkerPool {
	t.Helper()
	pool := workerpool.NewWorkerPool(&workerpool.Config{
		Name:       "test",
		MaxWorkers: workers,
		QueueSize:  queue,
		Logger:     zap.NewNop(),
	})
	t.Cleanup(func() { pool.Stop(time.Second) })
	return pool
}

func TestWorkerPool_ExecutesSubmittedTasks(t *testing.T) {
	pool := newPool(t, 2, 8)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)

	for _, id := range []string{"a", "b", "c"} {
		wg.Add(1)
		taskID := id
		err := pool.Submit(workerpool.Task{
			ID: taskID,
			Fn: func(ctx context.Context) error {
				defer wg.Done()
				mu.Lock()
				seen[taskID] = true
				mu.Unlock()
				return nil
			},
		})
		require.NoError(t, err)
	}

	wg.Wait()
	assert.Len(t, seen, 3)

	stats := pool.Stats()
	assert.Equal(t, uint64(3), stats.TotalTasks)
}

func TestWorkerPool_TaskPanicIsContained(t *testing.T) {
	pool := newPool(t, 1, 4)

	done := make(chan struct{})
	require.NoError(t, pool.Submit(workerpool.Task{
		ID: "boom",
		Fn: func(ctx context.Context) error {
			defer close(done)
			panic("task exploded")
		},
	}))
	<-done

	// The worker survived the panic and keeps serving.
	ran := make(chan struct{})
	require.NoError(t, pool.Submit(workerpool.Task{
		ID: "after",
		Fn: func(ctx context.Context) error {
			close(ran)
			return nil
		},
	}))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from task panic")
	}
}

func TestWorkerPool_FailedTasksCounted(t *testing.T) {
	pool := newPool(t, 1, 4)

	done := make(chan struct{})
	require.NoError(t, pool.Submit(workerpool.Task{
		ID: "fail",
		Fn: func(ctx context.Context) error {
			defer close(done)
			return errors.New("task error")
		},
	}))
	<-done

	// The counter update races the channel close by a hair; poll.
	assert.Eventually(t, func() bool {
		return pool.Stats().FailedTasks == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWorkerPool_SubmitRejectsWhenQueueFull(t *testing.T) {
	pool := newPool(t, 1, 1)

	block := make(chan struct{})
	require.NoError(t, pool.Submit(workerpool.Task{
		ID: "blocker",
		Fn: func(ctx context.Context) error {
			<-block
			return nil
		},
	}))

	// Fill the queue, then overflow it.
	filled := false
	rejected := false
	for i := 0; i < 10; i++ {
		err := pool.Submit(workerpool.Task{
			ID: "filler",
			Fn: func(ctx context.Context) error { return nil },
		})
		if err == nil {
			filled = true
		} else {
			rejected = true
			break
		}
	}
	close(block)

	assert.True(t, filled)
	assert.True(t, rejected)
	assert.GreaterOrEqual(t, pool.Stats().RejectedTasks, uint64(1))
}

func TestWorkerPool_SubmitAfterStopFails(t *testing.T) {
	pool := newPool(t, 1, 4)
	require.NoError(t, pool.Stop(time.Second))

	err := pool.Submit(workerpool.Task{
		ID: "late",
		Fn: func(ctx context.Context) error { return nil },
	})
	assert.Error(t, err)
}

func TestWorkerPool_PoolStatsHeadroom(t *testing.T) {
	pool := newPool(t, 2, 4)

	// Idle pool: largest is clamped to pool size, so headroom exists
	// before any task has run.
	stats := pool.PoolStats()
	assert.Equal(t, 2, stats.Threads)
	assert.Equal(t, 2, stats.Largest)
	assert.Zero(t, stats.Active)
	assert.True(t, stats.Headroom())

	// Saturate both workers; headroom disappears while they run.
	block := make(chan struct{})
	started := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		require.NoError(t, pool.Submit(workerpool.Task{
			ID: "busy",
			Fn: func(ctx context.Context) error {
				started <- struct{}{}
				<-block
				return nil
			},
		}))
	}
	<-started
	<-started

	stats = pool.PoolStats()
	assert.Equal(t, 2, stats.Active)
	assert.False(t, stats.Headroom())

	close(block)
	assert.Eventually(t, func() bool {
		return pool.PoolStats().Active == 0
	}, time.Second, 5*time.Millisecond)
	assert.True(t, pool.PoolStats().Headroom())
}
