package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/Harsh-87/segmentd/internal/service"
	"github.com/Harsh-87/segmentd/internal/shard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubPool struct {
	stats model.PoolStats
}

func (s *stubPool) PoolStats() model.PoolStats { return s.stats }

func TestStatsLogger_CollectLogsNodeAndShards(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	snap := healthySnapshot()
	snap.CPUPercent = 42.5

	sl := service.NewStatsLogger(
		&stubStats{snap: snap},
		&fakeRegistry{shards: []shard.Handle{
			eligibleShard("idx-a:0", time.Hour),
			eligibleShard("idx-b:0", 2*time.Hour),
		}},
		&stubPool{stats: model.PoolStats{Threads: 4, Active: 1, Largest: 4, Queue: 0}},
		time.Minute,
		logger, nil,
	)

	sl.Collect()

	nodeEntries := logs.FilterMessage("Node resource stats").All()
	require.Len(t, nodeEntries, 1)
	assert.Equal(t, 42.5, nodeEntries[0].ContextMap()["cpu_percent"])

	poolEntries := logs.FilterMessage("Force merge pool stats").All()
	require.Len(t, poolEntries, 1)
	assert.Equal(t, int64(4), poolEntries[0].ContextMap()["threads"])

	shardEntries := logs.FilterMessage("Primary shard stats").All()
	assert.Len(t, shardEntries, 2)
}

func TestStatsLogger_ShardStatsFailureIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	broken := eligibleShard("idx-a:0", time.Hour)
	broken.statsErr = errors.New("engine closed")
	ok := eligibleShard("idx-b:0", time.Hour)

	sl := service.NewStatsLogger(
		&stubStats{snap: healthySnapshot()},
		&fakeRegistry{shards: []shard.Handle{broken, ok}},
		nil,
		time.Minute,
		logger, nil,
	)

	sl.Collect()

	assert.Len(t, logs.FilterMessage("Failed to read shard stats").All(), 1)
	assert.Len(t, logs.FilterMessage("Primary shard stats").All(), 1)
}

func TestStatsLogger_StartStopsOnContextCancel(t *testing.T) {
	sl := service.NewStatsLogger(
		&stubStats{snap: healthySnapshot()},
		&fakeRegistry{},
		nil,
		time.Hour,
		zap.NewNop(), nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sl.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stats logger did not stop on context cancel")
	}
}
