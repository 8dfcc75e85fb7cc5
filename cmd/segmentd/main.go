package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harsh-87/segmentd/internal/cluster"
	"github.com/Harsh-87/segmentd/internal/config"
	"github.com/Harsh-87/segmentd/internal/metrics"
	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/Harsh-87/segmentd/internal/server"
	"github.com/Harsh-87/segmentd/internal/service"
	"github.com/Harsh-87/segmentd/internal/shard"
	"github.com/Harsh-87/segmentd/internal/sysstats"
	"github.com/Harsh-87/segmentd/internal/util/workerpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("node_id", cfg.Node.NodeID),
		zap.Duration("merge_interval", cfg.ForceMerge.Interval),
		zap.Bool("remote_store_enabled", cfg.Cluster.RemoteStoreEnabled))

	// Dedicated force-merge worker pool, separate from any
	// request-handling pools.
	pool := workerpool.NewWorkerPool(&workerpool.Config{
		Name:       "force_merge",
		MaxWorkers: cfg.ForceMerge.Workers,
		QueueSize:  cfg.ForceMerge.QueueSize,
		Logger:     logger,
	})
	defer pool.Stop(30 * time.Second)

	collector := sysstats.NewCollector(pool, logger)

	// The storage engine registers shard handles here as shards are
	// allocated to this node.
	registry := shard.NewRegistry(logger)

	// Warm-node discovery: gossip membership when enabled, static
	// configuration otherwise.
	var warmNodes cluster.WarmNodeSource = cluster.StaticWarmNodes(cfg.Cluster.HasWarmNode)
	if cfg.Gossip.Enabled {
		gossipSvc, err := cluster.NewGossipService(
			&cluster.GossipConfig{
				BindPort:       cfg.Gossip.BindPort,
				SeedNodes:      cfg.Gossip.SeedNodes,
				Roles:          nodeRoles(cfg.Gossip.Roles),
				GossipInterval: cfg.Gossip.GossipInterval,
				ProbeTimeout:   cfg.Gossip.ProbeTimeout,
				ProbeInterval:  cfg.Gossip.ProbeInterval,
			},
			cfg.Node.NodeID,
			logger,
		)
		if err != nil {
			logger.Error("Failed to initialize gossip service", zap.Error(err))
		} else {
			defer gossipSvc.Shutdown()
			warmNodes = gossipSvc
			logger.Info("Gossip service initialized",
				zap.Int("bind_port", cfg.Gossip.BindPort))
		}
	}

	info := cluster.NewInfo(cfg.Cluster.RemoteStoreEnabled, warmNodes)

	m := metrics.NewMetrics(cfg.Node.NodeID)

	// Wire the scheduler from its three validators.
	gate := service.NewClusterGate(info, logger)
	monitor := service.NewNodeMonitor(collector, service.NodeThresholds{
		CPUPercent:  cfg.ForceMerge.CPUThreshold,
		MemPercent:  cfg.ForceMerge.MemThreshold,
		HeapPercent: cfg.ForceMerge.HeapThreshold,
	}, logger)
	evaluator := service.NewShardEvaluator(collector, cfg.ForceMerge.TranslogRecency, logger)
	scheduler := service.NewMergeScheduler(
		&service.MergeSchedulerConfig{MaxSegments: cfg.ForceMerge.MaxSegments},
		gate, monitor, evaluator, registry, logger, m,
	)

	driver := service.NewDriver(cfg.ForceMerge.Interval, pool, scheduler.RunCycle, logger)
	driver.Start()
	defer driver.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Stats.Enabled {
		statsLogger := service.NewStatsLogger(collector, registry, pool, cfg.Stats.Interval, logger, m)
		g.Go(func() error {
			statsLogger.Start(gctx)
			return nil
		})
	}

	if cfg.Metrics.Enabled {
		metricsServer := server.NewMetricsServer(
			&server.MetricsServerConfig{Port: cfg.Metrics.Port, Path: cfg.Metrics.Path},
			func() bool { return !driver.Cancelled() },
			driver.TriggerNow,
			logger,
		)
		g.Go(func() error {
			return metricsServer.Start()
		})
		g.Go(func() error {
			<-gctx.Done()
			return metricsServer.Stop()
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Shutdown with error", zap.Error(err))
	}
	logger.Info("Shutting down gracefully...")
}

// initLogger initializes the zap logger
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = level
	return zcfg.Build()
}

// nodeRoles converts configured role names to model roles.
func nodeRoles(names []string) []model.NodeRole {
	roles := make([]model.NodeRole, 0, len(names))
	for _, name := range names {
		roles = append(roles, model.NodeRole(name))
	}
	return roles
}
