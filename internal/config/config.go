package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// NodeConfig holds node identity configuration
type NodeConfig struct {
	NodeID  string `yaml:"node_id"`
	DataDir string `yaml:"data_dir"`
}

// ClusterConfig holds cluster-wide tiering configuration. HasWarmNode
// is a static fallback for deployments running without gossip.
type ClusterConfig struct {
	RemoteStoreEnabled bool `yaml:"remote_store_enabled"`
	HasWarmNode        bool `yaml:"has_warm_node"`
}

// ForceMergeConfig holds the auto force merge scheduler configuration
type ForceMergeConfig struct {
	Interval            time.Duration `yaml:"interval"`
	MaxSegments         int           `yaml:"max_segments"`
	CPUThreshold        float64       `yaml:"cpu_threshold"`
	MemThreshold        float64       `yaml:"mem_threshold"`
	HeapThreshold       float64       `yaml:"heap_threshold"`
	TranslogRecency     time.Duration `yaml:"translog_recency"`
	Workers             int           `yaml:"workers"`
	QueueSize           int           `yaml:"queue_size"`
}

// StatsConfig holds the periodic stats logger configuration
type StatsConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// GossipConfig holds gossip protocol configuration
type GossipConfig struct {
	Enabled        bool          `yaml:"enabled"`
	BindPort       int           `yaml:"bind_port"`
	SeedNodes      []string      `yaml:"seed_nodes"`
	Roles          []string      `yaml:"roles"`
	GossipInterval time.Duration `yaml:"gossip_interval"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	ProbeInterval  time.Duration `yaml:"probe_interval"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config represents the complete configuration for the merge daemon
type Config struct {
	Node       NodeConfig       `yaml:"node"`
	Cluster    ClusterConfig    `yaml:"cluster"`
	ForceMerge ForceMergeConfig `yaml:"force_merge"`
	Stats      StatsConfig      `yaml:"stats"`
	Gossip     GossipConfig     `yaml:"gossip"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoadConfig loads configuration from a file
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not specified
	SetDefaults(&cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// SetDefaults sets default values for unspecified configuration
func SetDefaults(cfg *Config) {
	if cfg.Node.DataDir == "" {
		cfg.Node.DataDir = "/var/lib/segmentd"
	}

	if cfg.ForceMerge.Interval == 0 {
		cfg.ForceMerge.Interval = time.Minute
	}
	if cfg.ForceMerge.MaxSegments == 0 {
		cfg.ForceMerge.MaxSegments = 1
	}
	if cfg.ForceMerge.CPUThreshold == 0 {
		cfg.ForceMerge.CPUThreshold = 80.0
	}
	if cfg.ForceMerge.MemThreshold == 0 {
		cfg.ForceMerge.MemThreshold = 80.0
	}
	if cfg.ForceMerge.HeapThreshold == 0 {
		cfg.ForceMerge.HeapThreshold = 80.0
	}
	if cfg.ForceMerge.TranslogRecency == 0 {
		cfg.ForceMerge.TranslogRecency = 30 * time.Minute
	}
	if cfg.ForceMerge.Workers == 0 {
		cfg.ForceMerge.Workers = 4
	}
	if cfg.ForceMerge.QueueSize == 0 {
		cfg.ForceMerge.QueueSize = 16
	}

	if cfg.Stats.Interval == 0 {
		cfg.Stats.Interval = time.Minute
	}

	if cfg.Gossip.BindPort == 0 {
		cfg.Gossip.BindPort = 7946
	}
	if cfg.Gossip.GossipInterval == 0 {
		cfg.Gossip.GossipInterval = 200 * time.Millisecond
	}
	if cfg.Gossip.ProbeTimeout == 0 {
		cfg.Gossip.ProbeTimeout = 500 * time.Millisecond
	}
	if cfg.Gossip.ProbeInterval == 0 {
		cfg.Gossip.ProbeInterval = time.Second
	}
	if len(cfg.Gossip.Roles) == 0 {
		cfg.Gossip.Roles = []string{"hot"}
	}

	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9114
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Node.NodeID == "" {
		return fmt.Errorf("node.node_id is required")
	}
	if c.ForceMerge.Interval < 0 {
		return fmt.Errorf("force_merge.interval must be positive")
	}
	if c.ForceMerge.MaxSegments < 1 {
		return fmt.Errorf("force_merge.max_segments must be at least 1")
	}
	for name, v := range map[string]float64{
		"force_merge.cpu_threshold":  c.ForceMerge.CPUThreshold,
		"force_merge.mem_threshold":  c.ForceMerge.MemThreshold,
		"force_merge.heap_threshold": c.ForceMerge.HeapThreshold,
	} {
		if v <= 0 || v > 100 {
			return fmt.Errorf("%s must be between 0 and 100", name)
		}
	}
	if c.ForceMerge.TranslogRecency < 0 {
		return fmt.Errorf("force_merge.translog_recency must be positive")
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port must be between 1 and 65535")
	}
	return nil
}
