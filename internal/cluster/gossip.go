package cluster

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Harsh-87/segmentd/internal/model"
	"github.com/hashicorp/memberlist"
	"go.uber.org/zap"
)

// GossipService manages cluster membership and role propagation. Each
// member gossips a NodeMeta blob carrying its tiering roles; warm-node
// discovery scans the membership for the warm role.
type GossipService struct {
	config     *GossipConfig
	memberlist *memberlist.Memberlist
	nodeID     string
	logger     *zap.Logger
	meta       *model.NodeMeta
}

// GossipConfig holds gossip protocol configuration
type GossipConfig struct {
	BindPort       int
	SeedNodes      []string
	Roles          []model.NodeRole
	GossipInterval time.Duration
	ProbeTimeout   time.Duration
	ProbeInterval  time.Duration
}

// NewGossipService creates a new gossip service
func NewGossipService(cfg *GossipConfig, nodeID string, logger *zap.Logger) (*GossipService, error) {
	gs := &GossipService{
		config: cfg,
		nodeID: nodeID,
		logger: logger,
		meta: &model.NodeMeta{
			NodeID:    nodeID,
			Roles:     cfg.Roles,
			Status:    model.NodeStatusHealthy,
			Timestamp: time.Now().Unix(),
		},
	}

	// Configure memberlist
	mlConfig := memberlist.DefaultLocalConfig()
	mlConfig.Name = nodeID
	mlConfig.BindPort = cfg.BindPort
	mlConfig.GossipInterval = cfg.GossipInterval
	mlConfig.ProbeTimeout = cfg.ProbeTimeout
	mlConfig.ProbeInterval = cfg.ProbeInterval
	mlConfig.Delegate = gs
	mlConfig.Events = &gossipEventDelegate{service: gs}

	// Create memberlist
	ml, err := memberlist.Create(mlConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create memberlist: %w", err)
	}

	gs.memberlist = ml

	// Join seed nodes
	if len(cfg.SeedNodes) > 0 {
		_, err := ml.Join(cfg.SeedNodes)
		if err != nil {
			logger.Warn("Failed to join some seed nodes", zap.Error(err))
		}
	}

	return gs, nil
}

// HasWarmNode reports whether any cluster member carries the warm role.
func (s *GossipService) HasWarmNode() bool {
	for _, node := range s.memberlist.Members() {
		meta, ok := decodeMeta(node.Meta)
		if !ok {
			continue
		}
		if meta.HasRole(model.NodeRoleWarm) {
			return true
		}
	}
	return false
}

// Members returns the metadata of all known cluster members.
func (s *GossipService) Members() []model.NodeMeta {
	nodes := s.memberlist.Members()
	members := make([]model.NodeMeta, 0, len(nodes))
	for _, node := range nodes {
		if meta, ok := decodeMeta(node.Meta); ok {
			members = append(members, meta)
		}
	}
	return members
}

func decodeMeta(data []byte) (model.NodeMeta, bool) {
	var meta model.NodeMeta
	if len(data) == 0 {
		return meta, false
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, false
	}
	return meta, true
}

// NodeMeta implements memberlist.Delegate
func (s *GossipService) NodeMeta(limit int) []byte {
	data, _ := json.Marshal(s.meta)
	if len(data) > limit {
		return data[:limit]
	}
	return data
}

// NotifyMsg implements memberlist.Delegate
func (s *GossipService) NotifyMsg(data []byte) {
	meta, ok := decodeMeta(data)
	if !ok {
		s.logger.Warn("Failed to unmarshal gossip message")
		return
	}

	s.logger.Debug("Received node metadata",
		zap.String("node_id", meta.NodeID),
		zap.String("status", string(meta.Status)))
}

// GetBroadcasts implements memberlist.Delegate
func (s *GossipService) GetBroadcasts(overhead, limit int) [][]byte {
	return nil
}

// LocalState implements memberlist.Delegate
func (s *GossipService) LocalState(join bool) []byte {
	data, _ := json.Marshal(s.meta)
	return data
}

// MergeRemoteState implements memberlist.Delegate
func (s *GossipService) MergeRemoteState(buf []byte, join bool) {
	// No-op for now
}

// UpdateStatus updates the gossiped health status for this node.
func (s *GossipService) UpdateStatus(status model.NodeStatus) {
	s.meta.Status = status
	s.meta.Timestamp = time.Now().Unix()
	if err := s.memberlist.UpdateNode(s.config.ProbeTimeout); err != nil {
		s.logger.Warn("Failed to broadcast node metadata", zap.Error(err))
	}
}

// Shutdown shuts down the gossip service
func (s *GossipService) Shutdown() error {
	return s.memberlist.Shutdown()
}

// gossipEventDelegate handles memberlist events
type gossipEventDelegate struct {
	service *GossipService
}

// NotifyJoin is called when a node joins
func (d *gossipEventDelegate) NotifyJoin(node *memberlist.Node) {
	d.service.logger.Info("Node joined",
		zap.String("node_id", node.Name),
		zap.String("addr", node.Addr.String()))
}

// NotifyLeave is called when a node leaves
func (d *gossipEventDelegate) NotifyLeave(node *memberlist.Node) {
	d.service.logger.Info("Node left",
		zap.String("node_id", node.Name))
}

// NotifyUpdate is called when a node is updated
func (d *gossipEventDelegate) NotifyUpdate(node *memberlist.Node) {
	d.service.logger.Debug("Node updated",
		zap.String("node_id", node.Name))
}
