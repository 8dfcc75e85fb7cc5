package model

// NodeRole describes a node's tiering role within the cluster.
type NodeRole string

const (
	NodeRoleHot  NodeRole = "hot"
	NodeRoleWarm NodeRole = "warm"
)

// NodeStatus defines the operational status of a node
type NodeStatus string

const (
	NodeStatusHealthy   NodeStatus = "healthy"
	NodeStatusDegraded  NodeStatus = "degraded"
	NodeStatusUnhealthy NodeStatus = "unhealthy"
)

// NodeMeta is the per-node metadata gossiped across the cluster. It is
// how other nodes learn this node's tiering roles and health.
type NodeMeta struct {
	NodeID    string     `json:"node_id"`
	Roles     []NodeRole `json:"roles"`
	Status    NodeStatus `json:"status"`
	Timestamp int64      `json:"timestamp"`
}

// HasRole reports whether the node carries the given role.
func (m NodeMeta) HasRole(role NodeRole) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}
