package cluster_test

import (
	"testing"

	"github.com/Harsh-87/segmentd/internal/cluster"
	"github.com/stretchr/testify/assert"
)

type toggleSource struct {
	warm bool
}

func (s *toggleSource) HasWarmNode() bool { return s.warm }

func TestInfo_RemoteStoreEnabled(t *testing.T) {
	assert.True(t, cluster.NewInfo(true, cluster.StaticWarmNodes(false)).RemoteStoreEnabled())
	assert.False(t, cluster.NewInfo(false, cluster.StaticWarmNodes(true)).RemoteStoreEnabled())
}

func TestInfo_HasWarmNodeTracksSource(t *testing.T) {
	src := &toggleSource{warm: false}
	info := cluster.NewInfo(true, src)

	assert.False(t, info.HasWarmNode())

	// A warm node joining is visible on the next read.
	src.warm = true
	assert.True(t, info.HasWarmNode())
}

func TestInfo_NilWarmSourceMeansNoWarmNode(t *testing.T) {
	info := cluster.NewInfo(true, nil)
	assert.False(t, info.HasWarmNode())
}

func TestStaticWarmNodes(t *testing.T) {
	assert.True(t, cluster.StaticWarmNodes(true).HasWarmNode())
	assert.False(t, cluster.StaticWarmNodes(false).HasWarmNode())
}
