package errors_test

import (
	stderrors "errors"
	"testing"

	errs "github.com/Harsh-87/segmentd/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFailed_WrapsCause(t *testing.T) {
	cause := stderrors.New("segment writer closed")
	err := errs.MergeFailed("idx-a:0", cause)

	assert.Equal(t, errs.ErrCodeMergeFailed, err.Code)
	assert.Contains(t, err.Error(), "idx-a:0")
	assert.Contains(t, err.Error(), "segment writer closed")
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "idx-a:0", err.Details["shard_id"])
}

func TestStatsFailed(t *testing.T) {
	cause := stderrors.New("engine closed")
	err := errs.StatsFailed("idx-b:1", cause)

	assert.Equal(t, errs.ErrCodeStatsFailed, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestDriverStopped(t *testing.T) {
	err := errs.DriverStopped()
	assert.Equal(t, errs.ErrCodeDriverStopped, err.Code)
	assert.Nil(t, err.Unwrap())
}

func TestWithDetail(t *testing.T) {
	err := errs.CycleRunning().WithDetail("node_id", "node-1")
	assert.Equal(t, "node-1", err.Details["node_id"])
}

func TestIsSchedulerErrorAndGetCode(t *testing.T) {
	err := errs.MergeFailed("idx-a:0", nil)
	require.True(t, errs.IsSchedulerError(err))
	assert.Equal(t, errs.ErrCodeMergeFailed, errs.GetCode(err))

	plain := stderrors.New("plain")
	assert.False(t, errs.IsSchedulerError(plain))
	assert.Equal(t, errs.ErrCodeMergeFailed, errs.GetCode(plain))
}
