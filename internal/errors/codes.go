package errors

import "fmt"

// ErrorCode represents internal error codes for merge scheduling
type ErrorCode int

const (
	// Success
	ErrCodeOK ErrorCode = 0

	// Eligibility outcomes: not failures, a cycle handles these locally
	ErrCodeClusterIneligible ErrorCode = 1000
	ErrCodeNodeConstrained   ErrorCode = 1001
	ErrCodeShardIneligible   ErrorCode = 1002

	// Operational failures
	ErrCodeMergeFailed   ErrorCode = 2000
	ErrCodeStatsFailed   ErrorCode = 2001
	ErrCodeDriverStopped ErrorCode = 2002
	ErrCodeCycleRunning  ErrorCode = 2003
)

// SchedulerError represents a structured error with code and context
type SchedulerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e *SchedulerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SchedulerError) Unwrap() error {
	return e.Cause
}

// NewSchedulerError creates a new SchedulerError
func NewSchedulerError(code ErrorCode, message string, cause error) *SchedulerError {
	return &SchedulerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Cause:   cause,
	}
}

// WithDetail adds a detail to the error
func (e *SchedulerError) WithDetail(key string, value interface{}) *SchedulerError {
	e.Details[key] = value
	return e
}

// Convenience constructors for common errors

func MergeFailed(shardID string, cause error) *SchedulerError {
	return NewSchedulerError(ErrCodeMergeFailed, fmt.Sprintf("force merge failed for shard %s", shardID), cause).
		WithDetail("shard_id", shardID)
}

func StatsFailed(shardID string, cause error) *SchedulerError {
	return NewSchedulerError(ErrCodeStatsFailed, fmt.Sprintf("stats collection failed for shard %s", shardID), cause).
		WithDetail("shard_id", shardID)
}

func DriverStopped() *SchedulerError {
	return NewSchedulerError(ErrCodeDriverStopped, "merge driver is stopped", nil)
}

func CycleRunning() *SchedulerError {
	return NewSchedulerError(ErrCodeCycleRunning, "a merge cycle is already running", nil)
}

// IsSchedulerError checks if an error is a SchedulerError
func IsSchedulerError(err error) bool {
	_, ok := err.(*SchedulerError)
	return ok
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if se, ok := err.(*SchedulerError); ok {
		return se.Code
	}
	return ErrCodeMergeFailed
}
