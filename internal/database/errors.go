package database

import (
	"fmt"
)

// ConfigurationError reports that an operation was attempted without a
// required dependency. It is raised before any I/O.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ExecutionError reports that a single statement failed at the store.
type ExecutionError struct {
	Query string
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute query: %v", e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// BatchError reports the chunk that failed during a batch. Chunks before
// ChunkIndex were committed and stay committed.
type BatchError struct {
	ChunkIndex int
	Cause      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch failed at chunk %d: %v", e.ChunkIndex, e.Cause)
}

func (e *BatchError) Unwrap() error { return e.Cause }

// ResourceError reports a failure while releasing a session or connection.
type ResourceError struct {
	Op    string
	Cause error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Cause)
}

func (e *ResourceError) Unwrap() error { return e.Cause }
