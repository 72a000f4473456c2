package entity

import "errors"

// Failure kinds surfaced by the cache and the batch pipeline.
// Callers classify with errors.Is.
var (
	// ErrTransientIO covers missing files and permission errors on read or stat.
	ErrTransientIO = errors.New("transient io failure")

	// ErrCorruptArtifact means stored bytes could not be decoded.
	ErrCorruptArtifact = errors.New("corrupt artifact")

	// ErrBackendUnavailable means the backend is not registered or cannot run here.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackendFailed means the backend ran and failed or timed out.
	ErrBackendFailed = errors.New("backend failed")

	// ErrStoreUnreachable means the index database cannot be opened or queried.
	ErrStoreUnreachable = errors.New("cache index unreachable")

	// ErrInvalidPolicy is returned for negative maintenance limits.
	ErrInvalidPolicy = errors.New("invalid cleanup policy")

	// ErrInvalidCount is returned when a non-positive result count is requested.
	ErrInvalidCount = errors.New("invalid count")
)
