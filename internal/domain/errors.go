package domain

import "errors"

// Domain errors represent fatal conditions in the bootship domain.
// Callers classify them with errors.Is.
var (
	// ErrStageFailed is returned when a pipeline stage exits non-zero.
	ErrStageFailed = errors.New("bootship: pipeline stage failed")

	// ErrReadinessTimeout is returned when the tracking server never
	// answered 2xx within the configured deadline.
	ErrReadinessTimeout = errors.New("bootship: readiness timeout")

	// ErrLaunchFailed is returned when a service process could not be
	// spawned at all.
	ErrLaunchFailed = errors.New("bootship: launch failed")

	// ErrUnknownCommand is returned for an unrecognized invocation verb.
	ErrUnknownCommand = errors.New("bootship: unknown command")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("bootship: invalid configuration")
)
