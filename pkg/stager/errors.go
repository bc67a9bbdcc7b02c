package stager

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Init.
var (
	// ErrNoManifest indicates neither a manifest path nor a manifest was given.
	ErrNoManifest = errors.New("stager: no screen manifest configured")

	// ErrClosed indicates Run was called after Close.
	ErrClosed = errors.New("stager: app closed")
)

// InfrastructureError represents a framework-level failure: SDL could not start,
// the window could not be created, a screen asset could not be loaded. These
// errors are typically fatal.
type InfrastructureError struct {
	Op  string // Operation that failed (e.g., "sdl_init", "build_stage")
	Err error  // Underlying error
}

func (e *InfrastructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stager: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("stager: %s", e.Op)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// NewInfrastructureError creates a new infrastructure error.
func NewInfrastructureError(op string, err error) *InfrastructureError {
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructureError checks if an error is an infrastructure error.
func IsInfrastructureError(err error) bool {
	var infraErr *InfrastructureError
	return errors.As(err, &infraErr)
}
