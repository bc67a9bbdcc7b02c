package assembler

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Build and manifest validation.
var (
	// ErrUnknownInitial indicates the initial screen key was never added.
	ErrUnknownInitial = errors.New("assembler: initial screen not registered")

	// ErrIncompleteStage indicates Build was given no loader, container or animation.
	ErrIncompleteStage = errors.New("assembler: stage needs a loader, a container and an animation")

	// ErrInvalidManifest indicates a manifest failed validation.
	ErrInvalidManifest = errors.New("assembler: invalid manifest")
)

// LoadError indicates a failure to load a screen resource.
type LoadError struct {
	Key  string // Screen key
	Path string // Resource path handed to the loader
	Err  error  // Underlying error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("assembler: loading screen %q from %s: %v", e.Key, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError checks if an error is a screen load failure.
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}
