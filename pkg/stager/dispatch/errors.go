package dispatch

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Sentinel errors reported through the dispatcher's error handler.
var (
	// ErrClosed indicates work was submitted after Shutdown.
	ErrClosed = errors.New("dispatch: dispatcher is shut down")

	// ErrAlreadyLaunched indicates the same task was launched twice.
	ErrAlreadyLaunched = errors.New("dispatch: task already launched")

	// ErrNoWork indicates a task was created without a work closure.
	ErrNoWork = errors.New("dispatch: task has no work function")
)

// TaskError wraps a failure of a named task.
type TaskError struct {
	Task string // Name of the task that failed
	Err  error  // Underlying error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("dispatch: task %q failed: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PanicError is produced when work panics on a worker.
type PanicError struct {
	Value any    // Value passed to panic
	Stack []byte // Stack of the panicking goroutine
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsPanic checks if err was caused by a panicking work closure.
func IsPanic(err error) bool {
	var panicErr *PanicError
	return errors.As(err, &panicErr)
}
