package dispatch

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// State represents the lifecycle state of a Task.
type State int

const (
	StatePending   State = iota // Created, not yet picked up by a worker
	StateRunning                // Work closure executing on a worker
	StateSucceeded              // Work returned a value
	StateFailed                 // Work returned an error or panicked
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state can no longer change.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Job is a unit of work accepted by Dispatcher.Launch. *Task[T] implements it.
type Job interface {
	Name() string
	State() State

	execute(d *Dispatcher)
	claim() bool
	fail(err error)
}

// Task is one unit of background work and its outcome.
// A Task is launched at most once; its terminal state never changes.
type Task[T any] struct {
	name      string
	work      func() (T, error)
	onSuccess func(T)
	onFailure func(error)

	launched atomic.Bool
	once     sync.Once
	done     chan struct{}

	mu    sync.Mutex
	state State
	value T
	err   error
}

// NewTask binds work to a new pending Task. onSuccess may be nil; when set it is
// invoked on the affinity thread with the produced value once the work succeeds.
func NewTask[T any](work func() (T, error), onSuccess func(T)) *Task[T] {
	return &Task[T]{
		name:      "task",
		work:      work,
		onSuccess: onSuccess,
		done:      make(chan struct{}),
	}
}

// Named sets the name used when reporting failures.
func (t *Task[T]) Named(name string) *Task[T] {
	t.name = name
	return t
}

// OnFailure sets a callback invoked on the affinity thread when the task fails.
// The error has already been reported to the dispatcher's error handler.
func (t *Task[T]) OnFailure(fn func(error)) *Task[T] {
	t.onFailure = fn
	return t
}

// Name returns the task name.
func (t *Task[T]) Name() string {
	return t.name
}

// State returns the current state.
func (t *Task[T]) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Result returns the produced value and error. Both are zero until the task is terminal.
func (t *Task[T]) Result() (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.err
}

// Done is closed when the task reaches a terminal state.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task is terminal or ctx is done.
// It must not be called from the affinity thread.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (t *Task[T]) claim() bool {
	return t.launched.CompareAndSwap(false, true)
}

func (t *Task[T]) start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePending {
		return false
	}
	t.state = StateRunning
	return true
}

func (t *Task[T]) finish(state State, value T, err error) bool {
	finished := false
	t.once.Do(func() {
		t.mu.Lock()
		t.state = state
		t.value = value
		t.err = err
		t.mu.Unlock()
		close(t.done)
		finished = true
	})
	return finished
}

func (t *Task[T]) fail(err error) {
	var zero T
	t.finish(StateFailed, zero, err)
}

func (t *Task[T]) execute(d *Dispatcher) {
	if !t.start() {
		return
	}

	value, err := call(t.work)
	if err != nil {
		var zero T
		if !t.finish(StateFailed, zero, err) {
			return
		}
		d.reportFailure(t.name, err)
		if t.onFailure != nil {
			d.RunOnAffinityThread(func() { t.onFailure(err) })
		}
		return
	}

	if !t.finish(StateSucceeded, value, nil) {
		return
	}
	d.stats.succeeded.Inc()
	if t.onSuccess != nil {
		d.RunOnAffinityThread(func() { t.onSuccess(value) })
	}
}

// call runs work, converting a panic into a PanicError.
func call[T any](work func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	if work == nil {
		return value, ErrNoWork
	}
	return work()
}
