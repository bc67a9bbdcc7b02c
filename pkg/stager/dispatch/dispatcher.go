// Package dispatch runs background work on a worker pool and delivers outcomes
// back to the affinity thread.
//
// Every completion callback registered through this package runs on the
// affinity thread, so it may touch the navigation stager or any screen directly:
//
//	d := dispatch.New(loop, dispatch.Options{})
//
//	dispatch.RunAndHandle(d, loadLibrary, func(games []Game) {
//	    listController.SetGames(games) // on the affinity thread
//	    st.SetScreen("library")
//	})
//
// Launch and the helpers built on it must be called from the affinity thread.
// With assertions enabled a call from any other goroutine panics; the call is
// never silently marshaled.
package dispatch

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/BrandonKowalski/stager/pkg/stager/constants"
	"github.com/BrandonKowalski/stager/pkg/stager/internal"
	"go.uber.org/atomic"
)

// Affinity is the marshaling primitive the dispatcher delivers completions to.
// *affinity.Loop implements it.
type Affinity interface {
	IsAffinityThread() bool
	Post(fn func())
}

// Options configures a Dispatcher.
type Options struct {
	Executor     Executor     // Worker pool (default: a new GoroutinePool)
	ErrorHandler func(error)  // Receives every task failure (default: log at error level)
	Logger       *slog.Logger // Defaults to the internal logger
	Assertions   *bool        // Enable affinity assertions (default: constants.IsDevMode())
}

// Stats are running totals kept by a Dispatcher.
type Stats struct {
	Launched  int64
	Succeeded int64
	Failed    int64
}

type counters struct {
	launched  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// Dispatcher runs Tasks on an Executor and marshals completions to the affinity thread.
type Dispatcher struct {
	affinity   Affinity
	executor   Executor
	onError    func(error)
	logger     *slog.Logger
	assertions bool

	closed atomic.Bool
	stats  counters
}

// New creates a Dispatcher delivering completions to affinity.
func New(affinity Affinity, opts Options) *Dispatcher {
	d := &Dispatcher{
		affinity:   affinity,
		executor:   opts.Executor,
		onError:    opts.ErrorHandler,
		logger:     internal.LoggerOr(opts.Logger),
		assertions: constants.IsDevMode(),
	}

	if opts.Assertions != nil {
		d.assertions = *opts.Assertions
	}
	if d.executor == nil {
		d.executor = NewGoroutinePool()
	}
	if d.onError == nil {
		d.onError = func(err error) {
			d.logger.Error("Background task failed", "error", err)
		}
	}

	return d
}

// Launch submits job for asynchronous execution and returns immediately.
// It must be called from the affinity thread.
func (d *Dispatcher) Launch(job Job) {
	internal.AssertAffinity(d.assertions, d.affinity.IsAffinityThread, "Dispatcher.Launch")

	if !job.claim() {
		d.reportFailure(job.Name(), ErrAlreadyLaunched)
		return
	}

	d.stats.launched.Inc()

	if d.closed.Load() {
		job.fail(ErrClosed)
		d.reportFailure(job.Name(), ErrClosed)
		return
	}

	if err := d.executor.Execute(func() { job.execute(d) }); err != nil {
		job.fail(err)
		d.reportFailure(job.Name(), err)
	}
}

// RunAndHandle builds a Task from work, launches it and invokes onSuccess with the
// produced value on the affinity thread. On failure onSuccess is never invoked.
func RunAndHandle[T any](d *Dispatcher, work func() (T, error), onSuccess func(T)) *Task[T] {
	task := NewTask(work, onSuccess)
	d.Launch(task)
	return task
}

// RunFireAndForget launches work with no completion callback.
func RunFireAndForget(d *Dispatcher, work func() error) *Task[struct{}] {
	task := NewTask(func() (struct{}, error) {
		if work == nil {
			return struct{}{}, ErrNoWork
		}
		return struct{}{}, work()
	}, nil)
	d.Launch(task)
	return task
}

// Execute submits fn to the pool with no completion marshaling. A panic in fn is
// recovered and reported to the error handler.
func (d *Dispatcher) Execute(fn func()) {
	if d.closed.Load() {
		d.reportFailure("execute", ErrClosed)
		return
	}

	err := d.executor.Execute(func() {
		defer func() {
			if r := recover(); r != nil {
				d.reportFailure("execute", &PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		fn()
	})
	if err != nil {
		d.reportFailure("execute", err)
	}
}

// RunOnAffinityThread runs fn synchronously when called on the affinity thread,
// otherwise posts it to run after everything posted before it.
func (d *Dispatcher) RunOnAffinityThread(fn func()) {
	if d.affinity.IsAffinityThread() {
		fn()
		return
	}
	d.affinity.Post(fn)
}

// IsAffinityThread reports whether the caller is on the affinity thread.
func (d *Dispatcher) IsAffinityThread() bool {
	return d.affinity.IsAffinityThread()
}

// Shutdown stops accepting work and waits until the executor drains, if it
// supports draining. In-flight tasks are not cancelled.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	s := d.Stats()
	d.logger.Debug("Shutting down dispatcher",
		"launched", s.Launched,
		"succeeded", s.Succeeded,
		"failed", s.Failed)

	if drainer, ok := d.executor.(interface{ Shutdown(context.Context) error }); ok {
		return drainer.Shutdown(ctx)
	}
	return nil
}

// Stats returns a snapshot of the dispatcher's counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Launched:  d.stats.launched.Load(),
		Succeeded: d.stats.succeeded.Load(),
		Failed:    d.stats.failed.Load(),
	}
}

func (d *Dispatcher) reportFailure(name string, err error) {
	d.stats.failed.Inc()
	d.onError(&TaskError{Task: name, Err: err})
}
