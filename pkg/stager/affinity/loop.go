// Package affinity provides the run-loop that owns the affinity thread.
//
// All UI-visible mutation happens on the goroutine that calls Loop.Run. That
// goroutine locks its OS thread for the lifetime of the loop, so SDL and any other
// thread-bound toolkit calls made from queued runnables stay on one thread.
//
// Other goroutines hand work to the loop with Post or RunOnAffinityThread.
// Posted runnables execute in FIFO order, interleaved with frame ticks.
package affinity

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/BrandonKowalski/stager/pkg/stager/constants"
	"github.com/BrandonKowalski/stager/pkg/stager/internal"
	"go.uber.org/atomic"
)

// ErrAlreadyRunning is returned by Run when the loop is already running.
var ErrAlreadyRunning = errors.New("affinity: loop already running")

// FrameFunc is called once per frame with the frame timestamp.
type FrameFunc func(now time.Time)

// Options configures a Loop.
type Options struct {
	FrameInterval time.Duration // Time between frame ticks (default constants.DefaultFrameInterval)
	Logger        *slog.Logger  // Defaults to the internal logger
}

type frameHandler struct {
	id uint64
	fn FrameFunc
}

// Loop is a single-threaded run-loop. The zero value is not usable; use New.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	frames []frameHandler
	nextID uint64

	wake     chan struct{}
	interval time.Duration
	logger   *slog.Logger

	running atomic.Bool
	owner   atomic.Int64
}

// New creates a Loop. It does not start running until Run is called.
func New(opts Options) *Loop {
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = constants.DefaultFrameInterval
	}

	return &Loop{
		wake:     make(chan struct{}, 1),
		interval: interval,
		logger:   internal.LoggerOr(opts.Logger),
	}
}

// Post enqueues fn for execution on the affinity thread. It never blocks and may
// be called from any goroutine, including before Run starts.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RunOnAffinityThread runs fn immediately when called on the affinity thread.
// Otherwise fn is posted and runs after all previously posted runnables.
func (l *Loop) RunOnAffinityThread(fn func()) {
	if l.IsAffinityThread() {
		l.invoke(fn)
		return
	}
	l.Post(fn)
}

// IsAffinityThread reports whether the caller is the goroutine running the loop.
func (l *Loop) IsAffinityThread() bool {
	if !l.running.Load() {
		return false
	}
	return l.owner.Load() == currentThreadID()
}

// Pending returns the number of runnables waiting in the queue.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// OnFrame registers fn to be called on every frame tick, in registration order.
// The returned function removes the handler.
func (l *Loop) OnFrame(fn FrameFunc) (remove func()) {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.frames = append(l.frames, frameHandler{id: id, fn: fn})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, h := range l.frames {
			if h.id == id {
				l.frames = append(l.frames[:i:i], l.frames[i+1:]...)
				return
			}
		}
	}
}

// RunPending drains the runnables queued at the time of the call and returns how
// many ran. Runnables posted while draining run on the next drain.
// It must only be called from the affinity thread.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range batch {
		l.invoke(fn)
	}
	return len(batch)
}

// Tick calls every frame handler with now.
// It must only be called from the affinity thread.
func (l *Loop) Tick(now time.Time) {
	l.mu.Lock()
	handlers := make([]frameHandler, len(l.frames))
	copy(handlers, l.frames)
	l.mu.Unlock()

	for _, h := range handlers {
		l.invoke(func() { h.fn(now) })
	}
}

// Run turns the calling goroutine into the affinity thread and processes posted
// runnables and frame ticks until ctx is done. Runnables still queued when ctx is
// done are left in the queue.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l.owner.Store(currentThreadID())
	defer func() {
		l.owner.Store(0)
		l.running.Store(false)
	}()

	l.logger.Debug("Affinity loop started", "frame_interval", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.RunPending()

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("Affinity loop stopped", "pending", l.Pending())
			return ctx.Err()
		case <-l.wake:
			l.RunPending()
		case now := <-ticker.C:
			l.RunPending()
			l.Tick(now)
		}
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Recovered panic on affinity thread",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
