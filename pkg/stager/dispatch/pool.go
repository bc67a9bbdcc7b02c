package dispatch

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Executor runs submitted functions asynchronously.
// Execute returns an error when the function was not accepted.
type Executor interface {
	Execute(fn func()) error
}

// GoroutinePool is an unbounded Executor that starts one goroutine per function.
// Its goroutines never keep the process alive: returning from main exits
// regardless of in-flight work.
type GoroutinePool struct {
	mu       sync.Mutex
	wg       sync.WaitGroup
	closed   bool
	inFlight atomic.Int64
}

// NewGoroutinePool creates an empty pool.
func NewGoroutinePool() *GoroutinePool {
	return &GoroutinePool{}
}

// Execute starts fn on a new goroutine. It fails with ErrClosed after Shutdown.
func (p *GoroutinePool) Execute(fn func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.wg.Add(1)
	p.inFlight.Inc()
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer p.inFlight.Dec()
		fn()
	}()
	return nil
}

// InFlight returns the number of functions currently running.
func (p *GoroutinePool) InFlight() int64 {
	return p.inFlight.Load()
}

// Shutdown stops accepting work and waits for running functions to return or
// for ctx to be done, whichever happens first.
func (p *GoroutinePool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
