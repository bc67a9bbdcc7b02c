package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BrandonKowalski/stager/pkg/stager/affinity"
	"github.com/BrandonKowalski/stager/pkg/stager/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// manualAffinity is an affinity thread the test drives by hand.
type manualAffinity struct {
	on    atomic.Bool
	mu    sync.Mutex
	queue []func()
}

func (m *manualAffinity) IsAffinityThread() bool { return m.on.Load() }

func (m *manualAffinity) Post(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
}

func (m *manualAffinity) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// do runs fn as if on the affinity thread.
func (m *manualAffinity) do(fn func()) {
	m.on.Store(true)
	defer m.on.Store(false)
	fn()
}

// drain runs queued runnables on the affinity thread.
func (m *manualAffinity) drain() {
	m.mu.Lock()
	batch := m.queue
	m.queue = nil
	m.mu.Unlock()

	m.do(func() {
		for _, fn := range batch {
			fn()
		}
	})
}

// queueExecutor holds submitted work until the test runs it as the worker.
type queueExecutor struct {
	fns []func()
}

func (e *queueExecutor) Execute(fn func()) error {
	e.fns = append(e.fns, fn)
	return nil
}

func (e *queueExecutor) runAll() {
	fns := e.fns
	e.fns = nil
	for _, fn := range fns {
		fn()
	}
}

type rejectingExecutor struct{ err error }

func (e rejectingExecutor) Execute(func()) error { return e.err }

func enabled() *bool {
	v := true
	return &v
}

type fixture struct {
	aff    *manualAffinity
	exec   *queueExecutor
	d      *dispatch.Dispatcher
	errsMu sync.Mutex
	errs   []error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{aff: &manualAffinity{}, exec: &queueExecutor{}}
	f.d = dispatch.New(f.aff, dispatch.Options{
		Executor:   f.exec,
		Assertions: enabled(),
		ErrorHandler: func(err error) {
			f.errsMu.Lock()
			defer f.errsMu.Unlock()
			f.errs = append(f.errs, err)
		},
	})
	return f
}

func (f *fixture) reported() []error {
	f.errsMu.Lock()
	defer f.errsMu.Unlock()
	return append([]error(nil), f.errs...)
}

func TestRunAndHandle_DeliversValueOnAffinityThread(t *testing.T) {
	f := newFixture(t)

	var (
		got      []int
		onThread bool
	)

	var task *dispatch.Task[int]
	f.aff.do(func() {
		task = dispatch.RunAndHandle(f.d, func() (int, error) { return 42, nil }, func(v int) {
			onThread = f.aff.IsAffinityThread()
			got = append(got, v)
		})
	})

	assert.Equal(t, dispatch.StatePending, task.State())

	f.exec.runAll()
	assert.Equal(t, dispatch.StateSucceeded, task.State())
	assert.Empty(t, got, "handler must wait for the affinity thread")
	assert.Equal(t, 1, f.aff.pending())

	f.aff.drain()
	assert.Equal(t, []int{42}, got)
	assert.True(t, onThread)

	v, err := task.Result()
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Empty(t, f.reported())
	assert.Equal(t, dispatch.Stats{Launched: 1, Succeeded: 1}, f.d.Stats())
}

func TestRunAndHandle_FailureNeverInvokesSuccessHandler(t *testing.T) {
	f := newFixture(t)
	errBoom := errors.New("boom")

	called := false
	var task *dispatch.Task[string]
	f.aff.do(func() {
		task = dispatch.RunAndHandle(f.d, func() (string, error) { return "", errBoom }, func(string) {
			called = true
		})
	})

	f.exec.runAll()
	f.aff.drain()

	assert.False(t, called)
	assert.Equal(t, dispatch.StateFailed, task.State())

	_, err := task.Result()
	assert.ErrorIs(t, err, errBoom)

	reported := f.reported()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], errBoom)

	var taskErr *dispatch.TaskError
	require.ErrorAs(t, reported[0], &taskErr)
	assert.Equal(t, "task", taskErr.Task)
}

func TestTask_PanicBecomesFailure(t *testing.T) {
	f := newFixture(t)

	called := false
	task := dispatch.NewTask(func() (int, error) { panic("kaboom") }, func(int) { called = true }).
		Named("exploding")

	f.aff.do(func() { f.d.Launch(task) })
	assert.NotPanics(t, f.exec.runAll)
	f.aff.drain()

	assert.False(t, called)
	assert.Equal(t, dispatch.StateFailed, task.State())

	_, err := task.Result()
	assert.True(t, dispatch.IsPanic(err))

	reported := f.reported()
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "exploding")
}

func TestTask_OnFailureRunsOnAffinityThread(t *testing.T) {
	f := newFixture(t)
	errBoom := errors.New("boom")

	var (
		gotErr   error
		onThread bool
	)
	task := dispatch.NewTask(func() (int, error) { return 0, errBoom }, nil).
		OnFailure(func(err error) {
			gotErr = err
			onThread = f.aff.IsAffinityThread()
		})

	f.aff.do(func() { f.d.Launch(task) })
	f.exec.runAll()
	assert.Nil(t, gotErr)

	f.aff.drain()
	assert.ErrorIs(t, gotErr, errBoom)
	assert.True(t, onThread)
}

func TestLaunch_TwiceReportsError(t *testing.T) {
	f := newFixture(t)

	runs := 0
	task := dispatch.NewTask(func() (int, error) {
		runs++
		return runs, nil
	}, nil)

	f.aff.do(func() {
		f.d.Launch(task)
		f.d.Launch(task)
	})
	f.exec.runAll()

	assert.Equal(t, 1, runs)
	assert.Equal(t, dispatch.StateSucceeded, task.State())

	reported := f.reported()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], dispatch.ErrAlreadyLaunched)
}

func TestLaunch_OffAffinityThreadPanicsWithAssertions(t *testing.T) {
	f := newFixture(t)

	task := dispatch.NewTask(func() (int, error) { return 1, nil }, nil)
	assert.Panics(t, func() { f.d.Launch(task) })
	assert.Equal(t, dispatch.StatePending, task.State())
}

func TestLaunch_OffAffinityThreadAllowedWithoutAssertions(t *testing.T) {
	aff := &manualAffinity{}
	exec := &queueExecutor{}
	disabled := false
	d := dispatch.New(aff, dispatch.Options{Executor: exec, Assertions: &disabled})

	task := dispatch.NewTask(func() (int, error) { return 1, nil }, nil)
	assert.NotPanics(t, func() { d.Launch(task) })

	exec.runAll()
	assert.Equal(t, dispatch.StateSucceeded, task.State())
}

func TestLaunch_ExecutorRejectionFailsTask(t *testing.T) {
	aff := &manualAffinity{}
	errFull := errors.New("pool full")

	var reported []error
	d := dispatch.New(aff, dispatch.Options{
		Executor:     rejectingExecutor{err: errFull},
		Assertions:   enabled(),
		ErrorHandler: func(err error) { reported = append(reported, err) },
	})

	var task *dispatch.Task[struct{}]
	aff.do(func() { task = dispatch.RunFireAndForget(d, func() error { return nil }) })

	assert.Equal(t, dispatch.StateFailed, task.State())
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], errFull)
}

func TestRunFireAndForget_ReportsError(t *testing.T) {
	f := newFixture(t)
	errBoom := errors.New("boom")

	f.aff.do(func() { dispatch.RunFireAndForget(f.d, func() error { return errBoom }) })
	f.exec.runAll()

	reported := f.reported()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], errBoom)
	assert.Zero(t, f.aff.pending(), "no completion callback to marshal")
}

func TestExecute_RecoversPanic(t *testing.T) {
	f := newFixture(t)

	ran := false
	f.d.Execute(func() { ran = true })
	f.d.Execute(func() { panic("bare") })

	assert.NotPanics(t, f.exec.runAll)
	assert.True(t, ran)

	reported := f.reported()
	require.Len(t, reported, 1)
	assert.True(t, dispatch.IsPanic(reported[0]))
}

func TestRunOnAffinityThread(t *testing.T) {
	f := newFixture(t)

	var order []string
	f.aff.do(func() {
		f.d.RunOnAffinityThread(func() { order = append(order, "sync") })
		order = append(order, "returned")
	})
	assert.Equal(t, []string{"sync", "returned"}, order)

	f.d.RunOnAffinityThread(func() { order = append(order, "first") })
	f.d.RunOnAffinityThread(func() { order = append(order, "second") })
	assert.Len(t, order, 2)

	f.aff.drain()
	assert.Equal(t, []string{"sync", "returned", "first", "second"}, order)
}

func TestShutdown_RejectsNewWork(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.d.Shutdown(context.Background()))

	var task *dispatch.Task[int]
	f.aff.do(func() {
		task = dispatch.RunAndHandle(f.d, func() (int, error) { return 1, nil }, nil)
	})

	assert.Empty(t, f.exec.fns)
	assert.Equal(t, dispatch.StateFailed, task.State())

	_, err := task.Result()
	assert.ErrorIs(t, err, dispatch.ErrClosed)
}

func TestDispatcher_WithLoopAndPool(t *testing.T) {
	loop := affinity.New(affinity.Options{})
	pool := dispatch.NewGoroutinePool()
	d := dispatch.New(loop, dispatch.Options{Executor: pool, Assertions: enabled()})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = loop.Run(ctx)
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	type outcome struct {
		value    int
		onThread bool
	}
	results := make(chan outcome, 1)

	loop.Post(func() {
		dispatch.RunAndHandle(d, func() (int, error) {
			return 7, nil
		}, func(v int) {
			results <- outcome{value: v, onThread: loop.IsAffinityThread()}
		})
	})

	select {
	case got := <-results:
		assert.Equal(t, 7, got.value)
		assert.True(t, got.onThread)
	case <-time.After(2 * time.Second):
		t.Fatal("completion was not delivered")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	assert.NoError(t, d.Shutdown(shutdownCtx))
	assert.Zero(t, pool.InFlight())
}

func TestTask_Wait(t *testing.T) {
	f := newFixture(t)

	task := dispatch.NewTask(func() (string, error) { return "done", nil }, nil)
	f.aff.do(func() { f.d.Launch(task) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	f.exec.runAll()
	v, err := task.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "done", v)
}
