package dispatch_test

import (
	"errors"
	"testing"

	"github.com/BrandonKowalski/stager/pkg/stager/dispatch"
	"github.com/stretchr/testify/assert"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state    dispatch.State
		want     string
		terminal bool
	}{
		{dispatch.StatePending, "pending", false},
		{dispatch.StateRunning, "running", false},
		{dispatch.StateSucceeded, "succeeded", true},
		{dispatch.StateFailed, "failed", true},
		{dispatch.State(99), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
			assert.Equal(t, tt.terminal, tt.state.IsTerminal())
		})
	}
}

func TestTask_TerminalStateIsImmutable(t *testing.T) {
	f := newFixture(t)

	task := dispatch.NewTask(func() (int, error) { return 1, nil }, nil).Named("once")
	f.aff.do(func() { f.d.Launch(task) })
	f.exec.runAll()

	// A second execution attempt must not be possible through the public API;
	// relaunching is rejected and the outcome stays put.
	f.aff.do(func() { f.d.Launch(task) })
	f.exec.runAll()

	v, err := task.Result()
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, dispatch.StateSucceeded, task.State())

	select {
	case <-task.Done():
	default:
		t.Fatal("Done must be closed once terminal")
	}
}

func TestTask_NilWork(t *testing.T) {
	f := newFixture(t)

	task := dispatch.NewTask[int](nil, nil)
	f.aff.do(func() { f.d.Launch(task) })
	f.exec.runAll()

	_, err := task.Result()
	assert.True(t, errors.Is(err, dispatch.ErrNoWork))
	assert.Equal(t, dispatch.StateFailed, task.State())
}

func TestPanicError_UnwrapsErrorValue(t *testing.T) {
	f := newFixture(t)
	errInner := errors.New("inner")

	task := dispatch.NewTask(func() (int, error) { panic(errInner) }, nil)
	f.aff.do(func() { f.d.Launch(task) })
	f.exec.runAll()

	_, err := task.Result()
	assert.ErrorIs(t, err, errInner)

	var panicErr *dispatch.PanicError
	assert.ErrorAs(t, err, &panicErr)
	assert.NotEmpty(t, panicErr.Stack)
}
