package navigation

import "time"

// Animation runs a value from one number to another over a duration.
// apply receives every intermediate value; done runs once after the final value.
// The returned cancel stops the animation without calling done.
type Animation interface {
	Animate(from, to float64, d time.Duration, apply func(float64), done func()) (cancel func())
}

type tween struct {
	from, to float64
	duration time.Duration
	start    time.Time
	started  bool
	apply    func(float64)
	done     func()
	stopped  bool
}

// Animator is a frame-driven Animation. Register Advance as a frame handler on
// the affinity loop. It is not safe for concurrent use.
type Animator struct {
	tweens []*tween
}

// NewAnimator creates an idle Animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Animate applies from immediately and interpolates linearly towards to.
// Timing starts at the next call to Advance.
func (a *Animator) Animate(from, to float64, d time.Duration, apply func(float64), done func()) (cancel func()) {
	tw := &tween{from: from, to: to, duration: d, apply: apply, done: done}
	if apply != nil {
		apply(from)
	}
	a.tweens = append(a.tweens, tw)

	return func() { tw.stopped = true }
}

// Active returns the number of running animations.
func (a *Animator) Active() int {
	n := 0
	for _, tw := range a.tweens {
		if !tw.stopped {
			n++
		}
	}
	return n
}

// Advance moves every animation to its value at now. Animations started by a
// done callback begin timing on the following Advance.
func (a *Animator) Advance(now time.Time) {
	current := a.tweens
	a.tweens = nil

	var finished []*tween
	for _, tw := range current {
		if tw.stopped {
			continue
		}
		if !tw.started {
			tw.started = true
			tw.start = now
		}

		progress := 1.0
		if tw.duration > 0 {
			progress = float64(now.Sub(tw.start)) / float64(tw.duration)
		}
		if progress >= 1 {
			progress = 1
		}

		if tw.apply != nil {
			tw.apply(tw.from + (tw.to-tw.from)*progress)
		}

		if progress == 1 {
			tw.stopped = true
			finished = append(finished, tw)
			continue
		}
		a.tweens = append(a.tweens, tw)
	}

	for _, tw := range finished {
		if tw.done != nil {
			tw.done()
		}
	}
}
