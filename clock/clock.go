package clock

import "time"

// Interface is the subset of the time package the workflow depends on.  Delays go
// through Sleep so that tests can substitute a mock and never block.
type Interface interface {
	Now() time.Time
	Since(time.Time) time.Duration
	Sleep(time.Duration)
}

type systemClock struct{}

func (sc systemClock) Now() time.Time {
	return time.Now()
}

func (sc systemClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (sc systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}

// Scaled returns a clock whose Sleep multiplies every requested duration by factor before
// delegating to next.  A factor of 1, or a non-positive factor, returns next unchanged.
func Scaled(next Interface, factor float64) Interface {
	if factor <= 0 || factor == 1 {
		return next
	}

	return scaledClock{Interface: next, factor: factor}
}

type scaledClock struct {
	Interface
	factor float64
}

func (sc scaledClock) Sleep(d time.Duration) {
	sc.Interface.Sleep(time.Duration(float64(d) * sc.factor))
}
