package animation

import (
	"math"
	"time"
)

// Clock provides time for animations. The default implementation uses
// system time, which carries a monotonic reading. Tests can inject a fake
// clock via SetClock or per animator via WithClock.
//
// Implementations must never go backward during a session; a clock that
// wraps or resets is a contract violation and is not detected.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// realClock uses system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// clock is the package-level time source, replaceable for testing.
var clock Clock = realClock{}

// SetClock replaces the animation clock. Returns the previous clock
// so callers can restore it during cleanup.
func SetClock(c Clock) Clock {
	prev := clock
	if c == nil {
		c = realClock{}
	}
	clock = c
	return prev
}

// DefaultClock returns the active package-level clock.
func DefaultClock() Clock { return clock }

// Now returns the current time from the active clock.
func Now() time.Time { return clock.Now() }

// Seconds converts a duration to fractional seconds.
func Seconds(d time.Duration) float64 {
	return d.Seconds()
}

// FromSeconds converts fractional seconds to a duration, rounding to the
// nearest nanosecond.
func FromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
