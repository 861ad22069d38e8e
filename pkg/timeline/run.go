package timeline

import (
	"context"
	"time"

	"github.com/go-drift/marquee/pkg/errors"
)

// DefaultFPS is the tick rate used when Run is given a non-positive interval.
const DefaultFPS = 60

// Interval returns the tick interval for a frame rate. Non-positive rates
// fall back to DefaultFPS.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// Run ticks c every interval until ctx is done. A panic inside a tick is
// reported and ends the run with an error.
func Run(ctx context.Context, c *Coordinator, interval time.Duration) (err error) {
	if interval <= 0 {
		interval = Interval(DefaultFPS)
	}

	defer errors.RecoverWithCallback("timeline.Run", func(r any) {
		err = &errors.Error{Op: "timeline.Run", Kind: errors.KindPanic, Err: &errors.PanicError{Op: "timeline.Run", Value: r}}
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Advance()
		}
	}
}
