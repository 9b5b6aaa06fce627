// Package clock abstracts time so the arbiter's debounce window and the
// reconnect backoff can be driven deterministically in tests.
//
// Production code uses Real(). Tests use Fake(), which only moves when
// Advance is called.
package clock

import "time"

// Clock is the subset of the time package the daemon depends on.
type Clock interface {
	// Now returns the current time. Real clocks carry a monotonic
	// reading, so Sub between two Now values is immune to wall-clock
	// steps.
	Now() time.Time

	// After returns a channel that receives the current time once d has
	// elapsed. If d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time
}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
