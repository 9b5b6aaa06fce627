package client

import (
	"math"
	"math/rand"
	"time"

	"github.com/scienceol/hintd/internal/clock"
)

const (
	minBackoff = 1 * time.Second
	maxBackoff = 60 * time.Second
	jitter     = 0.25
)

// Reconnector implements exponential backoff with jitter.
type Reconnector struct {
	clock   clock.Clock
	attempt int
}

// NewReconnector creates a Reconnector that waits on c.
func NewReconnector(c clock.Clock) *Reconnector {
	return &Reconnector{clock: c}
}

// Wait blocks for the next backoff delay and returns false if stopped.
func (r *Reconnector) Wait(stopCh <-chan struct{}) bool {
	select {
	case <-r.clock.After(r.nextDelay()):
		return true
	case <-stopCh:
		return false
	}
}

// Reset restarts the backoff after a successful connection.
func (r *Reconnector) Reset() {
	r.attempt = 0
}

func (r *Reconnector) nextDelay() time.Duration {
	// min * 2^attempt, capped at max
	base := float64(minBackoff) * math.Pow(2, float64(r.attempt))
	if base > float64(maxBackoff) {
		base = float64(maxBackoff)
	}

	// ±25%
	j := base * jitter * (2*rand.Float64() - 1)
	d := time.Duration(base + j)
	d = max(d, minBackoff)
	d = min(d, maxBackoff)

	r.attempt++
	return d
}
