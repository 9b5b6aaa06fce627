// Package perf models requests to the vendor performance-lock service:
// batches of (opcode, value) resources that are held for a bounded
// duration or indefinitely, and hint-id tagged actions that stay applied
// until undone.
package perf

import "time"

// Indefinite is the duration passed to Acquire for locks that are held
// until explicitly released.
const Indefinite time.Duration = 0

// Handle identifies an outstanding lock returned by Acquire.
type Handle int32

// NoHandle means no lock is outstanding.
const NoHandle Handle = 0

// Resource is a single tunable: an opcode naming the knob and the value
// to set it to.
type Resource struct {
	Opcode int32
	Value  int32
}

// Request is an ordered batch of resources applied together.
type Request []Resource

// Packed encodes each resource as opcode|value, the form the lock-acquire
// call takes. Opcodes leave their low byte clear for the value.
func (r Request) Packed() []int32 {
	out := make([]int32, len(r))
	for i, res := range r {
		out[i] = res.Opcode | res.Value
	}
	return out
}

// Pairs flattens the batch into opcode, value, opcode, value... as taken
// by hint actions.
func (r Request) Pairs() []int32 {
	out := make([]int32, 0, 2*len(r))
	for _, res := range r {
		out = append(out, res.Opcode, res.Value)
	}
	return out
}

// Client talks to the performance-lock service. Implementations are
// expected not to block for long: callers may hold locks across calls.
type Client interface {
	// Acquire applies req for duration (or Indefinite) and returns a
	// handle for the new lock. On failure the returned handle is still
	// meaningful to the caller (typically NoHandle).
	Acquire(duration time.Duration, req Request) (Handle, error)

	// Release drops a lock previously returned by Acquire.
	Release(h Handle) error

	// PerformHint applies req tagged with hintID until UndoHint is
	// called with the same id.
	PerformHint(hintID int32, req Request) error

	// UndoHint reverts whatever is applied under hintID.
	UndoHint(hintID int32) error
}
