package perf

import (
	"fmt"
	"sync"
	"time"
)

// Op names the kind of call a Recorder saw.
type Op string

const (
	OpAcquire     Op = "acquire"
	OpRelease     Op = "release"
	OpPerformHint Op = "perform_hint"
	OpUndoHint    Op = "undo_hint"
)

// Action is one call observed by a Recorder.
type Action struct {
	Op       Op
	Handle   Handle
	Duration time.Duration
	HintID   int32
	Request  Request
}

func (a Action) String() string {
	switch a.Op {
	case OpAcquire:
		if a.Duration == Indefinite {
			return fmt.Sprintf("acquire #%d indefinite %#x", a.Handle, a.Request.Packed())
		}
		return fmt.Sprintf("acquire #%d for %v %#x", a.Handle, a.Duration, a.Request.Packed())
	case OpRelease:
		return fmt.Sprintf("release #%d", a.Handle)
	case OpPerformHint:
		return fmt.Sprintf("perform hint %#x %#x", a.HintID, a.Request.Pairs())
	case OpUndoHint:
		return fmt.Sprintf("undo hint %#x", a.HintID)
	}
	return string(a.Op)
}

// Recorder is an in-memory Client that hands out sequential handles and
// remembers every call. It backs dry runs and tests.
type Recorder struct {
	mu      sync.Mutex
	next    Handle
	actions []Action

	// Err, when set, is returned from every call after it is recorded.
	// Acquire still hands out a handle so callers see a non-zero value.
	Err error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Acquire(duration time.Duration, req Request) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.actions = append(r.actions, Action{Op: OpAcquire, Handle: r.next, Duration: duration, Request: req})
	return r.next, r.Err
}

func (r *Recorder) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, Action{Op: OpRelease, Handle: h})
	return r.Err
}

func (r *Recorder) PerformHint(hintID int32, req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, Action{Op: OpPerformHint, HintID: hintID, Request: req})
	return r.Err
}

func (r *Recorder) UndoHint(hintID int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, Action{Op: OpUndoHint, HintID: hintID})
	return r.Err
}

// Actions returns a copy of everything recorded so far.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.actions...)
}

// Drain returns everything recorded so far and forgets it.
func (r *Recorder) Drain() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.actions
	r.actions = nil
	return out
}

// Count returns how many recorded actions have the given op.
func (r *Recorder) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions {
		if a.Op == op {
			n++
		}
	}
	return n
}
