package perf

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestRequestEncodings(t *testing.T) {
	req := Request{
		{Opcode: 0x4E00, Value: 20},
		{Opcode: 0x1E00, Value: 0x01},
	}
	if got, want := req.Packed(), []int32{0x4E14, 0x1E01}; !reflect.DeepEqual(got, want) {
		t.Errorf("Packed() = %#x, want %#x", got, want)
	}
	if got, want := req.Pairs(), []int32{0x4E00, 20, 0x1E00, 0x01}; !reflect.DeepEqual(got, want) {
		t.Errorf("Pairs() = %#x, want %#x", got, want)
	}
}

func TestRecorderHandlesAndCounts(t *testing.T) {
	r := NewRecorder()
	first, err := r.Acquire(500*time.Millisecond, Request{{Opcode: 0x2300, Value: 0x12}})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	second, _ := r.Acquire(Indefinite, Request{{Opcode: 0x3D00, Value: 0xFF}})
	if first == NoHandle || second == first {
		t.Fatalf("handles = %d, %d; want distinct non-zero handles", first, second)
	}
	r.Release(first)
	r.PerformHint(0x0A00, nil)
	r.UndoHint(0x0A00)

	if got := r.Count(OpAcquire); got != 2 {
		t.Errorf("Count(acquire) = %d, want 2", got)
	}
	if got := len(r.Drain()); got != 5 {
		t.Errorf("Drain() returned %d actions, want 5", got)
	}
	if got := len(r.Actions()); got != 0 {
		t.Errorf("Actions() after Drain = %d, want 0", got)
	}
}

func TestRecorderInjectedError(t *testing.T) {
	injected := errors.New("write rejected")
	r := &Recorder{Err: injected}
	h, err := r.Acquire(time.Second, nil)
	if !errors.Is(err, injected) {
		t.Fatalf("Acquire error = %v, want %v", err, injected)
	}
	if h == NoHandle {
		t.Fatal("Acquire should still return the handle it recorded")
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Action{Op: OpRelease, Handle: 3}, "release #3"},
		{Action{Op: OpUndoHint, HintID: 0x0A00}, "undo hint 0xa00"},
		{Action{Op: OpAcquire, Handle: 1, Duration: Indefinite, Request: Request{{Opcode: 0x3D00, Value: 0xFF}}}, "acquire #1 indefinite [0x3dff]"},
	}
	for _, test := range tests {
		if got := test.action.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}
