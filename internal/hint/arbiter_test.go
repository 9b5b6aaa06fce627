package hint

import (
	"testing"
	"time"

	"github.com/scienceol/hintd/internal/clock"
	"github.com/scienceol/hintd/internal/config"
	"github.com/scienceol/hintd/internal/perf"
	"github.com/scienceol/hintd/internal/sysfs"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// fixture is an Arbiter wired to in-memory collaborators.
type fixture struct {
	arbiter *Arbiter
	perf    *perf.Recorder
	sysfs   *sysfs.Memory
	clock   *clock.FakeClock
}

// newFixture builds an Arbiter whose core 0 runs governor. An empty
// governor leaves every core unreadable.
func newFixture(t *testing.T, governor string) *fixture {
	t.Helper()
	seed := map[string]string{}
	if governor != "" {
		seed[sysfs.GovernorPath(0)] = governor
	}
	f := &fixture{
		perf:  perf.NewRecorder(),
		sysfs: sysfs.NewMemory(seed),
		clock: clock.Fake(epoch),
	}
	f.arbiter = New(Options{
		Perf:   f.perf,
		Sysfs:  f.sysfs,
		Clock:  f.clock,
		Tuning: config.Default().Tuning,
	})
	return f
}

func intPtr(v int) *int { return &v }

// ops lists the operation of every action, for compact comparisons.
func ops(actions []perf.Action) []perf.Op {
	out := make([]perf.Op, len(actions))
	for i, action := range actions {
		out[i] = action.Op
	}
	return out
}

func TestNewDefaultsCores(t *testing.T) {
	a := New(Options{Tuning: config.Tuning{}})
	if a.tuning.Cores != defaultCores {
		t.Errorf("Cores = %d, want %d", a.tuning.Cores, defaultCores)
	}
	if state := a.State(); state != (State{}) {
		t.Errorf("initial State() = %+v, want all false", state)
	}
	if _, known := a.DisplayOn(); known {
		t.Error("display state should be unknown before the first hint")
	}
}

func TestGovernorProbesLaterCores(t *testing.T) {
	f := newFixture(t, "")
	f.sysfs.Write(sysfs.GovernorPath(3), "interactive")

	got, err := f.arbiter.governor()
	if err != nil {
		t.Fatalf("governor(): %v", err)
	}
	if got != "interactive" {
		t.Errorf("governor() = %q, want interactive", got)
	}
}

func TestDispatchRoutesEvents(t *testing.T) {
	f := newFixture(t, "interactive")
	tests := []struct {
		event       Event
		wantHandled bool
	}{
		{Event{Kind: KindInteraction, DurationMs: intPtr(100)}, true},
		{Event{Kind: KindSustainedPerformance, Enable: true}, true},
		{Event{Kind: KindVRMode, Enable: true}, true},
		{Event{Kind: KindInteractive, Enable: false}, true},
		{Event{Kind: KindVideoEncode, Metadata: "state=1"}, true},
		{Event{Kind: KindFeature, Feature: FeatureDoubleTapToWake, Enable: true}, true},
		{Event{Kind: KindFeature, Feature: "glove_mode", Enable: true}, false},
		{Event{Kind: KindVSync}, false},
		{Event{Kind: "launch"}, false},
	}
	for _, test := range tests {
		if got := f.arbiter.Dispatch(test.event); got != test.wantHandled {
			t.Errorf("Dispatch(%+v) = %v, want %v", test.event, got, test.wantHandled)
		}
	}

	state := f.arbiter.State()
	want := State{SustainedPerformance: true, VRMode: true, HotplugHeld: true, DisplayHintSent: true, VideoHintSent: true}
	if state != want {
		t.Errorf("State() = %+v, want %+v", state, want)
	}
}
