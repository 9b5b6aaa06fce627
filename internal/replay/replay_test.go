package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scienceol/hintd/internal/config"
	"github.com/scienceol/hintd/internal/perf"
)

const touchScript = `
steps:
  - hint: interaction
    duration_ms: 100
  - after: 100ms
    hint: interaction
    duration_ms: 100
  - after: 50ms
    hint: interaction
    duration_ms: 2000
  - after: 1s
    hint: sustained_performance
    enable: true
  - after: 10ms
    hint: interaction
  - hint: video_encode
    metadata: "state=0"
  - hint: vsync
`

func TestRunTouchScript(t *testing.T) {
	script, err := Parse([]byte(touchScript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	results := Run(script, config.Default().Tuning, nil)
	if len(results) != 7 {
		t.Fatalf("got %d results, want 7", len(results))
	}

	tests := []struct {
		offset   time.Duration
		handled  bool
		acquires int
		releases int
		writes   int
	}{
		{0, true, 4, 0, 0},
		{100 * time.Millisecond, true, 0, 0, 0}, // debounced
		{150 * time.Millisecond, true, 4, 4, 0}, // fling
		{1150 * time.Millisecond, true, 1, 0, 1},
		{1160 * time.Millisecond, true, 0, 0, 0}, // suppressed
		{1160 * time.Millisecond, true, 0, 0, 0},
		{1160 * time.Millisecond, false, 0, 0, 0},
	}
	for i, test := range tests {
		result := results[i]
		acquires, releases := 0, 0
		for _, action := range result.Actions {
			switch action.Op {
			case perf.OpAcquire:
				acquires++
			case perf.OpRelease:
				releases++
			}
		}
		if result.Offset != test.offset || result.Handled != test.handled ||
			acquires != test.acquires || releases != test.releases || len(result.Writes) != test.writes {
			t.Errorf("step %d: offset=%v handled=%v acquires=%d releases=%d writes=%d, want %+v",
				i+1, result.Offset, result.Handled, acquires, releases, len(result.Writes), test)
		}
	}

	// The stop is undone unconditionally.
	if actions := results[5].Actions; len(actions) != 1 || actions[0].Op != perf.OpUndoHint {
		t.Errorf("video stop actions = %v, want one undo", actions)
	}
}

func TestRunGovernorOverride(t *testing.T) {
	script, err := Parse([]byte("governor: schedutil\nsteps:\n  - hint: interactive\n    enable: false\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	results := Run(script, config.Default().Tuning, nil)
	if len(results[0].Actions) != 0 {
		t.Errorf("display hint applied under schedutil: %v", results[0].Actions)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"empty", "steps: []\n", "no steps"},
		{"missing hint", "steps:\n  - after: 1s\n", "hint is required"},
		{"negative after", "steps:\n  - hint: vsync\n    after: -1s\n", "must not be negative"},
		{"unknown field", "steps:\n  - hint: vr_mode\n    enabled: true\n", "parse script"},
		{"bad duration", "steps:\n  - hint: vsync\n    after: soon\n", "parse script"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.script))
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Fatalf("Parse error = %v, want it to mention %q", err, test.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(touchScript), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	script, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := len(script.Steps); got != 7 {
		t.Errorf("steps = %d, want 7", got)
	}
	if script.Steps[1].After != 100*time.Millisecond {
		t.Errorf("after = %v, want 100ms", script.Steps[1].After)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile of a missing file should fail")
	}
}
