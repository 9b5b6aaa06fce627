// Package replay runs a scripted sequence of hints through an arbiter
// wired to an in-memory sysfs and a recording perf client, so tuning
// tables can be checked without a device.
package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/scienceol/hintd/internal/clock"
	"github.com/scienceol/hintd/internal/config"
	"github.com/scienceol/hintd/internal/hint"
	"github.com/scienceol/hintd/internal/perf"
	"github.com/scienceol/hintd/internal/sysfs"
)

// start is the fake clock's origin. Its value is irrelevant; only
// offsets between steps matter.
var start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Script is a replay file.
type Script struct {
	// Governor is what the synthetic core 0 reports. Defaults to the
	// governor the tuning expects.
	Governor string `yaml:"governor"`
	Steps    []Step `yaml:"steps"`
}

// Step is one hint delivered After the previous step.
type Step struct {
	After      time.Duration `yaml:"after"`
	Hint       string        `yaml:"hint"`
	DurationMs *int          `yaml:"duration_ms"`
	Enable     bool          `yaml:"enable"`
	Metadata   string        `yaml:"metadata"`
	Feature    string        `yaml:"feature"`
}

// Event converts the step into the hint it delivers.
func (s Step) Event() hint.Event {
	return hint.Event{
		Kind:       hint.Kind(s.Hint),
		DurationMs: s.DurationMs,
		Enable:     s.Enable,
		Metadata:   s.Metadata,
		Feature:    hint.Feature(s.Feature),
	}
}

// Result is the outcome of one step.
type Result struct {
	Offset  time.Duration
	Step    Step
	Handled bool
	Actions []perf.Action
	Writes  []sysfs.Write
}

// LoadFile reads and validates a script.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var script Script
	if err := unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("script has no steps")
	}
	for i, step := range script.Steps {
		if step.Hint == "" {
			return nil, fmt.Errorf("step %d: hint is required", i+1)
		}
		if step.After < 0 {
			return nil, fmt.Errorf("step %d: after must not be negative", i+1)
		}
	}
	return &script, nil
}

// Run delivers every step to a fresh arbiter built from tuning and
// returns what each step did.
func Run(script *Script, tuning config.Tuning, logger hclog.Logger) []Result {
	governor := script.Governor
	if governor == "" {
		governor = tuning.Governor
	}
	fs := sysfs.NewMemory(map[string]string{sysfs.GovernorPath(0): governor})
	recorder := perf.NewRecorder()
	fake := clock.Fake(start)

	arbiter := hint.New(hint.Options{
		Perf:   recorder,
		Sysfs:  fs,
		Clock:  fake,
		Logger: logger,
		Tuning: tuning,
	})

	var offset time.Duration
	results := make([]Result, 0, len(script.Steps))
	for _, step := range script.Steps {
		fake.Advance(step.After)
		offset += step.After
		handled := arbiter.Dispatch(step.Event())
		results = append(results, Result{
			Offset:  offset,
			Step:    step,
			Handled: handled,
			Actions: recorder.Drain(),
			Writes:  fs.Writes(),
		})
	}
	return results
}
