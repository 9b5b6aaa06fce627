// Package hint arbitrates power hints into performance-lock requests and
// sysfs writes.
//
// An Arbiter owns all hint state: the sustained-performance and VR mode
// flags, the time of the last interaction boost, the outstanding lock
// handles and the display/video "hint sent" flags. Callers deliver one
// hint at a time; every entry point is synchronous and reports only
// whether the hint was handled. Failures of the perf service, sysfs or
// the governor lookup are logged and degrade to "no tuning this time".
package hint

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/scienceol/hintd/internal/clock"
	"github.com/scienceol/hintd/internal/config"
	"github.com/scienceol/hintd/internal/perf"
)

// defaultCores is how many cores are probed for a governor when the
// tuning does not say.
const defaultCores = 4

// ErrNoGovernor is returned when no probed core exposes a readable
// scaling governor.
var ErrNoGovernor = errors.New("no core exposes a readable scaling governor")

// Sysfs is the kernel-facing surface the arbiter reads and writes.
type Sysfs interface {
	Governor(core int) (string, error)
	Write(path, value string) error
}

// Options wires an Arbiter to its collaborators.
type Options struct {
	Perf   perf.Client
	Sysfs  Sysfs
	Clock  clock.Clock
	Logger hclog.Logger
	Tuning config.Tuning
}

// Arbiter turns hints into resource requests. The zero value is not
// usable; construct one with New.
type Arbiter struct {
	perf   perf.Client
	sysfs  Sysfs
	clock  clock.Clock
	logger hclog.Logger
	tuning config.Tuning

	// mu guards the mode flags, the boost timestamp and the hotplug
	// handle. Mode transitions call the perf client while holding it.
	mu        sync.Mutex
	sustained bool
	vr        bool
	boosted   bool
	lastBoost time.Time
	hotplug   perf.Handle

	// boostMu guards the interaction boost handles, which are replaced
	// after mu has been released.
	boostMu sync.Mutex
	boost   [numBoostLocks]perf.Handle

	// trackMu guards the display and video trackers. Hint delivery is
	// serialized by the dispatcher already; the mutex only keeps
	// concurrent misuse from racing.
	trackMu         sync.Mutex
	displayHintSent bool
	videoHintSent   bool
	displayState    displayState
}

type displayState int8

const (
	displayStateUnknown displayState = iota
	displayStateOff
	displayStateOn
)

// New returns an Arbiter with every flag cleared and no lock held.
func New(opts Options) *Arbiter {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Tuning.Cores <= 0 {
		opts.Tuning.Cores = defaultCores
	}
	return &Arbiter{
		perf:   opts.Perf,
		sysfs:  opts.Sysfs,
		clock:  opts.Clock,
		logger: opts.Logger,
		tuning: opts.Tuning,
	}
}

// State is a point-in-time copy of the arbiter's flags.
type State struct {
	SustainedPerformance bool `json:"sustained_performance"`
	VRMode               bool `json:"vr_mode"`
	HotplugHeld          bool `json:"hotplug_held"`
	DisplayHintSent      bool `json:"display_hint_sent"`
	VideoHintSent        bool `json:"video_hint_sent"`
}

// State returns the current flags.
func (a *Arbiter) State() State {
	a.mu.Lock()
	state := State{
		SustainedPerformance: a.sustained,
		VRMode:               a.vr,
		HotplugHeld:          a.hotplug != perf.NoHandle,
	}
	a.mu.Unlock()

	a.trackMu.Lock()
	state.DisplayHintSent = a.displayHintSent
	state.VideoHintSent = a.videoHintSent
	a.trackMu.Unlock()
	return state
}

// DisplayOn reports the last display state delivered through
// Interactive. known is false until the first such hint is applied.
func (a *Arbiter) DisplayOn() (on, known bool) {
	a.trackMu.Lock()
	defer a.trackMu.Unlock()
	return a.displayState == displayStateOn, a.displayState != displayStateUnknown
}

// acquireOrReplace releases whatever lock slot holds, then acquires req
// and stores the new handle. The handle is stored even when the perf
// client reports an error.
func (a *Arbiter) acquireOrReplace(slot *perf.Handle, name string, duration time.Duration, req perf.Request) {
	a.release(slot, name)
	handle, err := a.perf.Acquire(duration, req)
	if err != nil {
		a.logger.Warn("perf lock request failed", "lock", name, "error", err)
	}
	*slot = handle
}

// release drops the lock in slot, if any, and clears it.
func (a *Arbiter) release(slot *perf.Handle, name string) {
	if *slot == perf.NoHandle {
		return
	}
	if err := a.perf.Release(*slot); err != nil {
		// Timed locks may already have expired in the service.
		a.logger.Debug("perf lock release failed", "lock", name, "handle", *slot, "error", err)
	}
	*slot = perf.NoHandle
}

// write updates a sysfs node, logging failures.
func (a *Arbiter) write(path, value string) {
	if path == "" {
		return
	}
	if err := a.sysfs.Write(path, value); err != nil {
		a.logger.Warn("sysfs write failed", "path", path, "value", value, "error", err)
	}
}

// governor returns the scaling governor of the first core that exposes
// one. Cores may be offline, so each configured core is tried in turn.
func (a *Arbiter) governor() (string, error) {
	var lastErr error
	for core := 0; core < a.tuning.Cores; core++ {
		name, err := a.sysfs.Governor(core)
		if err == nil {
			return name, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: %v", ErrNoGovernor, lastErr)
}
