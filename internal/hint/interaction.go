package hint

import (
	"time"

	"github.com/scienceol/hintd/internal/perf"
)

const (
	// maxBoostGap caps the time since the previous boost; beyond it a
	// touch is treated as sporadic.
	maxBoostGap = 750 * time.Millisecond
	// debounceWindow drops non-fling touches arriving this soon after
	// the previous boost.
	debounceWindow = 250 * time.Millisecond
	// flingMs is the duration hint at which a touch counts as a fling.
	flingMs = 750

	defaultUpmigrate = 95
	flingUpmigrate   = 20

	littleBoostDuration      = 1500 * time.Millisecond
	bigBoostDuration         = 500 * time.Millisecond
	downmigrateDuration      = 1000 * time.Millisecond
	upmigrateDuration        = 500 * time.Millisecond
	maxDownmigrateDurationMs = 5000
	littleBoostTailMs        = 750
)

// Perf-lock opcodes; the low byte carries the value.
const (
	opLittleMinFreq  int32 = 0x0200
	opSchedBoost     int32 = 0x1E00
	opBigMinFreq     int32 = 0x2300
	opBigMinCores    int32 = 0x1F00
	opHotplugMinCore int32 = 0x3D00
	opUpmigrate      int32 = 0x4E00
	opDownmigrate    int32 = 0x4F00
)

// Boost lock slots, each holding at most one live handle.
const (
	boostLittle = iota
	boostBig
	boostDownmigrate
	boostUpmigrate
	numBoostLocks
)

var boostLockNames = [numBoostLocks]string{"little", "big", "downmigrate", "upmigrate"}

// boostPlan is the set of requests one accepted interaction produces.
type boostPlan struct {
	upmigrate   int32
	downmigrate int32

	little       time.Duration
	big          time.Duration
	downDuration time.Duration
	upDuration   time.Duration
}

// Interaction handles a user interaction. durationMs is the expected
// gesture length; nil is treated as zero. Touches are ignored while
// sustained performance or VR mode is active, and short touches inside
// the debounce window are dropped.
func (a *Arbiter) Interaction(durationMs *int) bool {
	hint := 0
	if durationMs != nil {
		hint = *durationMs
	}

	plan, ok := a.admitBoost(hint)
	if !ok {
		return true
	}

	a.boostMu.Lock()
	defer a.boostMu.Unlock()
	requests := [numBoostLocks]struct {
		duration time.Duration
		req      perf.Request
	}{
		boostLittle:      {plan.little, perf.Request{{Opcode: opLittleMinFreq, Value: 0x0C}, {Opcode: opSchedBoost, Value: 0x01}}},
		boostBig:         {plan.big, perf.Request{{Opcode: opBigMinFreq, Value: 0x12}, {Opcode: opBigMinCores, Value: 0x08}}},
		boostDownmigrate: {plan.downDuration, perf.Request{{Opcode: opDownmigrate, Value: plan.downmigrate}}},
		boostUpmigrate:   {plan.upDuration, perf.Request{{Opcode: opUpmigrate, Value: plan.upmigrate}}},
	}
	for slot, request := range requests {
		a.acquireOrReplace(&a.boost[slot], boostLockNames[slot], request.duration, request.req)
	}
	return true
}

// admitBoost applies the mode suppression and debounce rules and, when
// the touch is accepted, records it as the latest boost.
func (a *Arbiter) admitBoost(hint int) (boostPlan, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sustained || a.vr {
		a.logger.Trace("interaction ignored while an exclusive mode is active",
			"sustained_performance", a.sustained, "vr_mode", a.vr)
		return boostPlan{}, false
	}

	now := a.clock.Now()
	elapsed := maxBoostGap
	if a.boosted {
		elapsed = now.Sub(a.lastBoost)
	}
	if elapsed > maxBoostGap {
		elapsed = maxBoostGap
	} else if elapsed < debounceWindow && hint <= flingMs {
		a.logger.Trace("interaction debounced", "elapsed", elapsed, "duration_hint", hint)
		return boostPlan{}, false
	}

	a.boosted = true
	a.lastBoost = now
	return planBoost(elapsed, hint), true
}

// planBoost derives thresholds and durations from the time since the
// last boost and the gesture duration hint.
func planBoost(elapsed time.Duration, hint int) boostPlan {
	plan := boostPlan{
		upmigrate:    upmigrateFor(elapsed),
		little:       littleBoostDuration,
		big:          bigBoostDuration,
		downDuration: downmigrateDuration,
		upDuration:   upmigrateDuration,
	}
	if hint >= flingMs {
		plan.upmigrate = flingUpmigrate
	}
	plan.downmigrate = plan.upmigrate / 2

	// The little-core boost outlasts the downmigrate window so tasks
	// settle before frequencies drop.
	if hint > int(downmigrateDuration/time.Millisecond) {
		down := hint
		if down > maxDownmigrateDurationMs {
			down = maxDownmigrateDurationMs
		}
		plan.downDuration = time.Duration(down) * time.Millisecond
		plan.little = time.Duration(down+littleBoostTailMs) * time.Millisecond
	}
	return plan
}

// upmigrateFor keeps upmigrate low right after a touch and relaxes it
// quadratically back to the default as the gap approaches maxBoostGap.
func upmigrateFor(elapsed time.Duration) int32 {
	if elapsed > maxBoostGap {
		elapsed = maxBoostGap
	}
	if elapsed < 0 {
		elapsed = 0
	}
	gap := float64(elapsed.Microseconds())
	limit := float64(maxBoostGap.Microseconds())
	drop := int32(float64(defaultUpmigrate-flingUpmigrate) * ((gap * gap) / (limit * limit)))
	return defaultUpmigrate - drop
}
