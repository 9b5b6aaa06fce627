package hint

import "github.com/scienceol/hintd/internal/perf"

// hotplugRequest keeps every core online.
var hotplugRequest = perf.Request{{Opcode: opHotplugMinCore, Value: 0xFF}}

// SustainedPerformance enters or leaves sustained performance mode. The
// GPU is capped to a frequency it can hold indefinitely, and the hotplug
// lock is shared with VR mode: it is taken when the first of the two
// modes turns on and dropped when the last one turns off.
func (a *Arbiter) SustainedPerformance(enable bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	gpu := a.tuning.GPU
	switch {
	case enable && !a.sustained:
		a.write(gpu.MaxFreqPath, gpu.SustainedMaxFreq)
		if !a.vr {
			a.acquireOrReplace(&a.hotplug, "hotplug", perf.Indefinite, hotplugRequest)
		}
		a.sustained = true
		a.logger.Info("sustained performance mode enabled")
	case !enable && a.sustained:
		a.write(gpu.MaxFreqPath, gpu.DefaultMaxFreq)
		if !a.vr {
			a.release(&a.hotplug, "hotplug")
		}
		a.sustained = false
		a.logger.Info("sustained performance mode disabled")
	}
	return true
}

// VRMode enters or leaves VR mode, raising the GPU and bus floors while
// active. It shares the hotplug lock with sustained performance mode.
func (a *Arbiter) VRMode(enable bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	gpu := a.tuning.GPU
	switch {
	case enable && !a.vr:
		a.write(gpu.MinFreqPath, gpu.VRMinFreq)
		a.write(gpu.BusSpeedPath, gpu.VRBusSpeed)
		if !a.sustained {
			a.acquireOrReplace(&a.hotplug, "hotplug", perf.Indefinite, hotplugRequest)
		}
		a.vr = true
		a.logger.Info("vr mode enabled")
	case !enable && a.vr:
		a.write(gpu.MinFreqPath, gpu.DefaultMinFreq)
		a.write(gpu.BusSpeedPath, gpu.DefaultBusSpeed)
		if !a.sustained {
			a.release(&a.hotplug, "hotplug")
		}
		a.vr = false
		a.logger.Info("vr mode disabled")
	}
	return true
}
