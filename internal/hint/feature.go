package hint

import "strconv"

// Feature names an optional device feature toggled through SetFeature.
type Feature string

// FeatureDoubleTapToWake wakes the device on a touch gesture while the
// screen is off.
const FeatureDoubleTapToWake Feature = "double_tap_to_wake"

// SetFeature toggles a device feature. Only wake gestures are supported;
// other features report not handled. With a gesture mode of zero the
// touch controller wakes on double tap, otherwise on the sweep
// directions the mode selects.
func (a *Arbiter) SetFeature(feature Feature, enabled bool) bool {
	if feature != FeatureDoubleTapToWake {
		return false
	}

	gesture := a.tuning.Gesture
	mode := max(gesture.Mode, 0)
	doubleTap, sweep := 0, 0
	if enabled {
		if mode == 0 {
			doubleTap = 1
		}
		sweep = mode
	}
	a.write(gesture.DoubleTapPath, strconv.Itoa(doubleTap))
	a.write(gesture.SweepPath, strconv.Itoa(sweep))
	if gesture.VibrationStrength >= 0 {
		a.write(gesture.VibrationPath, strconv.Itoa(gesture.VibrationStrength))
	}
	return true
}
