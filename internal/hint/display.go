package hint

import (
	"github.com/scienceol/hintd/internal/metadata"
	"github.com/scienceol/hintd/internal/perf"
)

// Interactive-governor opcodes for hint actions (opcode/value pairs).
const (
	opCluster0TimerRate         int32 = 0x41424000
	opCluster1TimerRate         int32 = 0x41424100
	opCluster0UseSchedLoad      int32 = 0x41430000
	opCluster1UseSchedLoad      int32 = 0x41430100
	opCluster0UseMigrationNotif int32 = 0x41434000
	opCluster1UseMigrationNotif int32 = 0x41434100
	opNotifyOnMigrate           int32 = 0x4241C000

	timerRate50ms int32 = 0x32
	timerRate40ms int32 = 0x28
)

// displayOffRequest slows both clusters' governor timers and stops
// migration notifications while the screen is off.
var displayOffRequest = perf.Request{
	{Opcode: opCluster0TimerRate, Value: timerRate50ms},
	{Opcode: opCluster1TimerRate, Value: timerRate50ms},
	{Opcode: opNotifyOnMigrate, Value: 0x00},
}

// videoEncodeRequest makes both clusters load-aware during encoding.
var videoEncodeRequest = perf.Request{
	{Opcode: opCluster0UseSchedLoad, Value: 0x1},
	{Opcode: opCluster1UseSchedLoad, Value: 0x1},
	{Opcode: opCluster0UseMigrationNotif, Value: 0x1},
	{Opcode: opCluster1UseMigrationNotif, Value: 0x1},
	{Opcode: opCluster0TimerRate, Value: timerRate40ms},
	{Opcode: opCluster1TimerRate, Value: timerRate40ms},
}

// Interactive applies the display state hint. Only the configured
// governor is tuned; any other governor makes this a no-op. Display off
// applies the hint once, display on undoes it once.
func (a *Arbiter) Interactive(displayOn bool) bool {
	a.trackMu.Lock()
	defer a.trackMu.Unlock()

	governor, err := a.governor()
	if err != nil {
		a.logger.Error("can't obtain scaling governor", "hint", "interactive", "error", err)
		return true
	}

	if governor == a.tuning.Governor {
		hintID := a.tuning.DisplayHintID
		switch {
		case !displayOn && !a.displayHintSent:
			if err := a.perf.PerformHint(hintID, displayOffRequest); err != nil {
				a.logger.Warn("display hint failed", "hint_id", hintID, "error", err)
			}
			a.displayHintSent = true
		case displayOn && a.displayHintSent:
			if err := a.perf.UndoHint(hintID); err != nil {
				a.logger.Warn("display hint undo failed", "hint_id", hintID, "error", err)
			}
			a.displayHintSent = false
		}
	}

	if displayOn {
		a.displayState = displayStateOn
	} else {
		a.displayState = displayStateOff
	}
	return true
}

// VideoEncode applies a video encode state change described by blob.
// A start is applied once; a stop always undoes the hint id, whether or
// not a start was seen for it.
func (a *Arbiter) VideoEncode(blob string) bool {
	a.trackMu.Lock()
	defer a.trackMu.Unlock()

	governor, err := a.governor()
	if err != nil {
		a.logger.Error("can't obtain scaling governor", "hint", "video_encode", "error", err)
		return true
	}
	if blob == "" {
		return true
	}
	encode, err := metadata.ParseVideoEncode(blob)
	if err != nil {
		a.logger.Error("error occurred while parsing metadata", "error", err)
		return true
	}
	if governor != a.tuning.Governor {
		return true
	}

	switch encode.State {
	case metadata.StateStarting:
		if a.videoHintSent {
			return true
		}
		if err := a.perf.PerformHint(encode.HintID, videoEncodeRequest); err != nil {
			a.logger.Warn("video encode hint failed", "hint_id", encode.HintID, "error", err)
		}
		a.videoHintSent = true
	case metadata.StateStopping:
		if err := a.perf.UndoHint(encode.HintID); err != nil {
			a.logger.Warn("video encode hint undo failed", "hint_id", encode.HintID, "error", err)
		}
		a.videoHintSent = false
	}
	return true
}
