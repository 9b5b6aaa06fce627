package hint

// Kind identifies a hint type.
type Kind string

const (
	KindInteraction          Kind = "interaction"
	KindSustainedPerformance Kind = "sustained_performance"
	KindVRMode               Kind = "vr_mode"
	KindVideoEncode          Kind = "video_encode"
	KindInteractive          Kind = "interactive"
	KindFeature              Kind = "feature"
	KindVSync                Kind = "vsync"
)

// Event is one hint as delivered by a dispatcher. Only the fields that
// belong to Kind are read.
type Event struct {
	Kind Kind

	// DurationMs is the interaction duration hint; nil when absent.
	DurationMs *int
	// Enable toggles modes, features and the display state.
	Enable bool
	// Metadata is the video encode blob.
	Metadata string
	Feature  Feature
}

// Dispatch routes e to its handler and reports whether it was handled.
// VSync and unknown kinds are not handled.
func (a *Arbiter) Dispatch(e Event) bool {
	switch e.Kind {
	case KindInteraction:
		return a.Interaction(e.DurationMs)
	case KindSustainedPerformance:
		return a.SustainedPerformance(e.Enable)
	case KindVRMode:
		return a.VRMode(e.Enable)
	case KindVideoEncode:
		return a.VideoEncode(e.Metadata)
	case KindInteractive:
		return a.Interactive(e.Enable)
	case KindFeature:
		return a.SetFeature(e.Feature, e.Enable)
	}
	a.logger.Trace("hint not handled", "kind", e.Kind)
	return false
}
