package protocol

import "encoding/json"

// Message types exchanged with the hint broker.
const (
	TypeConnected = "connected"
	TypeInfo      = "info"
	TypePing      = "ping"
	TypePong      = "pong"

	// ResultSuffix is appended to a request type to form its reply type.
	ResultSuffix = "_result"
)

// Request is a hint delivered by the broker.
type Request struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response reports whether a hint was handled.
type Response struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Handled bool   `json:"handled"`
	Error   string `json:"error,omitempty"`
}

// ConnectedMessage is the broker's first message on a new connection.
type ConnectedMessage struct {
	Type     string `json:"type"`
	DeviceID string `json:"device_id"`
}

// InteractionPayload is the payload for an "interaction" hint.
type InteractionPayload struct {
	DurationMs *int `json:"duration_ms,omitempty"`
}

// TogglePayload is the payload for "sustained_performance", "vr_mode"
// and "interactive" hints.
type TogglePayload struct {
	Enable bool `json:"enable"`
}

// VideoEncodePayload is the payload for a "video_encode" hint.
type VideoEncodePayload struct {
	Metadata string `json:"metadata"`
}

// FeaturePayload is the payload for a "feature" request.
type FeaturePayload struct {
	Feature string `json:"feature"`
	Enable  bool   `json:"enable"`
}

// InfoMessage is sent by the daemon after every successful connect.
type InfoMessage struct {
	Type    string      `json:"type"`
	Payload InfoPayload `json:"payload"`
}

// InfoPayload describes the device and the arbiter's current state.
type InfoPayload struct {
	OS       string `json:"os"`
	Governor string `json:"governor"`
	Cores    int    `json:"cores"`
	State    any    `json:"state"`
}
