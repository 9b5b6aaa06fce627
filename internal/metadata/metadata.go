// Package metadata parses the key=value blobs that accompany video
// encode hints, e.g. "state=1;hint_id=0xa00".
package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultVideoEncodeHintID tags video encode actions when the blob does
// not carry its own hint_id.
const DefaultVideoEncodeHintID int32 = 0x0A00

// Encode states carried in the blob.
const (
	StateInvalid  = -1
	StateStopping = 0
	StateStarting = 1
)

// ErrMalformed is returned for blobs that are not a ';'-separated list of
// key=value pairs with integer values.
var ErrMalformed = errors.New("malformed video encode metadata")

// VideoEncode is the decoded content of a video encode hint.
type VideoEncode struct {
	State  int
	HintID int32
}

// ParseVideoEncode decodes blob. Keys other than state and hint_id are
// ignored; a blob without a state yields StateInvalid.
func ParseVideoEncode(blob string) (VideoEncode, error) {
	result := VideoEncode{State: StateInvalid, HintID: DefaultVideoEncodeHintID}

	for _, field := range strings.Split(blob, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return result, fmt.Errorf("%w: field %q has no value", ErrMalformed, field)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "state":
			state, err := strconv.Atoi(value)
			if err != nil {
				return result, fmt.Errorf("%w: state %q: %v", ErrMalformed, value, err)
			}
			result.State = state
		case "hint_id":
			id, err := strconv.ParseInt(value, 0, 32)
			if err != nil {
				return result, fmt.Errorf("%w: hint_id %q: %v", ErrMalformed, value, err)
			}
			result.HintID = int32(id)
		}
	}
	return result, nil
}
