package replay

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// unmarshal decodes strictly so a misspelled step field fails loudly
// instead of silently replaying a different hint.
func unmarshal(data []byte, v any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(v)
}
