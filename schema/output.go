package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// OutputBytes carries raw terminal bytes. The external schema serializes
// byte vectors as JSON arrays of numbers, not as base64 strings, so this
// type overrides the encoding/json []byte convention.
type OutputBytes []byte

// MarshalJSON encodes the bytes as a JSON array of numbers.
func (b OutputBytes) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	out := make([]byte, 0, len(b)*4+2)
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	out = append(out, ']')
	return out, nil
}

// UnmarshalJSON decodes a JSON array of numbers, rejecting values outside
// the byte range.
func (b *OutputBytes) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w: output bytes: %v", ErrMalformedVariant, err)
	}
	out := make(OutputBytes, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: output byte %d out of range", ErrMalformedVariant, v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}
