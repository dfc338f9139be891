package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the parsed outer layer of an externally tagged value: either
// a bare JSON string (unit variant) or an object keyed by variant tags.
// Object keys arrive in any order; decoders select the first known tag from
// their own declared order, never from key order.
type envelope struct {
	isString bool
	tag      string
	fields   map[string]json.RawMessage
}

func parseEnvelope(data []byte) (envelope, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return envelope{}, fmt.Errorf("%w: empty payload", ErrMalformedVariant)
	}
	switch trimmed[0] {
	case '"':
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return envelope{}, fmt.Errorf("%w: %v", ErrMalformedVariant, err)
		}
		return envelope{isString: true, tag: tag}, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return envelope{}, fmt.Errorf("%w: %v", ErrMalformedVariant, err)
		}
		return envelope{fields: fields}, nil
	default:
		return envelope{}, fmt.Errorf("%w: expected string or object envelope", ErrMalformedVariant)
	}
}

// pick returns the payload of the first tag (in the given order) present in
// an object envelope.
func (e envelope) pick(tags []string) (string, json.RawMessage, bool) {
	if e.isString {
		return "", nil, false
	}
	for _, tag := range tags {
		if raw, ok := e.fields[tag]; ok {
			return tag, raw, true
		}
	}
	return "", nil, false
}
