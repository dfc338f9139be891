package schema

import (
	"encoding/json"
	"fmt"
)

// DefaultSegmentStyle is applied when a plugin segment omits its style.
const DefaultSegmentStyle = "dim"

// PluginSegment is one status-bar segment rendered by a daemon-side plugin.
type PluginSegment struct {
	Text string `json:"text"`
	// Style names a status-bar style; defaults to "dim" when absent.
	Style string `json:"style"`
}

// UnmarshalJSON applies the documented style default.
func (p *PluginSegment) UnmarshalJSON(data []byte) error {
	type plain PluginSegment
	decoded := plain{Style: DefaultSegmentStyle}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("%w: plugin segment: %v", ErrMalformedVariant, err)
	}
	*p = PluginSegment(decoded)
	return nil
}
