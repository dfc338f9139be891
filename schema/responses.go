package schema

import (
	"encoding/json"
	"fmt"
)

// Response is one server→client protocol message. Like Request, the variant
// set is closed and the encoding is externally tagged.
type Response interface {
	isResponse()
}

// Attached acknowledges an Attach request with the id the daemon assigned
// to this client.
type Attached struct {
	ClientID uint64 `json:"client_id"`
}

// PaneOutput carries raw output bytes for one tab.
type PaneOutput struct {
	TabID TabID       `json:"pane_id"`
	Data  OutputBytes `json:"data"`
}

// FullScreenDump has the same shape as PaneOutput but is a full-screen
// replacement: the client discards the tab's current screen contents and
// replays these bytes from a blank state.
type FullScreenDump struct {
	TabID TabID       `json:"pane_id"`
	Data  OutputBytes `json:"data"`
}

// TabExited announces that a tab's process has terminated. A LayoutChanged
// snapshot reflecting the exit follows separately.
type TabExited struct {
	TabID TabID `json:"pane_id"`
}

// LayoutChanged delivers a complete replacement render state.
type LayoutChanged struct {
	RenderState RenderState `json:"render_state"`
}

// StatsUpdate delivers a periodic system-statistics sample.
type StatsUpdate SystemStats

// PluginSegments delivers the status-bar segments of every configured
// plugin, one inner slice per plugin.
type PluginSegments [][]PluginSegment

// ClientList delivers a snapshot of every attached client.
type ClientList []ClientInfo

// Kicked tells this client it was disconnected by another client's
// KickClient request.
type Kicked struct{}

// ErrorMessage reports a daemon-side failure tied to this client's stream.
type ErrorMessage string

// CommandOutput is the result of a CommandSync request. The numeric pane
// and window ids are the daemon's short ids for commands that create or
// target panes; absent when the command yields none.
type CommandOutput struct {
	Output   string  `json:"output"`
	PaneID   *uint32 `json:"pane_id,omitempty"`
	WindowID *uint32 `json:"window_id,omitempty"`
	Success  bool    `json:"success"`
}

// SessionEnded announces that the daemon's session has ended. The daemon
// closes the socket itself afterwards; the client does not disconnect on
// this notification.
type SessionEnded struct{}

// AllWorkspacesClosed announces that the last workspace was closed. Like
// SessionEnded it does not itself end the connection.
type AllWorkspacesClosed struct{}

func (Attached) isResponse()            {}
func (PaneOutput) isResponse()          {}
func (FullScreenDump) isResponse()      {}
func (TabExited) isResponse()           {}
func (LayoutChanged) isResponse()       {}
func (StatsUpdate) isResponse()         {}
func (PluginSegments) isResponse()      {}
func (ClientList) isResponse()          {}
func (Kicked) isResponse()              {}
func (ErrorMessage) isResponse()        {}
func (CommandOutput) isResponse()       {}
func (SessionEnded) isResponse()        {}
func (AllWorkspacesClosed) isResponse() {}

// responseTags is the decode probe order for object-enveloped responses.
var responseTags = []string{
	"Attached", "PaneOutput", "FullScreenDump", "PaneExited", "LayoutChanged",
	"StatsUpdate", "PluginSegments", "ClientList", "Error", "CommandOutput",
}

// EncodeResponse serializes a response in its externally tagged JSON form.
func EncodeResponse(r Response) ([]byte, error) {
	switch m := r.(type) {
	case Kicked:
		return json.Marshal("Kicked")
	case SessionEnded:
		return json.Marshal("SessionEnded")
	case AllWorkspacesClosed:
		return json.Marshal("AllWorkspacesClosed")
	case Attached:
		return json.Marshal(map[string]Attached{"Attached": m})
	case PaneOutput:
		return json.Marshal(map[string]PaneOutput{"PaneOutput": m})
	case FullScreenDump:
		return json.Marshal(map[string]FullScreenDump{"FullScreenDump": m})
	case TabExited:
		return json.Marshal(map[string]TabExited{"PaneExited": m})
	case LayoutChanged:
		return json.Marshal(map[string]LayoutChanged{"LayoutChanged": m})
	case StatsUpdate:
		return json.Marshal(map[string]SystemStats{"StatsUpdate": SystemStats(m)})
	case PluginSegments:
		return json.Marshal(map[string][][]PluginSegment{"PluginSegments": m})
	case ClientList:
		return json.Marshal(map[string][]ClientInfo{"ClientList": m})
	case ErrorMessage:
		return json.Marshal(map[string]string{"Error": string(m)})
	case CommandOutput:
		return json.Marshal(map[string]CommandOutput{"CommandOutput": m})
	case nil:
		return nil, fmt.Errorf("%w: nil response", ErrMalformedVariant)
	default:
		return nil, fmt.Errorf("%w: response %T", ErrUnknownVariant, r)
	}
}

// DecodeResponse parses one externally tagged response payload.
func DecodeResponse(data []byte) (Response, error) {
	env, err := parseEnvelope(data)
	if err != nil {
		return nil, err
	}
	if env.isString {
		switch env.tag {
		case "Kicked":
			return Kicked{}, nil
		case "SessionEnded":
			return SessionEnded{}, nil
		case "AllWorkspacesClosed":
			return AllWorkspacesClosed{}, nil
		default:
			return nil, fmt.Errorf("%w: response %q", ErrUnknownVariant, env.tag)
		}
	}
	tag, raw, ok := env.pick(responseTags)
	if !ok {
		return nil, fmt.Errorf("%w: response object has no recognized tag", ErrUnknownVariant)
	}
	switch tag {
	case "Attached":
		var m Attached
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: Attached: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "PaneOutput":
		var m PaneOutput
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: PaneOutput: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "FullScreenDump":
		var m FullScreenDump
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: FullScreenDump: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "PaneExited":
		var m TabExited
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: PaneExited: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "LayoutChanged":
		var m LayoutChanged
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: LayoutChanged: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "StatsUpdate":
		var stats SystemStats
		if err := json.Unmarshal(raw, &stats); err != nil {
			return nil, fmt.Errorf("%w: StatsUpdate: %v", ErrMalformedVariant, err)
		}
		return StatsUpdate(stats), nil
	case "PluginSegments":
		var segments [][]PluginSegment
		if err := json.Unmarshal(raw, &segments); err != nil {
			return nil, fmt.Errorf("%w: PluginSegments: %v", ErrMalformedVariant, err)
		}
		return PluginSegments(segments), nil
	case "ClientList":
		var clients []ClientInfo
		if err := json.Unmarshal(raw, &clients); err != nil {
			return nil, fmt.Errorf("%w: ClientList: %v", ErrMalformedVariant, err)
		}
		return ClientList(clients), nil
	case "Error":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: Error: %v", ErrMalformedVariant, err)
		}
		return ErrorMessage(s), nil
	case "CommandOutput":
		var m CommandOutput
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: CommandOutput: %v", ErrMalformedVariant, err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: response %q", ErrUnknownVariant, tag)
}
