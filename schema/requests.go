package schema

import (
	"encoding/json"
	"fmt"
)

// Request is one client→server protocol message. The set of variants is
// closed; every variant implements the marker method and both directions of
// the externally tagged encoding via EncodeRequest and DecodeRequest.
type Request interface {
	isRequest()
}

// Attach asks the daemon to attach this connection as a rendering client.
type Attach struct{}

// Detach cleanly detaches this client.
type Detach struct{}

// Resize reports the client's terminal size in cells.
type Resize struct {
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

// Key forwards one key press to the daemon.
type Key struct {
	Code      KeyCode `json:"code"`
	Modifiers byte    `json:"modifiers"`
}

// MouseDown reports a primary-button press at cell (x, y).
type MouseDown struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// MouseDrag reports pointer motion with the primary button held.
type MouseDrag struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// MouseMove reports pointer motion with no button held.
type MouseMove struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// MouseUp reports release of the primary button.
type MouseUp struct{}

// MouseScroll reports one scroll step; Up is false for downward scroll.
type MouseScroll struct {
	Up bool `json:"up"`
}

// Command is an opaque fire-and-forget command string executed by the
// daemon's command parser.
type Command string

// CommandSync is a command whose result is returned on this stream as a
// CommandOutput response.
type CommandSync string

// KickClient asks the daemon to disconnect the client with the given id.
type KickClient uint64

// SetActiveWorkspace selects this client's active workspace by index.
type SetActiveWorkspace int

func (Attach) isRequest()             {}
func (Detach) isRequest()             {}
func (Resize) isRequest()             {}
func (Key) isRequest()                {}
func (MouseDown) isRequest()          {}
func (MouseDrag) isRequest()          {}
func (MouseMove) isRequest()          {}
func (MouseUp) isRequest()            {}
func (MouseScroll) isRequest()        {}
func (Command) isRequest()            {}
func (CommandSync) isRequest()        {}
func (KickClient) isRequest()         {}
func (SetActiveWorkspace) isRequest() {}

// requestTags is the decode probe order for object-enveloped requests.
var requestTags = []string{
	"Resize", "Key", "MouseDown", "MouseDrag", "MouseMove", "MouseScroll",
	"Command", "CommandSync", "KickClient", "SetActiveWorkspace",
}

// EncodeRequest serializes a request in its externally tagged JSON form.
func EncodeRequest(r Request) ([]byte, error) {
	switch m := r.(type) {
	case Attach:
		return json.Marshal("Attach")
	case Detach:
		return json.Marshal("Detach")
	case MouseUp:
		return json.Marshal("MouseUp")
	case Resize:
		return json.Marshal(map[string]Resize{"Resize": m})
	case Key:
		return json.Marshal(map[string]Key{"Key": m})
	case MouseDown:
		return json.Marshal(map[string]MouseDown{"MouseDown": m})
	case MouseDrag:
		return json.Marshal(map[string]MouseDrag{"MouseDrag": m})
	case MouseMove:
		return json.Marshal(map[string]MouseMove{"MouseMove": m})
	case MouseScroll:
		return json.Marshal(map[string]MouseScroll{"MouseScroll": m})
	case Command:
		return json.Marshal(map[string]string{"Command": string(m)})
	case CommandSync:
		return json.Marshal(map[string]string{"CommandSync": string(m)})
	case KickClient:
		return json.Marshal(map[string]uint64{"KickClient": uint64(m)})
	case SetActiveWorkspace:
		return json.Marshal(map[string]int{"SetActiveWorkspace": int(m)})
	case nil:
		return nil, fmt.Errorf("%w: nil request", ErrMalformedVariant)
	default:
		return nil, fmt.Errorf("%w: request %T", ErrUnknownVariant, r)
	}
}

// DecodeRequest parses one externally tagged request payload.
func DecodeRequest(data []byte) (Request, error) {
	env, err := parseEnvelope(data)
	if err != nil {
		return nil, err
	}
	if env.isString {
		switch env.tag {
		case "Attach":
			return Attach{}, nil
		case "Detach":
			return Detach{}, nil
		case "MouseUp":
			return MouseUp{}, nil
		default:
			return nil, fmt.Errorf("%w: request %q", ErrUnknownVariant, env.tag)
		}
	}
	tag, raw, ok := env.pick(requestTags)
	if !ok {
		return nil, fmt.Errorf("%w: request object has no recognized tag", ErrUnknownVariant)
	}
	switch tag {
	case "Resize":
		var m Resize
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: Resize: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "Key":
		var m Key
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: Key: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "MouseDown":
		var m MouseDown
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: MouseDown: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "MouseDrag":
		var m MouseDrag
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: MouseDrag: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "MouseMove":
		var m MouseMove
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: MouseMove: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "MouseScroll":
		var m MouseScroll
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: MouseScroll: %v", ErrMalformedVariant, err)
		}
		return m, nil
	case "Command":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: Command: %v", ErrMalformedVariant, err)
		}
		return Command(s), nil
	case "CommandSync":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: CommandSync: %v", ErrMalformedVariant, err)
		}
		return CommandSync(s), nil
	case "KickClient":
		var id uint64
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, fmt.Errorf("%w: KickClient: %v", ErrMalformedVariant, err)
		}
		return KickClient(id), nil
	case "SetActiveWorkspace":
		var index int
		if err := json.Unmarshal(raw, &index); err != nil {
			return nil, fmt.Errorf("%w: SetActiveWorkspace: %v", ErrMalformedVariant, err)
		}
		return SetActiveWorkspace(index), nil
	}
	return nil, fmt.Errorf("%w: request %q", ErrUnknownVariant, tag)
}
