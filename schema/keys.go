package schema

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Modifier bits for key events. Bits combine by bitwise OR; zero means no
// modifiers.
const (
	ModShift   byte = 1 << 0
	ModControl byte = 1 << 1
	ModAlt     byte = 1 << 2
)

// KeyCode is the externally tagged key-code union. Char carries a single
// character, F a function-key number, and the remaining variants are units
// encoded as bare tag strings.
type KeyCode struct {
	tag string
	ch  rune
	fn  uint8
}

// Char returns the key code for a printable character.
func Char(r rune) KeyCode {
	return KeyCode{tag: "Char", ch: r}
}

// FKey returns the key code for function key n.
func FKey(n uint8) KeyCode {
	return KeyCode{tag: "F", fn: n}
}

// Unit key codes.
var (
	KeyBackspace = KeyCode{tag: "Backspace"}
	KeyEnter     = KeyCode{tag: "Enter"}
	KeyLeft      = KeyCode{tag: "Left"}
	KeyRight     = KeyCode{tag: "Right"}
	KeyUp        = KeyCode{tag: "Up"}
	KeyDown      = KeyCode{tag: "Down"}
	KeyHome      = KeyCode{tag: "Home"}
	KeyEnd       = KeyCode{tag: "End"}
	KeyPageUp    = KeyCode{tag: "PageUp"}
	KeyPageDown  = KeyCode{tag: "PageDown"}
	KeyTab       = KeyCode{tag: "Tab"}
	KeyBackTab   = KeyCode{tag: "BackTab"}
	KeyDelete    = KeyCode{tag: "Delete"}
	KeyInsert    = KeyCode{tag: "Insert"}
	KeyEsc       = KeyCode{tag: "Esc"}
	KeyNull      = KeyCode{tag: "Null"}
)

var unitKeyTags = []string{
	"Backspace", "Enter", "Left", "Right", "Up", "Down", "Home", "End",
	"PageUp", "PageDown", "Tab", "BackTab", "Delete", "Insert", "Esc", "Null",
}

// Rune returns the character of a Char key code.
func (k KeyCode) Rune() (rune, bool) {
	if k.tag == "Char" {
		return k.ch, true
	}
	return 0, false
}

// FNumber returns the function-key number of an F key code.
func (k KeyCode) FNumber() (uint8, bool) {
	if k.tag == "F" {
		return k.fn, true
	}
	return 0, false
}

// String reports the variant tag, with the payload for Char and F codes.
func (k KeyCode) String() string {
	switch k.tag {
	case "":
		return "Null"
	case "Char":
		return fmt.Sprintf("Char(%q)", k.ch)
	case "F":
		return fmt.Sprintf("F(%d)", k.fn)
	default:
		return k.tag
	}
}

// MarshalJSON encodes the key code in its externally tagged form. The zero
// value encodes as Null.
func (k KeyCode) MarshalJSON() ([]byte, error) {
	switch k.tag {
	case "":
		return json.Marshal("Null")
	case "Char":
		return json.Marshal(map[string]string{"Char": string(k.ch)})
	case "F":
		return json.Marshal(map[string]uint8{"F": k.fn})
	default:
		return json.Marshal(k.tag)
	}
}

// UnmarshalJSON decodes the externally tagged key-code form.
func (k *KeyCode) UnmarshalJSON(data []byte) error {
	env, err := parseEnvelope(data)
	if err != nil {
		return err
	}
	if env.isString {
		for _, tag := range unitKeyTags {
			if env.tag == tag {
				*k = KeyCode{tag: tag}
				return nil
			}
		}
		return fmt.Errorf("%w: key code %q", ErrUnknownVariant, env.tag)
	}
	tag, raw, ok := env.pick([]string{"Char", "F"})
	if !ok {
		return fmt.Errorf("%w: key code object has no recognized tag", ErrUnknownVariant)
	}
	switch tag {
	case "Char":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: Char: %v", ErrMalformedVariant, err)
		}
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || r == utf8.RuneError && size == 1 {
			return fmt.Errorf("%w: Char payload %q is not a single character", ErrMalformedVariant, s)
		}
		*k = Char(r)
	case "F":
		var n uint8
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("%w: F: %v", ErrMalformedVariant, err)
		}
		*k = FKey(n)
	}
	return nil
}
