// Package schema defines the wire types exchanged between a multipane
// daemon and its clients: the request/response tagged unions, the render
// state snapshots they carry, and the manual JSON encoders that pin the
// external encoding (PascalCase variant tags, snake_case field names)
// independently of Go naming conventions.
package schema

import (
	"fmt"

	"github.com/google/uuid"
)

// TabID identifies a single tab (one PTY) within a window.
type TabID struct {
	uuid.UUID
}

// WindowID identifies a window: a stack of tabs occupying one layout
// region. Tab and window identifiers share the UUID representation but
// are distinct types and never interchangeable.
type WindowID struct {
	uuid.UUID
}

// NewTabID returns a fresh random tab identifier.
func NewTabID() TabID {
	return TabID{uuid.New()}
}

// NewWindowID returns a fresh random window identifier.
func NewWindowID() WindowID {
	return WindowID{uuid.New()}
}

// ParseTabID parses the lowercase hyphenated string form of a tab id.
func ParseTabID(s string) (TabID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TabID{}, fmt.Errorf("%w: tab id %q: %v", ErrInvalidIdentifier, s, err)
	}
	return TabID{id}, nil
}

// ParseWindowID parses the lowercase hyphenated string form of a window id.
func ParseWindowID(s string) (WindowID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return WindowID{}, fmt.Errorf("%w: window id %q: %v", ErrInvalidIdentifier, s, err)
	}
	return WindowID{id}, nil
}

// ClientInfo describes one attached client as reported by the daemon.
type ClientInfo struct {
	ID     uint64 `json:"id"`
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}
