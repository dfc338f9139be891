package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// TabKind describes what a tab is running. Closed set; encoded as the bare
// variant tag.
type TabKind string

const (
	// TabKindShell is an interactive shell tab.
	TabKindShell TabKind = "Shell"
	// TabKindAgent is a coding-agent tab.
	TabKindAgent TabKind = "Agent"
	// TabKindEditor is an editor tab.
	TabKindEditor TabKind = "Editor"
	// TabKindDevServer is a development-server tab.
	TabKindDevServer TabKind = "DevServer"
)

// UnmarshalJSON validates the closed kind set.
func (k *TabKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: tab kind: %v", ErrMalformedVariant, err)
	}
	switch TabKind(s) {
	case TabKindShell, TabKindAgent, TabKindEditor, TabKindDevServer:
		*k = TabKind(s)
		return nil
	default:
		return fmt.Errorf("%w: tab kind %q", ErrUnknownVariant, s)
	}
}

// TabSnapshot is the daemon's view of one tab.
type TabSnapshot struct {
	ID    TabID   `json:"id"`
	Kind  TabKind `json:"kind"`
	Title string  `json:"title"`
	// Exited is true once the tab's process has terminated; the tab stays
	// in the snapshot until the daemon reaps it.
	Exited bool `json:"exited"`
	// Command is the foreground process name, when known.
	Command *string `json:"command,omitempty"`
	Cwd     string  `json:"cwd"`
}

// WindowSnapshot is the daemon's view of one window: a stack of tabs with
// one active. The wire field name "groups" on WorkspaceSnapshot is part of
// the external contract.
type WindowSnapshot struct {
	ID        WindowID      `json:"id"`
	Tabs      []TabSnapshot `json:"tabs"`
	ActiveTab int           `json:"active_tab"`
}

// FloatingSnapshot is a window positioned by absolute coordinates, outside
// the split tree.
type FloatingSnapshot struct {
	ID     WindowID `json:"id"`
	X      int32    `json:"x"`
	Y      int32    `json:"y"`
	Width  int32    `json:"width"`
	Height int32    `json:"height"`
}

// WindowIDSet is a set of window identifiers, encoded on the wire as a JSON
// array. The zero value (nil) is an empty set.
type WindowIDSet map[WindowID]struct{}

// Contains reports set membership. Safe on a nil set.
func (s WindowIDSet) Contains(id WindowID) bool {
	_, ok := s[id]
	return ok
}

// MarshalJSON encodes the set as an array sorted by string form, so equal
// sets encode identically.
func (s WindowIDSet) MarshalJSON() ([]byte, error) {
	ids := make([]WindowID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return json.Marshal(ids)
}

// UnmarshalJSON decodes an array of window identifiers into a set.
func (s *WindowIDSet) UnmarshalJSON(data []byte) error {
	var ids []WindowID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	set := make(WindowIDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	*s = set
	return nil
}

// WorkspaceSnapshot is the daemon's view of one workspace. Folded defaults
// to the empty set and Zoomed to nil when absent from input; every other
// field is required.
type WorkspaceSnapshot struct {
	Name        string           `json:"name"`
	Layout      *LayoutNode      `json:"layout"`
	Groups      []WindowSnapshot `json:"groups"`
	ActiveGroup WindowID         `json:"active_group"`
	// SyncPanes mirrors key input to every tab in the workspace.
	SyncPanes bool        `json:"sync_panes"`
	Folded    WindowIDSet `json:"folded,omitempty"`
	// Zoomed is the window temporarily occupying the whole workspace area
	// without altering the split tree.
	Zoomed   *WindowID          `json:"zoomed,omitempty"`
	Floating []FloatingSnapshot `json:"floating,omitempty"`
}

// RenderState is the full drawable snapshot: every workspace plus the index
// of the active one. Replaced wholesale on each LayoutChanged; never
// mutated in place.
type RenderState struct {
	Workspaces      []WorkspaceSnapshot `json:"workspaces"`
	ActiveWorkspace int                 `json:"active_workspace"`
}

// ActiveWorkspaceSnapshot returns the currently active workspace, or nil
// when the index is out of range.
func (r *RenderState) ActiveWorkspaceSnapshot() *WorkspaceSnapshot {
	if r == nil || r.ActiveWorkspace < 0 || r.ActiveWorkspace >= len(r.Workspaces) {
		return nil
	}
	return &r.Workspaces[r.ActiveWorkspace]
}

// TabIDs returns the identifiers of every tab in the snapshot, in workspace
// then window then tab order. Used to reconcile per-tab client resources
// against a new snapshot.
func (r *RenderState) TabIDs() []TabID {
	if r == nil {
		return nil
	}
	var ids []TabID
	for _, ws := range r.Workspaces {
		for _, group := range ws.Groups {
			for _, tab := range group.Tabs {
				ids = append(ids, tab.ID)
			}
		}
	}
	return ids
}
