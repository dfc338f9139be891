package schema

import (
	"encoding/json"
	"fmt"
)

// SplitDirection is the axis of a layout split.
type SplitDirection string

const (
	// SplitHorizontal divides the width: first child left, second right.
	SplitHorizontal SplitDirection = "Horizontal"
	// SplitVertical divides the height: first child top, second bottom.
	SplitVertical SplitDirection = "Vertical"
)

// UnmarshalJSON validates the closed direction set.
func (d *SplitDirection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: split direction: %v", ErrMalformedVariant, err)
	}
	switch SplitDirection(s) {
	case SplitHorizontal, SplitVertical:
		*d = SplitDirection(s)
		return nil
	default:
		return fmt.Errorf("%w: split direction %q", ErrUnknownVariant, s)
	}
}

// LayoutNode is one node of the recursive binary split tree. Exactly one of
// Leaf or Split is set; the tree is finite and every leaf's window id is
// unique within one tree (the daemon maintains both invariants).
//
// On the wire a node is externally tagged: {"Leaf":"<window uuid>"} or
// {"Split":{"direction":…,"ratio":…,"first":…,"second":…}}.
type LayoutNode struct {
	Leaf  *WindowID
	Split *SplitNode
}

// SplitNode holds the payload of a Split layout node. Ratio is the first
// child's share of the split axis, in [0,1].
type SplitNode struct {
	Direction SplitDirection `json:"direction"`
	Ratio     float64        `json:"ratio"`
	First     *LayoutNode    `json:"first"`
	Second    *LayoutNode    `json:"second"`
}

// NewLeaf builds a leaf node wrapping one window identifier.
func NewLeaf(id WindowID) *LayoutNode {
	return &LayoutNode{Leaf: &id}
}

// NewSplit builds a split node owning its two children.
func NewSplit(direction SplitDirection, ratio float64, first, second *LayoutNode) *LayoutNode {
	return &LayoutNode{Split: &SplitNode{
		Direction: direction,
		Ratio:     ratio,
		First:     first,
		Second:    second,
	}}
}

// IsLeaf reports whether the node wraps a window identifier.
func (n *LayoutNode) IsLeaf() bool {
	return n != nil && n.Leaf != nil
}

// MarshalJSON encodes the node in its externally tagged form.
func (n LayoutNode) MarshalJSON() ([]byte, error) {
	switch {
	case n.Leaf != nil:
		return json.Marshal(map[string]WindowID{"Leaf": *n.Leaf})
	case n.Split != nil:
		return json.Marshal(map[string]*SplitNode{"Split": n.Split})
	default:
		return nil, fmt.Errorf("%w: layout node has neither leaf nor split", ErrMalformedVariant)
	}
}

// UnmarshalJSON decodes the externally tagged node form.
func (n *LayoutNode) UnmarshalJSON(data []byte) error {
	env, err := parseEnvelope(data)
	if err != nil {
		return err
	}
	if env.isString {
		return fmt.Errorf("%w: layout node %q", ErrUnknownVariant, env.tag)
	}
	tag, raw, ok := env.pick([]string{"Leaf", "Split"})
	if !ok {
		return fmt.Errorf("%w: layout node object has no recognized tag", ErrUnknownVariant)
	}
	switch tag {
	case "Leaf":
		var id WindowID
		if err := json.Unmarshal(raw, &id); err != nil {
			return fmt.Errorf("%w: layout leaf: %v", ErrInvalidIdentifier, err)
		}
		*n = LayoutNode{Leaf: &id}
	case "Split":
		var split SplitNode
		if err := json.Unmarshal(raw, &split); err != nil {
			return err
		}
		if split.First == nil || split.Second == nil {
			return fmt.Errorf("%w: split node missing a child", ErrMalformedVariant)
		}
		*n = LayoutNode{Split: &split}
	}
	return nil
}
