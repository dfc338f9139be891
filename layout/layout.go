// Package layout resolves a schema split tree into concrete rectangular
// regions. Resolution is pure: the resolver reads the tree and produces a
// fresh placement list, retaining nothing.
package layout

import "pkt.systems/multipane/schema"

// Rect is a rectangular region in terminal cells.
type Rect struct {
	X      uint16
	Y      uint16
	Width  uint16
	Height uint16
}

// Placement assigns one window a resolved region.
type Placement struct {
	ID   schema.WindowID
	Rect Rect
}

// Resolve partitions area across the tree's leaves. A horizontal split
// divides the width at the split ratio, first child on the left; a vertical
// split divides the height, first child on top. The first child's extent is
// truncated toward zero and the second child receives the remainder, so the
// two children always tile the area exactly. Placements are emitted in
// preorder, first child before second. Ratios at the boundaries 0 and 1
// degrade to a zero-extent region for one child rather than failing; the
// tree producer keeps ratios in [0,1].
func Resolve(node *schema.LayoutNode, area Rect) []Placement {
	var out []Placement
	resolve(node, area, &out)
	return out
}

func resolve(node *schema.LayoutNode, area Rect, out *[]Placement) {
	switch {
	case node == nil:
		return
	case node.IsLeaf():
		*out = append(*out, Placement{ID: *node.Leaf, Rect: area})
	case node.Split != nil:
		split := node.Split
		first, second := area, area
		switch split.Direction {
		case schema.SplitVertical:
			firstHeight := clampExtent(float64(area.Height)*split.Ratio, area.Height)
			first.Height = firstHeight
			second.Y = area.Y + firstHeight
			second.Height = area.Height - firstHeight
		default:
			firstWidth := clampExtent(float64(area.Width)*split.Ratio, area.Width)
			first.Width = firstWidth
			second.X = area.X + firstWidth
			second.Width = area.Width - firstWidth
		}
		resolve(split.First, first, out)
		resolve(split.Second, second, out)
	}
}

// clampExtent truncates a fractional extent and pins it inside [0, max] so
// degenerate ratios outside [0,1] cannot produce an overflowing region.
func clampExtent(v float64, max uint16) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= float64(max) {
		return max
	}
	return uint16(v)
}

// CollectWindowIDs returns every leaf identifier in preorder, left to
// right. Clients reconcile per-window resources against this list when a
// new snapshot arrives.
func CollectWindowIDs(node *schema.LayoutNode) []schema.WindowID {
	var ids []schema.WindowID
	collect(node, &ids)
	return ids
}

func collect(node *schema.LayoutNode, ids *[]schema.WindowID) {
	switch {
	case node == nil:
		return
	case node.IsLeaf():
		*ids = append(*ids, *node.Leaf)
	case node.Split != nil:
		collect(node.Split.First, ids)
		collect(node.Split.Second, ids)
	}
}
