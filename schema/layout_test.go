package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestLayoutNodeRoundTrip(t *testing.T) {
	a := NewWindowID()
	b := NewWindowID()
	c := NewWindowID()

	tree := NewSplit(SplitHorizontal, 0.5,
		NewLeaf(a),
		NewSplit(SplitVertical, 0.3, NewLeaf(b), NewLeaf(c)),
	)

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back LayoutNode
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(&back, tree) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", &back, tree)
	}
}

func TestLayoutNodeLeafWireShape(t *testing.T) {
	id, err := ParseWindowID("0e7c9a42-91db-4f3e-8a92-6d9c2f4c0a11")
	if err != nil {
		t.Fatalf("parse window id: %v", err)
	}
	data, err := json.Marshal(NewLeaf(id))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Leaf":"0e7c9a42-91db-4f3e-8a92-6d9c2f4c0a11"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestLayoutNodeUnmarshalErrors(t *testing.T) {
	leaf := fmt.Sprintf(`{"Leaf":%q}`, NewWindowID())
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"unknown-tag", `{"Pane":"x"}`, ErrUnknownVariant},
		{"string-envelope", `"Leaf"`, ErrUnknownVariant},
		{"bad-leaf-id", `{"Leaf":"nope"}`, ErrInvalidIdentifier},
		{"missing-second", `{"Split":{"direction":"Horizontal","ratio":0.5,"first":` + leaf + `}}`, ErrMalformedVariant},
		{"bad-direction", `{"Split":{"direction":"Diagonal","ratio":0.5,"first":` + leaf + `,"second":` + leaf + `}}`, ErrUnknownVariant},
	}
	for _, tc := range cases {
		var node LayoutNode
		if err := json.Unmarshal([]byte(tc.payload), &node); !errors.Is(err, tc.want) {
			t.Fatalf("case %q: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLayoutNodeMarshalEmpty(t *testing.T) {
	if _, err := json.Marshal(LayoutNode{}); err == nil {
		t.Fatalf("expected error for node with neither leaf nor split")
	}
}
