package vtree

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func attrNames(attrs []Attr) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.Key
	}
	return out
}

func changeNames(changes []AttrChange) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Key
	}
	return out
}

func TestDiffAttrs_Sets(t *testing.T) {
	tests := []struct {
		name        string
		prev, next  Attrs
		wantAdded   []string
		wantRemoved []string
		wantChanged []string
	}{
		{
			name: "all three sets",
			prev: Attrs{
				"class": StringValue("old"),
				"id":    StringValue("x"),
				"title": StringValue("t"),
			},
			next: Attrs{
				"class": StringValue("new"),
				"id":    StringValue("x"),
				"style": StringValue("color:red"),
			},
			wantAdded:   []string{"style"},
			wantRemoved: []string{"title"},
			wantChanged: []string{"class"},
		},
		{
			name:        "from nothing",
			prev:        nil,
			next:        Attrs{"class": StringValue("a")},
			wantAdded:   []string{"class"},
			wantRemoved: nil,
			wantChanged: nil,
		},
		{
			name:        "to nothing",
			prev:        Attrs{"class": StringValue("a")},
			next:        nil,
			wantAdded:   nil,
			wantRemoved: []string{"class"},
			wantChanged: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffAttrs(tt.prev, tt.next)
			if got == nil {
				t.Fatal("expected a non-nil attr patch")
			}
			if diff := cmp.Diff(tt.wantAdded, attrNames(got.Added), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("added mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRemoved, attrNames(got.Removed), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("removed mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantChanged, changeNames(got.Changed), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("changed mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffAttrs_NilWhenEqual(t *testing.T) {
	h := &Handler{Event: "click", msg: "go"}
	prev := Attrs{"class": StringValue("a"), "onclick": HandlerValue(h)}
	next := Attrs{"class": StringValue("a"), "onclick": HandlerValue(h)}

	if got := DiffAttrs(prev, next); got != nil {
		t.Fatalf("equal sets produced a patch: %+v", got)
	}
}

// The three sets partition exactly the keys whose value differs between
// the two maps: no key in two sets, no differing key missing.
func TestDiffAttrs_Completeness(t *testing.T) {
	h1 := &Handler{Event: "click", msg: 1}
	h2 := &Handler{Event: "click", msg: 1} // same message, new identity
	prev := Attrs{
		"a":       StringValue("1"),
		"b":       StringValue("2"),
		"c":       StringValue("3"),
		"onclick": HandlerValue(h1),
		"mixed":   StringValue("s"),
	}
	next := Attrs{
		"a":       StringValue("1"),   // unchanged
		"b":       StringValue("2x"),  // changed
		"d":       StringValue("new"), // added
		"onclick": HandlerValue(h2),   // changed by identity
		"mixed":   HandlerValue(h1),   // changed by shape
	}

	got := DiffAttrs(prev, next)
	if got == nil {
		t.Fatal("expected a patch")
	}

	seen := make(map[string]int)
	for _, a := range got.Added {
		seen[a.Key]++
	}
	for _, a := range got.Removed {
		seen[a.Key]++
	}
	for _, c := range got.Changed {
		seen[c.Key]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("key %q appears in %d sets", key, n)
		}
	}

	var want []string
	for key, pv := range prev {
		nv, ok := next[key]
		if !ok || !pv.Equal(nv) {
			want = append(want, key)
		}
	}
	for key := range next {
		if _, ok := prev[key]; !ok {
			want = append(want, key)
		}
	}
	sort.Strings(want)

	var gotKeys []string
	for key := range seen {
		gotKeys = append(gotKeys, key)
	}
	sort.Strings(gotKeys)

	if diff := cmp.Diff(want, gotKeys); diff != "" {
		t.Errorf("covered keys mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffAttrs_SortedOutput(t *testing.T) {
	prev := Attrs{}
	next := Attrs{
		"z": StringValue("1"),
		"a": StringValue("2"),
		"m": StringValue("3"),
	}

	got := DiffAttrs(prev, next)
	if got == nil {
		t.Fatal("expected a patch")
	}
	if !sort.SliceIsSorted(got.Added, func(i, j int) bool { return got.Added[i].Key < got.Added[j].Key }) {
		t.Errorf("added set is not sorted: %v", attrNames(got.Added))
	}
}

func TestDiffAttrs_RemovedKeepsOldValue(t *testing.T) {
	h := &Handler{Event: "click", msg: "go"}
	prev := Attrs{"onclick": HandlerValue(h), "class": StringValue("x")}
	next := Attrs{}

	got := DiffAttrs(prev, next)
	if got == nil || len(got.Removed) != 2 {
		t.Fatalf("expected 2 removals, got %+v", got)
	}
	for _, a := range got.Removed {
		switch a.Key {
		case "onclick":
			if !a.Value.IsHandler() {
				t.Error("removed handler lost its handler value")
			}
		case "class":
			if a.Value.Text() != "x" {
				t.Errorf("removed class value = %q, want x", a.Value.Text())
			}
		}
	}
}

func TestAttrPatch_Materializes(t *testing.T) {
	h1 := &Handler{Event: "click", msg: "a"}
	h2 := &Handler{Event: "click", msg: "b"}

	tests := []struct {
		name string
		ap   *AttrPatch
		want bool
	}{
		{"nil patch", nil, false},
		{"handler rebind only", &AttrPatch{
			Changed: []AttrChange{{Key: "onclick", Old: HandlerValue(h1), New: HandlerValue(h2)}},
		}, false},
		{"handler added", &AttrPatch{
			Added: []Attr{{Key: "onclick", Value: HandlerValue(h1)}},
		}, false},
		{"handler removed", &AttrPatch{
			Removed: []Attr{{Key: "onclick", Value: HandlerValue(h1)}},
		}, false},
		{"string change", &AttrPatch{
			Changed: []AttrChange{{Key: "class", Old: StringValue("a"), New: StringValue("b")}},
		}, true},
		{"string turns handler", &AttrPatch{
			Changed: []AttrChange{{Key: "onclick", Old: StringValue("legacy"), New: HandlerValue(h1)}},
		}, true},
		{"rebind plus string add", &AttrPatch{
			Added:   []Attr{{Key: "class", Value: StringValue("x")}},
			Changed: []AttrChange{{Key: "onclick", Old: HandlerValue(h1), New: HandlerValue(h2)}},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ap.Materializes(); got != tt.want {
				t.Errorf("Materializes() = %v, want %v", got, tt.want)
			}
		})
	}
}
