package vtree

import (
	"errors"
	"testing"
)

func TestBuilder_El(t *testing.T) {
	b := newBuilder(t)
	n := b.El("div",
		Class("card", "wide"),
		nil, // conditionals collapse to nil
		[]Attr{ID("main"), Attr{}},
		b.Span(),
		"hello",
		[]*Node{b.Br(), nil},
	)

	if n.Kind != KindElement || n.Tag != "div" {
		t.Fatalf("got %v <%s>, want Element <div>", n.Kind, n.Tag)
	}
	if got := n.Attrs["class"].Text(); got != "card wide" {
		t.Errorf("class = %q, want %q", got, "card wide")
	}
	if got := n.Attrs["id"].Text(); got != "main" {
		t.Errorf("id = %q, want main", got)
	}
	if len(n.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(n.Children))
	}
	if n.Children[1].Kind != KindText || n.Children[1].Text != "hello" {
		t.Errorf("string arg should become a text child, got %v", n.Children[1].Kind)
	}
	if err := b.Err(); err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
}

func TestBuilder_KeyAttrSetsNodeKey(t *testing.T) {
	b := newBuilder(t)
	n := b.Li(Key("row-1"), b.Text("x"))

	if n.Key != "row-1" {
		t.Errorf("key = %q, want row-1", n.Key)
	}
	if _, ok := n.Attrs["key"]; ok {
		t.Error("key must not be stored as a plain attribute")
	}
}

func TestBuilder_DuplicateKeyFailsBeforeDiff(t *testing.T) {
	b := newBuilder(t)
	b.Keyed(
		b.Li(Key("x"), b.Text("one")),
		b.Li(Key("x"), b.Text("two")),
	)

	err := b.Err()
	if err == nil {
		t.Fatal("expected a construction error for the duplicate key")
	}
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
	var ce *ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("err %T is not a *ConstructionError", err)
	}
	if ce.Key != "x" {
		t.Errorf("offending key = %q, want x", ce.Key)
	}
}

func TestBuilder_ConstructionErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  error
	}{
		{
			name: "keyed child without key",
			build: func(b *Builder) {
				b.Keyed(b.Li(b.Text("anon")))
			},
			want: ErrMissingKey,
		},
		{
			name: "nested keyed collection",
			build: func(b *Builder) {
				b.Keyed(b.WithKey("k", b.Keyed()))
			},
			want: ErrKeyedPlacement,
		},
		{
			name: "keyed collection beside a sibling",
			build: func(b *Builder) {
				b.Div(b.Keyed(b.Li(Key("a"))), b.Span())
			},
			want: ErrKeyedPlacement,
		},
		{
			name: "lazy with nil identity",
			build: func(b *Builder) {
				b.Lazy(nil, func() *Node { return b.Empty() })
			},
			want: ErrLazyIdentity,
		},
		{
			name: "lazy with uncomparable identity",
			build: func(b *Builder) {
				b.Lazy([]int{1}, func() *Node { return b.Empty() })
			},
			want: ErrLazyIdentity,
		},
		{
			name: "lazy without producer",
			build: func(b *Builder) {
				b.Lazy("id", nil)
			},
			want: ErrLazyProducer,
		},
		{
			name: "map without func",
			build: func(b *Builder) {
				b.Map(nil, b.Div())
			},
			want: ErrMapFunc,
		},
		{
			name: "map without child",
			build: func(b *Builder) {
				b.Map(func(m any) any { return m }, nil)
			},
			want: ErrMapChild,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t)
			tt.build(b)
			if err := b.Err(); !errors.Is(err, tt.want) {
				t.Errorf("Err() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuilder_FirstErrorSticks(t *testing.T) {
	b := newBuilder(t)
	b.Keyed(b.Li(b.Text("anon"))) // ErrMissingKey
	b.Lazy(nil, nil)              // would be ErrLazyIdentity

	if err := b.Err(); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("Err() = %v, want the first error (ErrMissingKey)", err)
	}
}

func TestBuilder_TextfFormats(t *testing.T) {
	b := newBuilder(t)
	n := b.Textf("count: %d", 7)
	if n.Text != "count: 7" {
		t.Errorf("text = %q, want %q", n.Text, "count: 7")
	}
}

func TestBuilder_WithKey(t *testing.T) {
	b := newBuilder(t)
	n := b.WithKey("t1", b.Text("keyed text"))
	if n.Key != "t1" {
		t.Errorf("key = %q, want t1", n.Key)
	}
	if b.Err() != nil {
		t.Fatalf("unexpected error: %v", b.Err())
	}
}
