package render

import (
	"strings"
	"testing"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

func renderString(t *testing.T, config RendererConfig, build func(b *vtree.Builder) *vtree.Node) string {
	t.Helper()
	b := vtree.NewBuilder(vtree.NewArena())
	node := build(b)
	if err := b.Resolve(node); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	out, err := NewRenderer(config).RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	return out
}

func TestRenderer_Elements(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *vtree.Builder) *vtree.Node
		want  string
	}{
		{
			"nested with sorted attrs",
			func(b *vtree.Builder) *vtree.Node {
				return b.Div(vtree.ID("main"), vtree.Class("box"), b.Span("hi"))
			},
			`<div class="box" id="main"><span>hi</span></div>`,
		},
		{
			"text escaping",
			func(b *vtree.Builder) *vtree.Node {
				return b.P(b.Text("<b> & co"))
			},
			`<p>&lt;b&gt; &amp; co</p>`,
		},
		{
			"attribute escaping",
			func(b *vtree.Builder) *vtree.Node {
				return b.Div(vtree.Title(`say "hi"`))
			},
			`<div title="say &quot;hi&quot;"></div>`,
		},
		{
			"void element",
			func(b *vtree.Builder) *vtree.Node {
				return b.Div(b.Input(vtree.Type("text")), b.Br())
			},
			`<div><input type="text"><br></div>`,
		},
		{
			"boolean attribute",
			func(b *vtree.Builder) *vtree.Node {
				return b.Button(vtree.Disabled(true), "Go")
			},
			`<button disabled>Go</button>`,
		},
		{
			"handlers never render",
			func(b *vtree.Builder) *vtree.Node {
				return b.Button(vtree.OnClick("go"), vtree.Class("cta"), "Go")
			},
			`<button class="cta">Go</button>`,
		},
		{
			"empty renders nothing",
			func(b *vtree.Builder) *vtree.Node {
				return b.Div(b.Text("a"), b.Empty(), b.Text("b"))
			},
			`<div>ab</div>`,
		},
		{
			"keyed collection is transparent",
			func(b *vtree.Builder) *vtree.Node {
				return b.Ul(b.Keyed(
					b.Li(vtree.Key("a"), "alpha"),
					b.Li(vtree.Key("b"), "beta"),
				))
			},
			`<ul><li>alpha</li><li>beta</li></ul>`,
		},
		{
			"lazy renders its resolution",
			func(b *vtree.Builder) *vtree.Node {
				return b.Div(b.Lazy("panel", func() *vtree.Node { return b.Text("deferred") }))
			},
			`<div>deferred</div>`,
		},
		{
			"mapped renders its content",
			func(b *vtree.Builder) *vtree.Node {
				return b.Map(func(m any) any { return m }, b.Span("inner"))
			},
			`<span>inner</span>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderString(t, RendererConfig{}, tt.build); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_UnresolvedLazyErrors(t *testing.T) {
	b := vtree.NewBuilder(vtree.NewArena())
	node := b.Lazy("id", func() *vtree.Node { return b.Text("x") })

	_, err := NewRenderer(RendererConfig{}).RenderToString(node)
	if err == nil || !strings.Contains(err.Error(), "unresolved lazy") {
		t.Errorf("RenderToString() error = %v, want unresolved lazy error", err)
	}
}

func TestRenderer_MountAnnotations(t *testing.T) {
	b := vtree.NewBuilder(vtree.NewArena())
	node := b.Div(vtree.Class("box"))
	node.Mount = "n1"

	out, err := NewRenderer(RendererConfig{IncludeMounts: true}).RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	want := `<div class="box" data-arbor-id="n1"></div>`
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	// Without a mount id the annotation is omitted.
	bare := vtree.NewBuilder(vtree.NewArena()).Div()
	out, err = NewRenderer(RendererConfig{IncludeMounts: true}).RenderToString(bare)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	if out != "<div></div>" {
		t.Errorf("got %q, want %q", out, "<div></div>")
	}
}

func TestRenderer_EventAnnotations(t *testing.T) {
	out := renderString(t, RendererConfig{AnnotateEvents: true}, func(b *vtree.Builder) *vtree.Node {
		return b.Input(
			vtree.OnInput(func(v string) any { return v }),
			vtree.On("blur", "left"),
		)
	})
	want := `<input data-arbor-on-blur="true" data-arbor-on-input="true">`
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRenderer_PrettyOutput(t *testing.T) {
	compact := renderString(t, RendererConfig{}, func(b *vtree.Builder) *vtree.Node {
		return b.Div(b.P("one"), b.P("two"))
	})
	pretty := renderString(t, RendererConfig{Pretty: true}, func(b *vtree.Builder) *vtree.Node {
		return b.Div(b.P("one"), b.P("two"))
	})

	if !strings.Contains(pretty, "\n") {
		t.Error("pretty output has no newlines")
	}
	if strings.Contains(compact, "\n") {
		t.Errorf("compact output has newlines: %q", compact)
	}
	if !strings.Contains(pretty, "  <p>") {
		t.Errorf("pretty output missing indented child: %q", pretty)
	}
}
