package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// IncludeMounts emits a data-arbor-id attribute on every element that
	// carries a mount identifier, so a thin client can address nodes that
	// later patches refer to. Trees get their identifiers from a patch
	// application pass (typically against reconcile.Sink) before rendering.
	IncludeMounts bool

	// AnnotateEvents emits data-arbor-on-<event> markers for elements
	// with handlers, telling the client which event slots to forward.
	AnnotateEvents bool
}

// Renderer handles server-side rendering of node trees to HTML. It holds
// no per-render state and is safe to share.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a node tree to a complete HTML string.
func (r *Renderer) RenderToString(node *vtree.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vtree.Node) error {
	return r.renderNode(w, node, 0)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vtree.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vtree.KindElement:
		return r.renderElement(w, node, depth)
	case vtree.KindText:
		return r.renderText(w, node)
	case vtree.KindEmpty:
		// Renders nothing; live targets hold the slot with a placeholder.
		return nil
	case vtree.KindKeyed:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	case vtree.KindLazy:
		sub := node.Resolved()
		if sub == nil {
			return fmt.Errorf("render: unresolved lazy node (id %v)", node.LazyID)
		}
		return r.renderNode(w, sub, depth)
	case vtree.KindMapped:
		if len(node.Children) != 1 {
			return fmt.Errorf("render: mapped node without content")
		}
		return r.renderNode(w, node.Children[0], depth)
	default:
		return fmt.Errorf("render: unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vtree.Node, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := w.Write([]byte{'<'}); err != nil {
		return err
	}
	if _, err := w.Write([]byte(tag)); err != nil {
		return err
	}

	if err := r.renderAttributes(w, node); err != nil {
		return err
	}

	// Self-closing check for void elements
	if vtree.IsVoidElement(tag) {
		if _, err := w.Write([]byte{'>'}); err != nil {
			return err
		}
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
	if r.config.Pretty && hasBlockChildren {
		w.Write([]byte{'\n'})
	}

	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth+1); err != nil {
			return err
		}
	}

	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}

	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *vtree.Node) error {
	_, err := w.Write([]byte(EscapeHTML(node.Text)))
	return err
}

// renderAttributes renders all attributes for an element: string values
// sorted by key, then the optional mount and event annotations. Handler
// values never render as attributes.
func (r *Renderer) renderAttributes(w io.Writer, node *vtree.Node) error {
	keys := make([]string, 0, len(node.Attrs))
	for key := range node.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Attrs[key]
		if value.IsHandler() {
			continue
		}

		// Boolean attributes render as the bare name.
		if IsBooleanAttr(key) {
			if value.Text() == "true" {
				if _, err := fmt.Fprintf(w, " %s", key); err != nil {
					return err
				}
			}
			continue
		}

		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, EscapeAttr(value.Text())); err != nil {
			return err
		}
	}

	if r.config.IncludeMounts && node.Mount != "" {
		if _, err := fmt.Fprintf(w, ` data-arbor-id="%s"`, EscapeAttr(string(node.Mount))); err != nil {
			return err
		}
	}

	if r.config.AnnotateEvents {
		events := make([]string, 0, 2)
		for _, key := range keys {
			if v := node.Attrs[key]; v.IsHandler() {
				events = append(events, v.Handler().Event)
			}
		}
		sort.Strings(events)
		for _, ev := range events {
			if _, err := fmt.Fprintf(w, ` data-arbor-on-%s="true"`, ev); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.Write([]byte(r.config.Indent))
	}
}
