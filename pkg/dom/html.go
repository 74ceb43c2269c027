package dom

import (
	"sort"
	"strings"

	"github.com/arbor-dev/arbor/pkg/render"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// HTML serializes the mounted tree. The container itself is not emitted,
// only its children in order, so the output is comparable with renderer
// output for the same tree.
func (d *Document) HTML() string {
	var sb strings.Builder
	for _, c := range d.root.children {
		writeNode(&sb, c)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n *node) {
	if n.kind == textNode {
		sb.WriteString(render.EscapeHTML(n.text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.tag)
	if len(n.attrs) > 0 {
		keys := make([]string, 0, len(n.attrs))
		for k := range n.attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if render.IsBooleanAttr(k) {
				if n.attrs[k] == "true" {
					sb.WriteByte(' ')
					sb.WriteString(k)
				}
				continue
			}
			sb.WriteByte(' ')
			sb.WriteString(k)
			sb.WriteString(`="`)
			sb.WriteString(render.EscapeAttr(n.attrs[k]))
			sb.WriteByte('"')
		}
	}

	if vtree.IsVoidElement(n.tag) && len(n.children) == 0 {
		sb.WriteByte('>')
		return
	}

	sb.WriteByte('>')
	for _, c := range n.children {
		writeNode(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteByte('>')
}
