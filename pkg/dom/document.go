// Package dom provides a strict in-memory document that implements
// reconcile.Target. It materializes patch streams into a real tree and
// validates every operation the way a browser DOM would: ids must be
// live, structural ops must name actual children, and positions must be
// in range. A patch stream that applies cleanly against a Document is
// structurally sound, which makes the package the reference surface for
// tests and for server-side sessions that need an authoritative copy of
// what the client is showing.
package dom

import (
	"fmt"
	"strconv"

	"github.com/arbor-dev/arbor/pkg/reconcile"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

var _ reconcile.Target = (*Document)(nil)

type nodeKind uint8

const (
	containerNode nodeKind = iota
	elementNode
	textNode
)

// node is one materialized vertex. Exactly one of tag/text is meaningful
// depending on kind.
type node struct {
	id       vtree.MountID
	kind     nodeKind
	tag      string
	text     string
	attrs    map[string]string
	children []*node
	parent   *node
}

// Document is an in-memory render target. The zero value is not usable;
// construct with NewDocument.
type Document struct {
	root *node
	byID map[vtree.MountID]*node
	n    uint64
}

// NewDocument returns an empty document whose mount container answers to
// rootID. The container holds the top-level children but is not itself an
// element: attribute and text operations against it fail.
func NewDocument(rootID vtree.MountID) *Document {
	root := &node{id: rootID, kind: containerNode}
	return &Document{
		root: root,
		byID: map[vtree.MountID]*node{rootID: root},
	}
}

func (d *Document) mint() vtree.MountID {
	d.n++
	return vtree.MountID("n" + strconv.FormatUint(d.n, 10))
}

func (d *Document) get(id vtree.MountID) (*node, error) {
	n, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return n, nil
}

// release drops n and its whole subtree from the id table so stale ids
// fail loudly instead of aliasing freed nodes.
func (d *Document) release(n *node) {
	delete(d.byID, n.id)
	for _, c := range n.children {
		d.release(c)
	}
}

// CreateElement mints a detached element node.
func (d *Document) CreateElement(tag string) (vtree.MountID, error) {
	if tag == "" {
		return "", fmt.Errorf("dom: empty tag")
	}
	id := d.mint()
	d.byID[id] = &node{id: id, kind: elementNode, tag: tag}
	return id, nil
}

// CreateText mints a detached text node.
func (d *Document) CreateText(content string) (vtree.MountID, error) {
	id := d.mint()
	d.byID[id] = &node{id: id, kind: textNode, text: content}
	return id, nil
}

// Append attaches child as the last child of parent. The child must be
// detached.
func (d *Document) Append(parent, child vtree.MountID) error {
	p, err := d.get(parent)
	if err != nil {
		return err
	}
	c, err := d.get(child)
	if err != nil {
		return err
	}
	if p.kind == textNode {
		return fmt.Errorf("%w: cannot append under text node %q", ErrNotElement, parent)
	}
	if c.kind == containerNode {
		return fmt.Errorf("%w: cannot attach the mount container", ErrNotElement)
	}
	if c.parent != nil {
		return fmt.Errorf("%w: %q", ErrAttached, child)
	}
	c.parent = p
	p.children = append(p.children, c)
	return nil
}

// Remove detaches child from parent and releases its subtree.
func (d *Document) Remove(parent, child vtree.MountID) error {
	p, err := d.get(parent)
	if err != nil {
		return err
	}
	c, err := d.get(child)
	if err != nil {
		return err
	}
	i := indexOf(p, c)
	if i < 0 {
		return fmt.Errorf("%w: %q under %q", ErrNotChild, child, parent)
	}
	p.children = append(p.children[:i], p.children[i+1:]...)
	c.parent = nil
	d.release(c)
	return nil
}

// Replace swaps oldChild for newChild at the same position and releases
// the old subtree. The new child must be detached.
func (d *Document) Replace(parent, oldChild, newChild vtree.MountID) error {
	p, err := d.get(parent)
	if err != nil {
		return err
	}
	old, err := d.get(oldChild)
	if err != nil {
		return err
	}
	repl, err := d.get(newChild)
	if err != nil {
		return err
	}
	i := indexOf(p, old)
	if i < 0 {
		return fmt.Errorf("%w: %q under %q", ErrNotChild, oldChild, parent)
	}
	if repl.parent != nil {
		return fmt.Errorf("%w: %q", ErrAttached, newChild)
	}
	p.children[i] = repl
	repl.parent = p
	old.parent = nil
	d.release(old)
	return nil
}

// SetAttr sets an attribute on an element node.
func (d *Document) SetAttr(id vtree.MountID, key, value string) error {
	n, err := d.get(id)
	if err != nil {
		return err
	}
	if n.kind != elementNode {
		return fmt.Errorf("%w: %q", ErrNotElement, id)
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
	return nil
}

// RemoveAttr removes an attribute that must currently be present.
func (d *Document) RemoveAttr(id vtree.MountID, key string) error {
	n, err := d.get(id)
	if err != nil {
		return err
	}
	if n.kind != elementNode {
		return fmt.Errorf("%w: %q", ErrNotElement, id)
	}
	if _, ok := n.attrs[key]; !ok {
		return fmt.Errorf("%w: %q on %q", ErrNoAttr, key, id)
	}
	delete(n.attrs, key)
	return nil
}

// SetText replaces the content of a text node.
func (d *Document) SetText(id vtree.MountID, content string) error {
	n, err := d.get(id)
	if err != nil {
		return err
	}
	if n.kind != textNode {
		return fmt.Errorf("%w: %q", ErrNotText, id)
	}
	n.text = content
	return nil
}

// Move repositions child so it ends up at index among parent's children.
func (d *Document) Move(parent, child vtree.MountID, index int) error {
	p, err := d.get(parent)
	if err != nil {
		return err
	}
	c, err := d.get(child)
	if err != nil {
		return err
	}
	cur := indexOf(p, c)
	if cur < 0 {
		return fmt.Errorf("%w: %q under %q", ErrNotChild, child, parent)
	}
	if index < 0 || index >= len(p.children) {
		return fmt.Errorf("%w: %d of %d", ErrBadIndex, index, len(p.children))
	}
	if index == cur {
		return nil
	}
	rest := append(p.children[:cur], p.children[cur+1:]...)
	rest = append(rest, nil)
	copy(rest[index+1:], rest[index:])
	rest[index] = c
	p.children = rest
	return nil
}

func indexOf(p *node, c *node) int {
	if c.parent != p {
		return -1
	}
	for i, ch := range p.children {
		if ch == c {
			return i
		}
	}
	return -1
}

// Has reports whether id is live in the document.
func (d *Document) Has(id vtree.MountID) bool {
	_, ok := d.byID[id]
	return ok
}

// Len returns the number of live nodes, not counting the mount container.
func (d *Document) Len() int {
	return len(d.byID) - 1
}

// Tag returns the tag of an element node.
func (d *Document) Tag(id vtree.MountID) (string, error) {
	n, err := d.get(id)
	if err != nil {
		return "", err
	}
	if n.kind != elementNode {
		return "", fmt.Errorf("%w: %q", ErrNotElement, id)
	}
	return n.tag, nil
}

// Text returns the content of a text node.
func (d *Document) Text(id vtree.MountID) (string, error) {
	n, err := d.get(id)
	if err != nil {
		return "", err
	}
	if n.kind != textNode {
		return "", fmt.Errorf("%w: %q", ErrNotText, id)
	}
	return n.text, nil
}

// Attr returns an attribute value and whether it is present.
func (d *Document) Attr(id vtree.MountID, key string) (string, bool) {
	n, ok := d.byID[id]
	if !ok || n.kind != elementNode {
		return "", false
	}
	v, ok := n.attrs[key]
	return v, ok
}

// ChildIDs returns the ids of a node's children in document order.
func (d *Document) ChildIDs(parent vtree.MountID) ([]vtree.MountID, error) {
	p, err := d.get(parent)
	if err != nil {
		return nil, err
	}
	ids := make([]vtree.MountID, len(p.children))
	for i, c := range p.children {
		ids[i] = c.id
	}
	return ids, nil
}
