package reconcile

import "github.com/arbor-dev/arbor/pkg/vtree"

// Target is a render surface driven by patch application. Implementations
// mint a fresh vtree.MountID for every node they create and resolve ids
// back to nodes on the mutating operations.
//
// All operations report failure through their error return; the Applier
// never retries and never continues past a failure. Child indexes are
// zero-based positions in the parent's current child list.
type Target interface {
	// CreateElement materializes an element node with the given tag.
	CreateElement(tag string) (vtree.MountID, error)

	// CreateText materializes a text node with the given content.
	CreateText(content string) (vtree.MountID, error)

	// Append attaches child at the end of parent's child list.
	Append(parent, child vtree.MountID) error

	// Remove detaches child (and its subtree) from parent.
	Remove(parent, child vtree.MountID) error

	// Replace swaps oldChild for newChild in place under parent.
	Replace(parent, oldChild, newChild vtree.MountID) error

	// SetAttr sets one string attribute on an element.
	SetAttr(id vtree.MountID, key, value string) error

	// RemoveAttr deletes one attribute from an element.
	RemoveAttr(id vtree.MountID, key string) error

	// SetText replaces a text node's content.
	SetText(id vtree.MountID, content string) error

	// Move repositions child to index within parent's child list.
	Move(parent, child vtree.MountID, index int) error
}
