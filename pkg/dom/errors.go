package dom

import "errors"

var (
	// ErrUnknownNode is returned when an operation names an id the
	// document has never minted or has already released.
	ErrUnknownNode = errors.New("dom: unknown node id")

	// ErrNotElement is returned when an attribute operation targets a
	// non-element node.
	ErrNotElement = errors.New("dom: node is not an element")

	// ErrNotText is returned when SetText targets a non-text node.
	ErrNotText = errors.New("dom: node is not a text node")

	// ErrNotChild is returned when a structural operation names a child
	// that is not under the given parent.
	ErrNotChild = errors.New("dom: node is not a child of that parent")

	// ErrAttached is returned when a node that already has a parent is
	// attached somewhere else.
	ErrAttached = errors.New("dom: node already attached")

	// ErrNoAttr is returned when RemoveAttr names an absent attribute.
	ErrNoAttr = errors.New("dom: attribute not present")

	// ErrBadIndex is returned when Move names a position outside the
	// parent's child list.
	ErrBadIndex = errors.New("dom: index out of range")
)
