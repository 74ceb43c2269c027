// Package vtree provides the renderable tree model and the structural
// differ at the heart of Arbor.
//
// A tree is a value description of what should be on screen. Each render
// cycle the application builds a fresh tree inside an allocation region,
// the differ compares it against the previous cycle's tree, and the result
// is an ordered list of Patch operations that a render target applies.
//
// # Core Types
//
// Node is the fundamental building block. Its Kind discriminates the
// closed set of variants: elements, text, the empty node, keyed
// collections, lazy subtrees and mapped (message-translating) subtrees.
// Attrs holds string attributes and event handler references; the two are
// kept apart by AttrValue.
//
// # Building Trees
//
// Trees are constructed through a Builder bound to an Arena, using
// variadic element factories:
//
//	b.Div(vtree.Class("card"),
//	    b.H1(b.Text("Title")),
//	    b.Button(vtree.OnClick(msgIncr{}), b.Text("+1")),
//	)
//
// The Builder records the first construction error (duplicate keys in a
// keyed collection, malformed lazy or mapped nodes) and Err surfaces it
// before any diffing happens.
//
// # Diffing
//
// Diff compares two trees and returns patches. Mount identifiers link
// previously materialized nodes to render-target state: CopyMounts carries
// them forward onto matched nodes of the next tree before diffing, and the
// patch applier mints identifiers for created nodes. Diff itself never
// mutates either tree.
package vtree
