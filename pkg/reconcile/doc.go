// Package reconcile applies tree patches to render targets and routes
// events from mounted nodes back to application messages.
//
// # Targets
//
// A Target is any surface that can hold a materialized tree: a real DOM
// behind a wire protocol, the in-memory document in pkg/dom, or the
// trace recorder in pkg/treetest. Targets expose nine primitive
// operations and mint the mount identifiers for nodes they create.
//
// # Applying patches
//
// Applier walks a patch list in order and drives a Target, materializing
// created subtrees, translating attribute changes, and executing batched
// reorder moves. Application stops at the first failing operation; the
// target keeps the prefix that did apply, and the returned *ApplyError
// says how far that was.
//
// # Event routing
//
// Registry indexes the committed tree's handlers by mount identifier and
// event slot. It is rebuilt after every cycle, so a resolved event always
// dispatches against the tree the client is actually showing.
package reconcile
