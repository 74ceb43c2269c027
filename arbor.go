// Package arbor is a backend-agnostic view-tree engine: a view function
// builds an immutable tree of nodes each cycle, the engine diffs it
// against the previous cycle's tree, and a small set of patches is
// applied to whatever surface implements reconcile.Target — an in-memory
// document, a websocket peer, a terminal.
//
// The Loop ties the pieces together. Each Render call runs one
// run-to-completion cycle:
//
//	builder := frames.Begin()        // reclaim the region from two cycles back
//	root := view(builder)            // build the next tree
//	builder.Resolve(root)            // materialize lazy subtrees, once each
//	vtree.CopyMounts(prev, root)     // matched nodes keep their identity
//	patches := vtree.Diff(prev, root, mount)
//	applier.Apply(patches)           // mint ids, drive the target
//	frames.Commit(root)              // root becomes the next cycle's prev
//	registry.Rebuild(root)           // event routing for the committed tree
//
// Commit runs even when Apply failed partway: the target retains an
// applied prefix of the patch list, so the just-built tree — not the
// stale previous one — is the only safe baseline for the next diff.
// Construction errors take the other exit: Abort rolls the region toggle
// back and the previous tree stands untouched.
//
// A Loop is single-threaded. It never schedules cycles itself; the
// embedding update loop (see pkg/live for the websocket host) decides
// when state changed and a render is due.
package arbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arbor-dev/arbor/pkg/frame"
	"github.com/arbor-dev/arbor/pkg/reconcile"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// View builds one cycle's tree. The builder is bound to a managed node
// region: nodes it produces stay valid for two cycles and must never be
// retained beyond that. Returning nil renders nothing under the mount.
type View func(b *vtree.Builder) *vtree.Node

// ErrNotMounted is returned by Remount before the first committed cycle.
var ErrNotMounted = errors.New("arbor: no committed tree")

// Loop drives the render cycle for one mounted view. Not safe for
// concurrent use; all methods belong to the owning goroutine.
type Loop struct {
	view     View
	target   reconcile.Target
	mount    vtree.MountID
	frames   *frame.Manager
	applier  *reconcile.Applier
	registry *reconcile.Registry
	logger   *slog.Logger
	observer PatchObserver
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// PatchObserver receives each fully applied cycle's patch list. The
// patches point into managed node regions: observe them synchronously
// and never retain them past the call.
type PatchObserver func(cycle uint64, patches []vtree.Patch)

// WithPatchObserver registers fn to run after every cycle that applied
// cleanly, including cycles that produced no patches. Remote hosts use
// this to forward the patch stream (see pkg/live); it is not called when
// application failed partway, since the target no longer reflects the
// full list.
func WithPatchObserver(fn PatchObserver) Option {
	return func(lp *Loop) {
		lp.observer = fn
	}
}

// NewLoop returns a loop rendering view into the container named by
// mount on the given target. Panics on a nil target or view — both are
// programming errors, not runtime conditions.
func NewLoop(target reconcile.Target, mount vtree.MountID, view View, opts ...Option) *Loop {
	if target == nil {
		panic("arbor: NewLoop with nil target")
	}
	if view == nil {
		panic("arbor: NewLoop with nil view")
	}
	l := &Loop{
		view:     view,
		target:   target,
		mount:    mount,
		frames:   frame.NewManager(),
		applier:  reconcile.NewApplier(target),
		registry: reconcile.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result reports one committed render cycle.
type Result struct {
	Cycle    uint64        // 1-based index of the committed cycle
	Patches  int           // patches the diff produced
	Nodes    int           // nodes in the committed tree's region
	Duration time.Duration // wall time for the whole cycle
}

// Render runs one cycle and returns its result.
//
// A construction error (duplicate key, misplaced keyed collection, bad
// lazy or mapped node) aborts the cycle before diffing; the previous
// tree stands and the returned error unwraps to the vtree sentinel. A
// patch application error does not abort: the cycle commits, the result
// is valid, and the error unwraps to a *reconcile.ApplyError describing
// the applied prefix. ctx is checked once on entry; a cycle in flight is
// never cancelled.
func (l *Loop) Render(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	b := l.frames.Begin()
	root := l.view(b)
	if err := b.Err(); err != nil {
		l.frames.Abort()
		return Result{}, fmt.Errorf("arbor: build view: %w", err)
	}
	if err := b.Resolve(root); err != nil {
		l.frames.Abort()
		return Result{}, fmt.Errorf("arbor: resolve view: %w", err)
	}

	prev := l.frames.Previous()
	vtree.CopyMounts(prev, root)
	patches := vtree.Diff(prev, root, l.mount)

	applyErr := l.applier.Apply(patches)
	l.frames.Commit(root)
	l.registry.Rebuild(root)

	res := Result{
		Cycle:    l.frames.Cycle(),
		Patches:  len(patches),
		Nodes:    l.frames.ActiveNodes(),
		Duration: time.Since(start),
	}
	if applyErr != nil {
		var ae *reconcile.ApplyError
		if errors.As(applyErr, &ae) {
			l.logger.Warn("partial patch application",
				"cycle", res.Cycle,
				"op", ae.Op.String(),
				"target", string(ae.Target),
				"applied", ae.Applied,
				"patches", res.Patches,
				"err", ae.Err)
		}
		return res, fmt.Errorf("arbor: apply: %w", applyErr)
	}

	if l.observer != nil {
		l.observer(res.Cycle, patches)
	}
	l.logger.Debug("render cycle",
		"cycle", res.Cycle,
		"patches", res.Patches,
		"nodes", res.Nodes,
		"duration", res.Duration)
	return res, nil
}

// Dispatch resolves one event occurrence on a mounted node into the
// application message its handler produces, with mapped translations
// applied innermost first. The second return is false when the node has
// no binding for the slot — the normal fate of an event raced against a
// rerender, not an error.
func (l *Loop) Dispatch(id vtree.MountID, ev vtree.Event) (any, bool) {
	return l.registry.Resolve(id, ev)
}

// Remount re-creates the committed tree from scratch: every node is
// mounted again with a freshly minted identifier and the registry is
// rebuilt. The patches are returned so remote sessions can answer a
// resync request with a full rebuild. The target must present an empty
// mount container when they are applied; id-minting targets like
// reconcile.Sink satisfy that trivially, an executing target must be
// cleared first.
func (l *Loop) Remount() ([]vtree.Patch, error) {
	root := l.frames.Previous()
	if root == nil {
		return nil, ErrNotMounted
	}
	patches := vtree.Diff(nil, root, l.mount)
	if err := l.applier.Apply(patches); err != nil {
		return nil, fmt.Errorf("arbor: remount: %w", err)
	}
	l.registry.Rebuild(root)
	return patches, nil
}

// Cycle returns the number of committed cycles.
func (l *Loop) Cycle() uint64 {
	return l.frames.Cycle()
}

// Mount returns the container id the loop renders under.
func (l *Loop) Mount() vtree.MountID {
	return l.mount
}

// Tree returns the committed tree, nil before the first cycle. It lives
// in a managed region: valid until the second Render from now, read-only,
// and never to be retained by async work.
func (l *Loop) Tree() *vtree.Node {
	return l.frames.Previous()
}

// Handlers reports how many mounted nodes currently route events.
func (l *Loop) Handlers() int {
	return l.registry.Len()
}
