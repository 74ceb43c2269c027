// Package treetest provides testing helpers for code that drives render
// targets: a Recorder that logs every target operation in a printable
// form, and assertions over rendered trees.
//
// # Recording target operations
//
// The Recorder implements reconcile.Target, mints deterministic ids and
// keeps an ordered log:
//
//	rec := treetest.NewRecorder()
//	ap := reconcile.NewApplier(rec)
//	if err := ap.Apply(vtree.Diff(nil, tree, "root")); err != nil {
//	    t.Fatalf("apply: %v", err)
//	}
//	rec.ExpectOps(t,
//	    `create_element div => n1`,
//	    `append n1 under root`,
//	)
//
// # Forcing application failures
//
// FailAt arms the recorder to fail a specific operation, which is how
// partial-application paths get exercised:
//
//	rec := treetest.NewRecorder()
//	rec.FailAt(3, errors.New("boom"))
//	err := reconcile.NewApplier(rec).Apply(patches)
//	var ae *reconcile.ApplyError
//	if !errors.As(err, &ae) { ... }
//
// # Building and asserting trees
//
//	tree := treetest.Build(t, func(b *vtree.Builder) *vtree.Node {
//	    return b.Div(b.Text("hello"))
//	})
//	treetest.ExpectContains(t, tree, "hello")
package treetest
