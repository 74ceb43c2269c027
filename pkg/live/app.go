package live

import (
	"errors"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// App is the application a host serves: a model value, a pure update
// step, and a view. The host owns the cycle — it calls Update with the
// message an event's handler produced, then renders the new model and
// streams the resulting patches. All three functions run on the
// session's own goroutine, one session's calls never interleave.
//
// Model values are opaque to the host. A session gets its own model
// from Init, so apps are safe to serve concurrently as long as Update
// and View touch only the model they are given.
type App struct {
	// Init builds a fresh model for a new session.
	Init func() any

	// Update applies one message to the model and returns the next
	// model. Messages are whatever the view's handlers produce.
	Update func(model, msg any) any

	// View builds the tree for a model. Nodes must come from the given
	// builder; see arbor.View for region lifetime rules.
	View func(b *vtree.Builder, model any) *vtree.Node
}

var errIncompleteApp = errors.New("live: App needs Init, Update and View")

func (a App) validate() error {
	if a.Init == nil || a.Update == nil || a.View == nil {
		return errIncompleteApp
	}
	return nil
}
