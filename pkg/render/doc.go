// Package render converts node trees into HTML strings or streams.
//
// It handles all aspects of producing valid, secure HTML output:
//
//   - HTML5 compliant element rendering
//   - Text and attribute escaping (XSS prevention)
//   - Void element handling (input, br, img, etc.)
//   - Boolean attribute handling (disabled, checked, etc.)
//   - Optional mount-id and event-slot annotations for a thin client
//   - Full page rendering with DOCTYPE, head, body
//
// # Basic Usage
//
// To render a tree to a string:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// To stream HTML to a writer:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	err := renderer.RenderToWriter(w, node)
//
// # Full Page Rendering
//
// To render a complete HTML document:
//
//	page := render.PageData{
//	    Body:  bodyNode,
//	    Title: "My Page",
//	}
//	err := renderer.RenderPage(w, page)
//
// # Annotations
//
// With IncludeMounts set, elements carrying a mount identifier render a
// data-arbor-id attribute; with AnnotateEvents set, elements with
// handlers get data-arbor-on-<event> markers. A thin client uses both to
// route server-applied patches and forward events. Handlers themselves
// never render; they are dispatch-side state.
package render
