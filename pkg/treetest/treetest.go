package treetest

import (
	"strings"
	"testing"

	"github.com/arbor-dev/arbor/pkg/render"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// Build constructs and resolves one tree, failing the test on any
// construction error. The tree lives in its own throwaway region.
func Build(t *testing.T, build func(b *vtree.Builder) *vtree.Node) *vtree.Node {
	t.Helper()
	b := vtree.NewBuilder(vtree.NewArena())
	root := build(b)
	if err := b.Err(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := b.Resolve(root); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return root
}

// RenderToString renders a tree and returns the HTML string.
// This is useful for asserting on rendered output.
//
// Example:
//
//	html := treetest.RenderToString(view())
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(node *vtree.Node) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	treetest.ExpectContains(t, view(), "Welcome")
func ExpectContains(t *testing.T, node *vtree.Node, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
//
// Example:
//
//	treetest.ExpectNotContains(t, view(), "Error")
func ExpectNotContains(t *testing.T, node *vtree.Node, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
//
// Example:
//
//	treetest.ExpectElement(t, view(), "button")
func ExpectElement(t *testing.T, node *vtree.Node, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
