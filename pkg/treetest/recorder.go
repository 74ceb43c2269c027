package treetest

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/arbor-dev/arbor/pkg/reconcile"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// Recorder is a reconcile.Target that executes nothing: it mints ids the
// same way the other targets do (n1, n2, ...) and appends one printable
// line per operation to Ops. A Recorder belongs to one test and is not
// safe for concurrent use.
type Recorder struct {
	Ops []string

	n       uint64
	failAt  int
	failErr error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailAt arms the recorder: the n-th operation (1-based, counting every
// target call) returns err instead of succeeding. The failing operation
// is still logged, marked with "FAIL".
func (r *Recorder) FailAt(n int, err error) {
	r.failAt = n
	r.failErr = err
}

// Reset clears the log and disarms the failure; minted ids keep counting.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.failAt = 0
	r.failErr = nil
}

func (r *Recorder) mint() vtree.MountID {
	r.n++
	return vtree.MountID("n" + strconv.FormatUint(r.n, 10))
}

func (r *Recorder) record(line string) error {
	if r.failAt > 0 && len(r.Ops)+1 == r.failAt {
		r.Ops = append(r.Ops, line+" FAIL")
		return r.failErr
	}
	r.Ops = append(r.Ops, line)
	return nil
}

func (r *Recorder) CreateElement(tag string) (vtree.MountID, error) {
	id := r.mint()
	return id, r.record(fmt.Sprintf("create_element %s => %s", tag, id))
}

func (r *Recorder) CreateText(content string) (vtree.MountID, error) {
	id := r.mint()
	return id, r.record(fmt.Sprintf("create_text %q => %s", content, id))
}

func (r *Recorder) Append(parent, child vtree.MountID) error {
	return r.record(fmt.Sprintf("append %s under %s", child, parent))
}

func (r *Recorder) Remove(parent, child vtree.MountID) error {
	return r.record(fmt.Sprintf("remove %s from %s", child, parent))
}

func (r *Recorder) Replace(parent, old, new vtree.MountID) error {
	return r.record(fmt.Sprintf("replace %s with %s under %s", old, new, parent))
}

func (r *Recorder) SetAttr(id vtree.MountID, key, value string) error {
	return r.record(fmt.Sprintf("set_attr %s %s=%q", id, key, value))
}

func (r *Recorder) RemoveAttr(id vtree.MountID, key string) error {
	return r.record(fmt.Sprintf("remove_attr %s %s", id, key))
}

func (r *Recorder) SetText(id vtree.MountID, content string) error {
	return r.record(fmt.Sprintf("set_text %s %q", id, content))
}

func (r *Recorder) Move(parent, child vtree.MountID, index int) error {
	return r.record(fmt.Sprintf("move %s to %d under %s", child, index, parent))
}

var _ reconcile.Target = (*Recorder)(nil)

// ExpectOps asserts the exact operation log.
func (r *Recorder) ExpectOps(t *testing.T, want ...string) {
	t.Helper()
	if len(r.Ops) != len(want) {
		t.Errorf("got %d ops, want %d\ngot:\n  %s\nwant:\n  %s",
			len(r.Ops), len(want),
			strings.Join(r.Ops, "\n  "), strings.Join(want, "\n  "))
		return
	}
	for i := range want {
		if r.Ops[i] != want[i] {
			t.Errorf("op %d:\n got %s\nwant %s", i, r.Ops[i], want[i])
		}
	}
}

// ExpectOp asserts that some logged operation equals want.
func (r *Recorder) ExpectOp(t *testing.T, want string) {
	t.Helper()
	for _, op := range r.Ops {
		if op == want {
			return
		}
	}
	t.Errorf("op %q not in log:\n  %s", want, strings.Join(r.Ops, "\n  "))
}

// CountOps returns how many logged operations start with prefix, e.g.
// "create_element" or "move".
func (r *Recorder) CountOps(prefix string) int {
	n := 0
	for _, op := range r.Ops {
		if strings.HasPrefix(op, prefix+" ") {
			n++
		}
	}
	return n
}
