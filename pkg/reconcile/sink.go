package reconcile

import (
	"strconv"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// Sink is a Target that mints mount identifiers and discards every
// operation. Remote pipelines apply each cycle's patches against a Sink
// so the next tree's nodes receive their identifiers server-side, while
// the patches themselves are encoded and shipped to the surface that
// actually executes them. Both sides mint in patch order, so the ids
// agree by construction.
//
// A Sink belongs to one loop and is not safe for concurrent use.
type Sink struct {
	n uint64
}

// NewSink returns a sink whose ids run n1, n2, n3, ...
func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) mint() vtree.MountID {
	s.n++
	return vtree.MountID("n" + strconv.FormatUint(s.n, 10))
}

// Minted reports how many identifiers the sink has handed out.
func (s *Sink) Minted() uint64 {
	return s.n
}

func (s *Sink) CreateElement(string) (vtree.MountID, error) { return s.mint(), nil }
func (s *Sink) CreateText(string) (vtree.MountID, error)    { return s.mint(), nil }
func (s *Sink) Append(_, _ vtree.MountID) error             { return nil }
func (s *Sink) Remove(_, _ vtree.MountID) error             { return nil }
func (s *Sink) Replace(_, _, _ vtree.MountID) error         { return nil }
func (s *Sink) SetAttr(vtree.MountID, string, string) error { return nil }
func (s *Sink) RemoveAttr(vtree.MountID, string) error      { return nil }
func (s *Sink) SetText(vtree.MountID, string) error         { return nil }
func (s *Sink) Move(_, _ vtree.MountID, _ int) error        { return nil }

var _ Target = (*Sink)(nil)
