package protocol

import "errors"

// Default decode limits. They bound what a single payload may ask the
// decoder to allocate or recurse into, independent of the frame-level
// payload cap.
const (
	// DefaultMaxAllocation caps any single length-prefixed string or
	// byte slice (4MB).
	DefaultMaxAllocation = 4 * 1024 * 1024

	// DefaultMaxCollectionCount caps the element count of any decoded
	// collection: patch lists, attribute sets, child lists, move lists.
	DefaultMaxCollectionCount = 100_000

	// DefaultMaxTreeDepth caps wire tree nesting. Deeper trees are
	// rejected before recursion can exhaust the stack.
	DefaultMaxTreeDepth = 256
)

// ErrDepthExceeded is returned when a wire tree nests deeper than the
// configured limit.
var ErrDepthExceeded = errors.New("protocol: maximum nesting depth exceeded")

// DecodeLimits bounds decoder allocations. The zero value of any field
// means "use the default"; a nil *DecodeLimits means all defaults.
type DecodeLimits struct {
	// MaxAllocation is the largest single string or byte slice the
	// decoder will allocate.
	MaxAllocation int

	// MaxCollectionCount is the largest collection count the decoder
	// will accept.
	MaxCollectionCount int

	// MaxTreeDepth is the deepest wire tree the decoder will recurse
	// into.
	MaxTreeDepth int
}

// DefaultLimits returns the default decode limits.
func DefaultLimits() *DecodeLimits {
	return &DecodeLimits{
		MaxAllocation:      DefaultMaxAllocation,
		MaxCollectionCount: DefaultMaxCollectionCount,
		MaxTreeDepth:       DefaultMaxTreeDepth,
	}
}

// normalized returns a fully-populated copy, filling zero fields with
// defaults. Safe to call on nil.
func (l *DecodeLimits) normalized() DecodeLimits {
	out := DecodeLimits{
		MaxAllocation:      DefaultMaxAllocation,
		MaxCollectionCount: DefaultMaxCollectionCount,
		MaxTreeDepth:       DefaultMaxTreeDepth,
	}
	if l == nil {
		return out
	}
	if l.MaxAllocation > 0 {
		out.MaxAllocation = l.MaxAllocation
	}
	if l.MaxCollectionCount > 0 {
		out.MaxCollectionCount = l.MaxCollectionCount
	}
	if l.MaxTreeDepth > 0 {
		out.MaxTreeDepth = l.MaxTreeDepth
	}
	return out
}
