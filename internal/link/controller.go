package link

import (
	"errors"

	"github.com/specialistvlad/scriptgraph/internal/node"
)

// Resolver answers the questions the controller needs about the graph.
type Resolver interface {
	// Direction reports which registry ref's port is in, and false when the
	// ref no longer resolves to a live port.
	Direction(ref PortRef) (node.Direction, bool)
	// IsRenaming reports whether ref's port is in a rename edit.
	IsRenaming(ref PortRef) bool
}

// Outcome describes what a click did.
type Outcome int

const (
	// Ignored means the click changed nothing.
	Ignored Outcome = iota
	// Started means ref is now the pending selection.
	Started
	// Linked means a link was produced and the selection cleared.
	Linked
	// RejectedSelfLoop means the pair was on one node; selection cleared.
	RejectedSelfLoop
	// RejectedSameDirection means both ports were on one side; selection cleared.
	RejectedSameDirection
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Started:
		return "started"
	case Linked:
		return "linked"
	case RejectedSelfLoop:
		return "rejected_self_loop"
	case RejectedSameDirection:
		return "rejected_same_direction"
	default:
		return "unknown"
	}
}

// Rejected reports whether the outcome is an invalid pairing.
func (o Outcome) Rejected() bool {
	return o == RejectedSelfLoop || o == RejectedSameDirection
}

// Segment is the transient preview drawn while a link is pending.
type Segment struct {
	From, To node.Point
}

// Controller holds the single pending selection.
type Controller struct {
	pending *PortRef
}

// Pending returns the pending selection, if any.
func (c *Controller) Pending() (PortRef, bool) {
	if c.pending == nil {
		return PortRef{}, false
	}
	return *c.pending, true
}

// Click feeds one port click into the state machine. The returned link is
// non-nil only for Linked; appending it is the caller's job.
func (c *Controller) Click(r Resolver, ref PortRef) (Outcome, *Link) {
	refDir, ok := r.Direction(ref)
	if !ok || r.IsRenaming(ref) {
		return Ignored, nil
	}

	if c.pending == nil || *c.pending == ref {
		c.pending = &ref
		return Started, nil
	}

	first := *c.pending
	firstDir, ok := r.Direction(first)
	if !ok {
		// The first endpoint vanished since it was clicked; start over.
		c.pending = &ref
		return Started, nil
	}
	c.pending = nil

	l, err := Pair(first, firstDir, ref, refDir)
	switch {
	case errors.Is(err, ErrSelfLoop):
		return RejectedSelfLoop, nil
	case errors.Is(err, ErrSameDirection):
		return RejectedSameDirection, nil
	}
	return Linked, l
}

// Cancel clears the pending selection and reports whether one existed.
func (c *Controller) Cancel() bool {
	had := c.pending != nil
	c.pending = nil
	return had
}

// CancelIf clears the pending selection only if it is ref.
func (c *Controller) CancelIf(ref PortRef) bool {
	if c.pending == nil || *c.pending != ref {
		return false
	}
	c.pending = nil
	return true
}

// Validate drops a pending selection that no longer resolves.
func (c *Controller) Validate(r Resolver) bool {
	if c.pending == nil {
		return false
	}
	if _, ok := r.Direction(*c.pending); ok {
		return false
	}
	c.pending = nil
	return true
}

// Preview derives the segment from the pending port's anchor to pointer.
// It is recomputed on every call and never stored.
func (c *Controller) Preview(anchor func(PortRef) (node.Point, bool), pointer node.Point) (Segment, bool) {
	if c.pending == nil {
		return Segment{}, false
	}
	from, ok := anchor(*c.pending)
	if !ok {
		return Segment{}, false
	}
	return Segment{From: from, To: pointer}, true
}
