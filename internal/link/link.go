package link

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/node"
)

var (
	// ErrInvalidPairing is the class of all rejected endpoint pairings.
	ErrInvalidPairing = errors.New("invalid link pairing")
	// ErrSelfLoop is returned when both endpoints are on the same node.
	ErrSelfLoop = fmt.Errorf("%w: endpoints on the same node", ErrInvalidPairing)
	// ErrSameDirection is returned when both endpoints are inputs or both outputs.
	ErrSameDirection = fmt.Errorf("%w: endpoints on the same side", ErrInvalidPairing)
)

// PortRef identifies one port of one node. It is the endpoint of a link and
// the value held by a pending selection.
type PortRef struct {
	Node graphid.NodeID
	Port graphid.PortID
}

func (r PortRef) String() string {
	return r.Node.String() + "/" + r.Port.String()
}

// Link is a directed edge from an output port to an input port.
type Link struct {
	ID graphid.LinkID
	// Start always refers to an output port.
	Start PortRef
	// End always refers to an input port.
	End PortRef
	// MarkedForDeletion is set by an explicit delete and honoured by the sweep.
	MarkedForDeletion bool
}

// Touches reports whether either endpoint is on node id.
func (l *Link) Touches(id graphid.NodeID) bool {
	return l.Start.Node == id || l.End.Node == id
}

// Pair orders two endpoints into a link. aDir and bDir are the registries the
// ports were found in.
func Pair(a PortRef, aDir node.Direction, b PortRef, bDir node.Direction) (*Link, error) {
	if a.Node == b.Node {
		return nil, ErrSelfLoop
	}
	if aDir == bDir {
		return nil, ErrSameDirection
	}
	l := &Link{ID: graphid.NewLinkID(), Start: a, End: b}
	if aDir == node.Input {
		l.Start, l.End = b, a
	}
	return l, nil
}
