package editor

import (
	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/specialistvlad/scriptgraph/internal/script"
)

// Result is what applying one event produced.
type Result struct {
	// Err is set when the event addressed something that does not exist.
	Err error
	// Outcome and Link are set by ClickPort.
	Outcome link.Outcome
	Link    *link.Link
	// Node is the node created by AddNode.
	Node graphid.NodeID
	// Port is the port created by AddPort.
	Port link.PortRef
	// Run is the report of RunNode.
	Run *script.Report
	// Sweep is what the end-of-cycle sweep removed.
	Sweep graph.SweepReport
}

// Frame is the state a renderer draws after a cycle. Nodes and Links point
// into the live graph and must be treated as read-only.
type Frame struct {
	Event  string
	Result Result
	Nodes  []*node.Node
	Links  []*link.Link
	// Pending is the port holding the link selection, if any.
	Pending *link.PortRef
	// Preview is the rubber-band segment from Pending to the pointer.
	Preview *link.Segment
}

func (e *Editor) frame(ev Event, res Result) Frame {
	f := Frame{
		Event:  ev.Kind(),
		Result: res,
		Nodes:  e.graph.Nodes(),
		Links:  e.graph.Links(),
	}
	if ref, ok := e.graph.Pending(); ok {
		f.Pending = &ref
	}
	if seg, ok := e.graph.Preview(e.pointer); ok {
		f.Preview = &seg
	}
	return f
}

// Frame returns the current state without processing an event.
func (e *Editor) Frame() Frame {
	return e.frame(Tick{}, Result{})
}
