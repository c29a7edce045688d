package editor

import (
	"context"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/metrics"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/specialistvlad/scriptgraph/internal/script"
)

// Editor owns a graph and the state of the pointer.
type Editor struct {
	graph   *graph.Graph
	bridge  *script.Bridge
	pointer node.Point
}

// New creates an editor over g. Scripts run through bridge.
func New(g *graph.Graph, bridge *script.Bridge) *Editor {
	return &Editor{graph: g, bridge: bridge}
}

// Graph returns the edited graph.
func (e *Editor) Graph() *graph.Graph { return e.graph }

// Pointer returns the last pointer position.
func (e *Editor) Pointer() node.Point { return e.pointer }

// Cycle processes exactly one event, sweeps the graph and returns the frame
// to draw. Errors from commands addressed at missing objects are reported
// in the frame; they never abort the cycle.
func (e *Editor) Cycle(ctx context.Context, ev Event) Frame {
	logger := ctxlog.FromContext(ctx).With("event", ev.Kind())

	res, err := e.apply(ctx, ev)
	if err != nil {
		res.Err = err
		logger.Debug("Event had no effect.", "error", err)
	}
	res.Sweep = e.graph.Sweep(ctx)
	metrics.CyclesProcessed.WithLabelValues(ev.Kind()).Inc()

	return e.frame(ev, res)
}

func (e *Editor) apply(ctx context.Context, ev Event) (Result, error) {
	g := e.graph
	var res Result

	switch ev := ev.(type) {
	case ClickPort:
		res.Outcome, res.Link = g.ClickPort(ctx, ev.Port)
		return res, nil

	case DoubleClickPort:
		return res, g.BeginEdit(ctx, ev.Port, node.EditRename)

	case SetConstant:
		if err := g.BeginEdit(ctx, ev.Port, node.EditConstant); err != nil {
			return res, err
		}
		return res, g.EditText(ev.Port.Node, ev.Text)

	case TypeText:
		return res, g.EditText(ev.Node, ev.Text)

	case KeyEnter:
		g.CommitAllEdits(ctx)
		return res, nil

	case KeyEscape:
		g.CancelAllEdits()
		if g.CancelPendingLink() {
			ctxlog.FromContext(ctx).Debug("Pending link cancelled.")
		}
		return res, nil

	case Blur:
		return res, g.CommitEdit(ctx, ev.Node)

	case PointerMoved:
		e.pointer = ev.At
		return res, nil

	case AnchorMoved:
		return res, g.SetAnchor(ev.Port, ev.At)

	case AddNode:
		n := g.AddNode(ev.Name)
		res.Node = n.ID
		return res, nil

	case CloseNode:
		return res, g.CloseNode(ev.Node)

	case AddPort:
		id, err := g.AddPort(ev.Node, ev.Direction, ev.Name)
		res.Port = link.PortRef{Node: ev.Node, Port: id}
		return res, err

	case DeletePort:
		return res, g.DeletePort(ev.Port)

	case RenamePort:
		return res, g.RenamePort(ev.Port, ev.Name)

	case SetSource:
		return res, g.SetSource(ev.Node, ev.Source)

	case ToggleMode:
		return res, g.ToggleMode(ev.Node)

	case SetCollapsed:
		return res, g.SetCollapsed(ev.Node, ev.Collapsed)

	case DeleteLink:
		return res, g.DeleteLink(ev.Link)

	case RunNode:
		n, ok := g.Node(ev.Node)
		if !ok {
			return res, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, ev.Node)
		}
		report := e.bridge.Run(ctx, n)
		res.Run = &report
		return res, nil

	case Tick:
		return res, nil

	default:
		return res, fmt.Errorf("unsupported event %T", ev)
	}
}
