package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Port resolves ref to a port and the side it is on. Ports staged for
// deletion still resolve here until the sweep removes them.
func (g *Graph) Port(ref link.PortRef) (*node.Port, node.Direction, bool) {
	n, ok := g.byID[ref.Node]
	if !ok {
		return nil, node.Input, false
	}
	return n.Port(ref.Port)
}

func (g *Graph) mustPort(ref link.PortRef) (*node.Node, *node.Port, error) {
	n, err := g.mustNode(ref.Node)
	if err != nil {
		return nil, nil, err
	}
	p, _, ok := n.Port(ref.Port)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrPortNotFound, ref)
	}
	return n, p, nil
}

// AddPort appends a port to the end of the node's input or output sequence.
// An empty name selects node.DefaultPortName.
func (g *Graph) AddPort(id graphid.NodeID, dir node.Direction, name string) (graphid.PortID, error) {
	n, err := g.mustNode(id)
	if err != nil {
		return "", err
	}
	return n.AddPort(dir, name), nil
}

// DeletePort stages a port for removal by the next sweep.
func (g *Graph) DeletePort(ref link.PortRef) error {
	n, _, err := g.mustPort(ref)
	if err != nil {
		return err
	}
	n.DeletePort(ref.Port)
	return nil
}

// RenamePort changes a port's display name. Links and values follow the id,
// so they are unaffected. Duplicate names are allowed.
func (g *Graph) RenamePort(ref link.PortRef, name string) error {
	n, _, err := g.mustPort(ref)
	if err != nil {
		return err
	}
	n.RenamePort(ref.Port, name)
	return nil
}

// SetPortValue overwrites a port's last value.
func (g *Graph) SetPortValue(ref link.PortRef, v cty.Value) error {
	_, p, err := g.mustPort(ref)
	if err != nil {
		return err
	}
	p.SetValue(v)
	return nil
}

// SetAnchor stores the screen position the renderer drew a port at.
func (g *Graph) SetAnchor(ref link.PortRef, at node.Point) error {
	_, p, err := g.mustPort(ref)
	if err != nil {
		return err
	}
	p.Anchor = at
	return nil
}

// Anchor returns the stored screen position of a port.
func (g *Graph) Anchor(ref link.PortRef) (node.Point, bool) {
	p, _, ok := g.Port(ref)
	if !ok {
		return node.Point{}, false
	}
	return p.Anchor, true
}

// BeginEdit opens an edit session on a port, replacing any other session on
// the same node. Starting a rename on the pending port cancels the pending
// link.
func (g *Graph) BeginEdit(ctx context.Context, ref link.PortRef, kind node.EditKind) error {
	n, _, err := g.mustPort(ref)
	if err != nil {
		return err
	}
	if err := n.BeginEdit(ref.Port, kind); err != nil {
		return err
	}
	if kind == node.EditRename && g.ctl.CancelIf(ref) {
		ctxlog.FromContext(ctx).Debug("Pending link cancelled by rename.", "port", ref.String())
	}
	return nil
}

// EditText replaces the buffer of the node's open edit session.
func (g *Graph) EditText(id graphid.NodeID, text string) error {
	n, err := g.mustNode(id)
	if err != nil {
		return err
	}
	if !n.SetEditBuffer(text) {
		return fmt.Errorf("%w: %s", ErrNoEditSession, id)
	}
	return nil
}

// CommitEdit closes the node's edit session and applies it. A constant whose
// text does not parse is dropped without changing the port.
func (g *Graph) CommitEdit(ctx context.Context, id graphid.NodeID) error {
	n, err := g.mustNode(id)
	if err != nil {
		return err
	}
	s, ok := n.CloseEdit()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEditSession, id)
	}
	g.apply(ctx, n, s)
	return nil
}

// CommitAllEdits commits every open session and returns how many there were.
func (g *Graph) CommitAllEdits(ctx context.Context) int {
	count := 0
	for _, n := range g.nodes {
		if s, ok := n.CloseEdit(); ok {
			g.apply(ctx, n, s)
			count++
		}
	}
	return count
}

// CancelEdit discards the node's edit session.
func (g *Graph) CancelEdit(id graphid.NodeID) error {
	n, err := g.mustNode(id)
	if err != nil {
		return err
	}
	if _, ok := n.CloseEdit(); !ok {
		return fmt.Errorf("%w: %s", ErrNoEditSession, id)
	}
	return nil
}

// CancelAllEdits discards every open session and returns how many there were.
func (g *Graph) CancelAllEdits() int {
	count := 0
	for _, n := range g.nodes {
		if _, ok := n.CloseEdit(); ok {
			count++
		}
	}
	return count
}

func (g *Graph) apply(ctx context.Context, n *node.Node, s node.EditSession) {
	logger := ctxlog.FromContext(ctx).With("node_id", n.ID.String(), "port_id", s.Port.String())

	switch s.Kind {
	case node.EditRename:
		n.CommitRename(s)
		logger.Debug("Port renamed.", "name", s.Buffer)
	case node.EditConstant:
		p, _, ok := n.Port(s.Port)
		if !ok {
			return
		}
		v, err := g.parse(s.Buffer)
		if err != nil {
			logger.Debug("Constant ignored, text does not parse.", "text", s.Buffer, "error", err)
			return
		}
		p.SetValue(v)
		logger.Debug("Constant set.", "text", s.Buffer)
	}
}
