package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/metrics"
	"github.com/specialistvlad/scriptgraph/internal/node"
)

// Direction implements link.Resolver. Ports staged for deletion and ports on
// closed nodes do not resolve, so they cannot take part in new links.
func (g *Graph) Direction(ref link.PortRef) (node.Direction, bool) {
	n, ok := g.byID[ref.Node]
	if !ok || !n.Open {
		return node.Input, false
	}
	p, dir, ok := n.Port(ref.Port)
	if !ok || p.PendingDeletion {
		return node.Input, false
	}
	return dir, true
}

// IsRenaming implements link.Resolver.
func (g *Graph) IsRenaming(ref link.PortRef) bool {
	n, ok := g.byID[ref.Node]
	return ok && n.IsRenaming(ref.Port)
}

// Links returns the links in creation order, marked ones included until the
// next sweep.
func (g *Graph) Links() []*link.Link {
	out := make([]*link.Link, len(g.links))
	copy(out, g.links)
	return out
}

// Link looks a link up by id.
func (g *Graph) Link(id graphid.LinkID) (*link.Link, bool) {
	for _, l := range g.links {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// LinksOf returns the links touching node id, in creation order.
func (g *Graph) LinksOf(id graphid.NodeID) []*link.Link {
	var out []*link.Link
	for _, l := range g.links {
		if l.Touches(id) {
			out = append(out, l)
		}
	}
	return out
}

// Pending returns the port holding the pending link selection.
func (g *Graph) Pending() (link.PortRef, bool) {
	return g.ctl.Pending()
}

// PendingFor returns the pending port when it belongs to node id.
func (g *Graph) PendingFor(id graphid.NodeID) (graphid.PortID, bool) {
	ref, ok := g.ctl.Pending()
	if !ok || ref.Node != id {
		return "", false
	}
	return ref.Port, true
}

// ClickPort feeds a port click to the link controller and appends the link
// it produces, if any.
func (g *Graph) ClickPort(ctx context.Context, ref link.PortRef) (link.Outcome, *link.Link) {
	logger := ctxlog.FromContext(ctx)

	outcome, l := g.ctl.Click(g, ref)
	metrics.LinkClicks.WithLabelValues(outcome.String()).Inc()
	if l != nil {
		g.links = append(g.links, l)
		logger.Debug("Link created.", "link_id", l.ID.String(), "start", l.Start.String(), "end", l.End.String())
		return outcome, l
	}
	logger.Debug("Port click handled.", "port", ref.String(), "outcome", outcome.String())
	return outcome, nil
}

// CancelPendingLink clears the pending selection. It reports whether there
// was one.
func (g *Graph) CancelPendingLink() bool {
	return g.ctl.Cancel()
}

// DeleteLink marks a link for removal by the next sweep.
func (g *Graph) DeleteLink(id graphid.LinkID) error {
	l, ok := g.Link(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLinkNotFound, id)
	}
	l.MarkedForDeletion = true
	return nil
}

// RestoreLink appends a link as-is. Endpoints are not checked here; the next
// sweep removes a link that does not resolve.
func (g *Graph) RestoreLink(l *link.Link) error {
	if err := graphid.Validate(l.ID.String()); err != nil {
		return fmt.Errorf("restore link: %w", err)
	}
	if _, exists := g.Link(l.ID); exists {
		return fmt.Errorf("restore link: %w: %s", ErrDuplicateID, l.ID)
	}
	g.links = append(g.links, l)
	return nil
}

// Preview returns the rubber-band segment from the pending port to pointer.
// It is computed on demand and never stored.
func (g *Graph) Preview(pointer node.Point) (link.Segment, bool) {
	return g.ctl.Preview(g.Anchor, pointer)
}
