package graph

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/metrics"
	"github.com/specialistvlad/scriptgraph/internal/node"
)

// SweepReport counts what one sweep removed.
type SweepReport struct {
	Ports         int
	Nodes         int
	DanglingLinks int
	DeletedLinks  int
	// SelectionDropped is set when the pending selection no longer resolved.
	SelectionDropped bool
	// EditsDropped counts edit sessions whose port was removed.
	EditsDropped int
}

// Total is the number of objects removed.
func (r SweepReport) Total() int {
	n := r.Ports + r.Nodes + r.DanglingLinks + r.DeletedLinks + r.EditsDropped
	if r.SelectionDropped {
		n++
	}
	return n
}

// LogValue groups the counts so a report can be logged as one attribute.
func (r SweepReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ports", r.Ports),
		slog.Int("nodes", r.Nodes),
		slog.Int("dangling_links", r.DanglingLinks),
		slog.Int("deleted_links", r.DeletedLinks),
		slog.Bool("selection_dropped", r.SelectionDropped),
		slog.Int("edits_dropped", r.EditsDropped),
	)
}

// Sweep removes staged and invalid structures in a fixed order:
//
//  1. ports staged for deletion
//  2. closed nodes
//  3. links whose start is not an output or whose end is not an input
//  4. links marked for deletion
//  5. a pending selection whose port is gone
//
// Later steps see the effects of earlier ones, so a link to a deleted port
// is counted as dangling, not deleted.
func (g *Graph) Sweep(ctx context.Context) SweepReport {
	var report SweepReport

	for _, n := range g.nodes {
		_, hadEdit := n.Edit()
		report.Ports += len(n.PrunePorts())
		if _, hasEdit := n.Edit(); hadEdit && !hasEdit {
			report.EditsDropped++
		}
	}

	kept := g.nodes[:0]
	for _, n := range g.nodes {
		if !n.Open {
			delete(g.byID, n.ID)
			report.Nodes++
			continue
		}
		kept = append(kept, n)
	}
	clear(g.nodes[len(kept):])
	g.nodes = kept

	report.DanglingLinks = g.pruneLinks(func(l *link.Link) bool { return !g.valid(l) })
	report.DeletedLinks = g.pruneLinks(func(l *link.Link) bool { return l.MarkedForDeletion })

	report.SelectionDropped = g.ctl.Validate(g)

	g.record(ctx, report)
	return report
}

// valid reports whether l still joins an output to an input on two
// different live nodes.
func (g *Graph) valid(l *link.Link) bool {
	if l.Start.Node == l.End.Node {
		return false
	}
	return g.resolvesAs(l.Start, node.Output) && g.resolvesAs(l.End, node.Input)
}

func (g *Graph) resolvesAs(ref link.PortRef, want node.Direction) bool {
	n, ok := g.byID[ref.Node]
	if !ok {
		return false
	}
	_, ok = n.Registry(want).Get(ref.Port)
	return ok
}

func (g *Graph) pruneLinks(drop func(*link.Link) bool) int {
	removed := 0
	kept := g.links[:0]
	for _, l := range g.links {
		if drop(l) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	clear(g.links[len(kept):])
	g.links = kept
	return removed
}

func (g *Graph) record(ctx context.Context, r SweepReport) {
	metrics.GraphSize.WithLabelValues("nodes").Set(float64(len(g.nodes)))
	metrics.GraphSize.WithLabelValues("links").Set(float64(len(g.links)))
	if r.Total() == 0 {
		return
	}

	for kind, count := range map[string]int{
		"port":          r.Ports,
		"node":          r.Nodes,
		"dangling_link": r.DanglingLinks,
		"deleted_link":  r.DeletedLinks,
		"edit_session":  r.EditsDropped,
	} {
		if count > 0 {
			metrics.SweepPruned.WithLabelValues(kind).Add(float64(count))
		}
	}
	if r.SelectionDropped {
		metrics.SweepPruned.WithLabelValues("selection").Inc()
	}

	ctxlog.FromContext(ctx).Debug("Sweep removed stale objects.", "sweep", r)
}
