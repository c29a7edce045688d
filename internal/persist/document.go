package persist

import (
	"context"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Document is the persisted form of a graph.
type Document struct {
	// Ordinal is the last number used for a default node name.
	Ordinal int
	Nodes   []NodeDoc
	Links   []LinkDoc
}

// NodeDoc is one node in display order.
type NodeDoc struct {
	ID        string
	Name      string
	Source    string
	Mode      string
	Collapsed bool
	Inputs    []PortDoc
	Outputs   []PortDoc
}

// PortDoc is one port. Value is cty.NilVal when the port has none.
type PortDoc struct {
	ID    string
	Name  string
	Type  string
	Value cty.Value
}

// HasValue reports whether the port carries a usable value.
func (p PortDoc) HasValue() bool {
	return p.Value != cty.NilVal && !p.Value.IsNull() && p.Value.IsWhollyKnown()
}

// LinkDoc is one link, addressed by node and port ids.
type LinkDoc struct {
	ID        string
	StartNode string
	StartPort string
	EndNode   string
	EndPort   string
}

// Snapshot captures the persistent state of g.
func Snapshot(g *graph.Graph) Document {
	doc := Document{Ordinal: g.Ordinal()}
	for _, n := range g.Nodes() {
		if !n.Open {
			continue
		}
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:        n.ID.String(),
			Name:      n.Name,
			Source:    n.Source,
			Mode:      n.Mode.String(),
			Collapsed: n.Collapsed,
			Inputs:    snapshotPorts(n.Inputs),
			Outputs:   snapshotPorts(n.Outputs),
		})
	}
	for _, l := range g.Links() {
		if l.MarkedForDeletion {
			continue
		}
		doc.Links = append(doc.Links, LinkDoc{
			ID:        l.ID.String(),
			StartNode: l.Start.Node.String(),
			StartPort: l.Start.Port.String(),
			EndNode:   l.End.Node.String(),
			EndPort:   l.End.Port.String(),
		})
	}
	return doc
}

func snapshotPorts(r *node.Registry) []PortDoc {
	var out []PortDoc
	for _, p := range r.Ports() {
		if p.PendingDeletion {
			continue
		}
		pd := PortDoc{ID: p.ID.String(), Name: p.Name, Type: p.Type, Value: cty.NilVal}
		if v, ok := p.Value(); ok {
			pd.Value = v
		}
		out = append(out, pd)
	}
	return out
}

// Restore builds a graph from doc and sweeps it, so links in the document
// that do not resolve are dropped. The sweep report says how many.
func Restore(ctx context.Context, doc Document, opts ...graph.Option) (*graph.Graph, graph.SweepReport, error) {
	g := graph.New(opts...)
	g.SetOrdinal(doc.Ordinal)

	for _, nd := range doc.Nodes {
		n, err := restoreNode(nd)
		if err != nil {
			return nil, graph.SweepReport{}, err
		}
		if err := g.InsertNode(n); err != nil {
			return nil, graph.SweepReport{}, err
		}
	}

	for _, ld := range doc.Links {
		l := &link.Link{
			ID:    graphid.LinkID(ld.ID),
			Start: link.PortRef{Node: graphid.NodeID(ld.StartNode), Port: graphid.PortID(ld.StartPort)},
			End:   link.PortRef{Node: graphid.NodeID(ld.EndNode), Port: graphid.PortID(ld.EndPort)},
		}
		if err := g.RestoreLink(l); err != nil {
			return nil, graph.SweepReport{}, err
		}
	}

	return g, g.Sweep(ctx), nil
}

func restoreNode(nd NodeDoc) (*node.Node, error) {
	if err := graphid.Validate(nd.ID); err != nil {
		return nil, fmt.Errorf("node %q: %w", nd.Name, err)
	}
	mode, err := node.ParseMode(nd.Mode)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", nd.Name, err)
	}

	n := node.Restore(graphid.NodeID(nd.ID), nd.Name)
	n.Source = nd.Source
	n.Mode = mode
	n.Collapsed = nd.Collapsed

	for _, side := range []struct {
		reg   *node.Registry
		ports []PortDoc
	}{
		{n.Inputs, nd.Inputs},
		{n.Outputs, nd.Outputs},
	} {
		for _, pd := range side.ports {
			if _, _, exists := n.Port(graphid.PortID(pd.ID)); exists {
				return nil, fmt.Errorf("node %q: port %q: duplicate id %s", nd.Name, pd.Name, pd.ID)
			}
			p := &node.Port{ID: graphid.PortID(pd.ID), Name: pd.Name, Type: pd.Type}
			if pd.HasValue() {
				p.SetValue(pd.Value)
			}
			if err := side.reg.Restore(p); err != nil {
				return nil, fmt.Errorf("node %q: %w", nd.Name, err)
			}
		}
	}
	return n, nil
}
