package app

import (
	"fmt"
	"io"

	"github.com/specialistvlad/scriptgraph/internal/ctyconv"
	"github.com/specialistvlad/scriptgraph/internal/editor"
	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"gopkg.in/yaml.v3"
)

// Summary is the human-readable state printed after a run.
type Summary struct {
	Graph   string        `yaml:"graph"`
	Events  *EventSummary `yaml:"events,omitempty"`
	Changes *Changes      `yaml:"changes,omitempty"`
	Nodes   []NodeSummary `yaml:"nodes"`
	Links   []LinkSummary `yaml:"links"`
	// Graphs lists every graph file in the graph's directory.
	Graphs []string `yaml:"graphs,omitempty"`
}

// EventSummary counts what the event script did.
type EventSummary struct {
	Applied int `yaml:"applied"`
	Failed  int `yaml:"failed"`
	// Rejected counts clicks that paired two ports a link cannot join.
	Rejected int      `yaml:"rejected_links"`
	Runs     int      `yaml:"runs"`
	RunsOK   int      `yaml:"runs_ok"`
	Errors   []string `yaml:"errors,omitempty"`
}

// NodeSummary is one node with its ports in display order.
type NodeSummary struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Mode   string `yaml:"mode"`
	Source string `yaml:"source,omitempty"`
	// Links counts the links touching the node.
	Links   int           `yaml:"links"`
	Inputs  []PortSummary `yaml:"inputs,omitempty"`
	Outputs []PortSummary `yaml:"outputs,omitempty"`
}

// PortSummary is one port and its last value as a plain YAML value.
type PortSummary struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value,omitempty"`
}

// LinkSummary names both endpoints as node.port.
type LinkSummary struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

func newSummary(path string, g *graph.Graph, frames []editor.Frame) Summary {
	s := Summary{Graph: path}

	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, NodeSummary{
			ID:      n.ID.String(),
			Name:    n.Name,
			Mode:    n.Mode.String(),
			Source:  n.Source,
			Links:   len(g.LinksOf(n.ID)),
			Inputs:  portSummaries(n.Inputs),
			Outputs: portSummaries(n.Outputs),
		})
	}

	for _, l := range g.Links() {
		s.Links = append(s.Links, LinkSummary{
			From: endpointName(g, l.Start),
			To:   endpointName(g, l.End),
		})
	}

	if frames != nil {
		ev := &EventSummary{}
		for i, f := range frames {
			if f.Result.Err != nil {
				ev.Failed++
				ev.Errors = append(ev.Errors, fmt.Sprintf("step %d (%s): %v", i+1, f.Event, f.Result.Err))
				continue
			}
			ev.Applied++
			if f.Result.Outcome.Rejected() {
				ev.Rejected++
			}
			if f.Result.Run != nil {
				ev.Runs++
				if !f.Result.Run.Failed() {
					ev.RunsOK++
				}
			}
		}
		s.Events = ev
	}
	return s
}

func portSummaries(r *node.Registry) []PortSummary {
	var out []PortSummary
	for _, p := range r.Ports() {
		ps := PortSummary{Name: p.Name}
		if v, ok := p.Value(); ok {
			// Values that do not convert are shown in HCL syntax instead.
			native, err := ctyconv.ToNative(v)
			if err != nil {
				native = ctyconv.Format(v)
			}
			ps.Value = native
		}
		out = append(out, ps)
	}
	return out
}

// endpointName renders ref as node.port using current names, falling back
// to ids for anything that no longer resolves.
func endpointName(g *graph.Graph, ref link.PortRef) string {
	n, ok := g.Node(ref.Node)
	if !ok {
		return ref.String()
	}
	p, _, ok := g.Port(ref)
	if !ok {
		return n.Name + "." + ref.Port.String()
	}
	return n.Name + "." + p.Name
}

func writeSummary(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
