package editor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
)

// Step is one block of an event script. Addresses are kept as written and
// resolved against the graph when the step is played, so a step can refer
// to a node that an earlier step created or renamed.
type Step struct {
	Kind  string
	Range hcl.Range
	Args  StepArgs
}

// StepArgs holds every attribute a step block may carry. Which ones matter
// depends on the kind.
type StepArgs struct {
	Node      string  `hcl:"node,optional"`
	Port      string  `hcl:"port,optional"`
	ToNode    string  `hcl:"to_node,optional"`
	ToPort    string  `hcl:"to_port,optional"`
	Link      string  `hcl:"link,optional"`
	Name      string  `hcl:"name,optional"`
	Text      string  `hcl:"text,optional"`
	Source    string  `hcl:"source,optional"`
	Direction string  `hcl:"direction,optional"`
	X         float64 `hcl:"x,optional"`
	Y         float64 `hcl:"y,optional"`
	Collapsed bool    `hcl:"collapsed,optional"`
}

// Script is an ordered list of steps.
type Script []Step

var stepKinds = map[string]bool{
	ClickPort{}.Kind():       true,
	DoubleClickPort{}.Kind(): true,
	SetConstant{}.Kind():     true,
	TypeText{}.Kind():        true,
	KeyEnter{}.Kind():        true,
	KeyEscape{}.Kind():       true,
	Blur{}.Kind():            true,
	PointerMoved{}.Kind():    true,
	AnchorMoved{}.Kind():     true,
	AddNode{}.Kind():         true,
	CloseNode{}.Kind():       true,
	AddPort{}.Kind():         true,
	DeletePort{}.Kind():      true,
	RenamePort{}.Kind():      true,
	SetSource{}.Kind():       true,
	ToggleMode{}.Kind():      true,
	SetCollapsed{}.Kind():    true,
	DeleteLink{}.Kind():      true,
	RunNode{}.Kind():         true,
	Tick{}.Kind():            true,
}

// ParseScript reads an event script. filename is used in diagnostics only.
func ParseScript(data []byte, filename string) (Script, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse %s: unexpected body type %T", filename, file.Body)
	}
	if len(body.Attributes) > 0 {
		names := make([]string, 0, len(body.Attributes))
		for name := range body.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%s: top-level attributes are not events: %s", filename, strings.Join(names, ", "))
	}

	script := make(Script, 0, len(body.Blocks))
	for _, block := range body.Blocks {
		if !stepKinds[block.Type] {
			return nil, fmt.Errorf("%s: unknown event %q", block.TypeRange, block.Type)
		}
		if len(block.Labels) > 0 {
			return nil, fmt.Errorf("%s: event %q takes no labels", block.TypeRange, block.Type)
		}
		step := Step{Kind: block.Type, Range: block.Range()}
		if diags := gohcl.DecodeBody(block.Body, nil, &step.Args); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
		}
		script = append(script, step)
	}
	return script, nil
}

// Resolve turns the step into an event against the current state of g.
func (s Step) Resolve(g *graph.Graph) (Event, error) {
	a := s.Args
	switch s.Kind {
	case KeyEnter{}.Kind():
		return KeyEnter{}, nil
	case KeyEscape{}.Kind():
		return KeyEscape{}, nil
	case Tick{}.Kind():
		return Tick{}, nil
	case PointerMoved{}.Kind():
		return PointerMoved{At: point(a.X, a.Y)}, nil
	case AddNode{}.Kind():
		return AddNode{Name: a.Name}, nil
	case DeleteLink{}.Kind():
		if a.Link != "" {
			return DeleteLink{Link: graphid.LinkID(a.Link)}, nil
		}
	}

	n, err := findNode(g, a.Node)
	if err != nil {
		return nil, err
	}

	switch s.Kind {
	case TypeText{}.Kind():
		return TypeText{Node: n.ID, Text: a.Text}, nil
	case Blur{}.Kind():
		return Blur{Node: n.ID}, nil
	case CloseNode{}.Kind():
		return CloseNode{Node: n.ID}, nil
	case SetSource{}.Kind():
		return SetSource{Node: n.ID, Source: a.Source}, nil
	case ToggleMode{}.Kind():
		return ToggleMode{Node: n.ID}, nil
	case SetCollapsed{}.Kind():
		return SetCollapsed{Node: n.ID, Collapsed: a.Collapsed}, nil
	case RunNode{}.Kind():
		return RunNode{Node: n.ID}, nil
	case AddPort{}.Kind():
		dir, err := parseDirection(a.Direction)
		if err != nil {
			return nil, err
		}
		return AddPort{Node: n.ID, Direction: dir, Name: a.Name}, nil
	case DeleteLink{}.Kind():
		return resolveDeleteLink(g, n, a)
	}

	ref, err := findPort(n, a.Port)
	if err != nil {
		return nil, err
	}

	switch s.Kind {
	case ClickPort{}.Kind():
		return ClickPort{Port: ref}, nil
	case DoubleClickPort{}.Kind():
		return DoubleClickPort{Port: ref}, nil
	case SetConstant{}.Kind():
		return SetConstant{Port: ref, Text: a.Text}, nil
	case AnchorMoved{}.Kind():
		return AnchorMoved{Port: ref, At: point(a.X, a.Y)}, nil
	case DeletePort{}.Kind():
		return DeletePort{Port: ref}, nil
	case RenamePort{}.Kind():
		return RenamePort{Port: ref, Name: a.Name}, nil
	}
	return nil, fmt.Errorf("unknown event %q", s.Kind)
}

// Play resolves and cycles each step in order. A step that does not resolve
// yields a frame carrying the error and leaves the graph untouched; later
// steps still run.
func Play(ctx context.Context, ed *Editor, script Script) []Frame {
	logger := ctxlog.FromContext(ctx)
	frames := make([]Frame, 0, len(script))

	for i, step := range script {
		ev, err := step.Resolve(ed.Graph())
		if err != nil {
			logger.Warn("Event script step skipped.", "step", i+1, "kind", step.Kind, "range", step.Range.String(), "error", err)
			f := ed.Frame()
			f.Event = step.Kind
			f.Result.Err = err
			frames = append(frames, f)
			continue
		}
		frames = append(frames, ed.Cycle(ctx, ev))
	}
	return frames
}

func point(x, y float64) node.Point {
	return node.Point{X: float32(x), Y: float32(y)}
}

func parseDirection(s string) (node.Direction, error) {
	switch strings.ToLower(s) {
	case "", "input", "in":
		return node.Input, nil
	case "output", "out":
		return node.Output, nil
	default:
		return node.Input, fmt.Errorf("unknown port direction %q", s)
	}
}

// findNode resolves addr as a node id, then as a display name.
func findNode(g *graph.Graph, addr string) (*node.Node, error) {
	if n, ok := g.Node(graphid.NodeID(addr)); ok {
		return n, nil
	}
	if n, ok := g.NodeByName(addr); ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q", graph.ErrNodeNotFound, addr)
}

// findPort resolves addr as a port id, then as a display name with inputs
// searched before outputs.
func findPort(n *node.Node, addr string) (link.PortRef, error) {
	if _, _, ok := n.Port(graphid.PortID(addr)); ok {
		return link.PortRef{Node: n.ID, Port: graphid.PortID(addr)}, nil
	}
	for _, reg := range []*node.Registry{n.Inputs, n.Outputs} {
		for _, p := range reg.Ports() {
			if p.Name == addr {
				return link.PortRef{Node: n.ID, Port: p.ID}, nil
			}
		}
	}
	return link.PortRef{}, fmt.Errorf("%w: %q on node %q", graph.ErrPortNotFound, addr, n.Name)
}

// resolveDeleteLink finds the first link joining two ports, in either order.
func resolveDeleteLink(g *graph.Graph, n *node.Node, a StepArgs) (Event, error) {
	from, err := findPort(n, a.Port)
	if err != nil {
		return nil, err
	}
	other, err := findNode(g, a.ToNode)
	if err != nil {
		return nil, err
	}
	to, err := findPort(other, a.ToPort)
	if err != nil {
		return nil, err
	}
	for _, l := range g.Links() {
		if (l.Start == from && l.End == to) || (l.Start == to && l.End == from) {
			return DeleteLink{Link: l.ID}, nil
		}
	}
	return nil, fmt.Errorf("%w: between %s and %s", graph.ErrLinkNotFound, from, to)
}
