package graph

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Lookup errors returned by the command surface. The graph is unchanged
// whenever one of them is returned.
var (
	// ErrNodeNotFound is returned for an id that names no node in the graph.
	ErrNodeNotFound = errors.New("node not found")
	// ErrPortNotFound is returned when a node has no port with the given id.
	ErrPortNotFound = errors.New("port not found")
	// ErrLinkNotFound is returned for an id that names no link.
	ErrLinkNotFound = errors.New("link not found")
	// ErrNoEditSession is returned when editing a node with no open session.
	ErrNoEditSession = errors.New("no edit session open")
	// ErrDuplicateID is returned when inserting a node whose id is taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// ValueParser turns the text of a constant edit into a port value.
type ValueParser func(text string) (cty.Value, error)

// Option configures a Graph.
type Option func(*Graph)

// WithValueParser sets the parser used when a constant edit is committed.
// Without one, committed text is stored as a string value.
func WithValueParser(p ValueParser) Option {
	return func(g *Graph) {
		g.parse = p
	}
}

// Graph is the editor document. See the package documentation for the
// ownership and removal rules.
type Graph struct {
	nodes   []*node.Node
	byID    map[graphid.NodeID]*node.Node
	links   []*link.Link
	ctl     link.Controller
	ordinal int
	parse   ValueParser
}

var _ link.Resolver = (*Graph)(nil)

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		byID: make(map[graphid.NodeID]*node.Node),
		parse: func(text string) (cty.Value, error) {
			return cty.StringVal(text), nil
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Nodes returns the nodes in display order, closed ones included until the
// next sweep.
func (g *Graph) Nodes() []*node.Node {
	out := make([]*node.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node looks a node up by id.
func (g *Graph) Node(id graphid.NodeID) (*node.Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// NodeByName returns the first node in display order with the given name.
func (g *Graph) NodeByName(name string) (*node.Node, bool) {
	for _, n := range g.nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

func (g *Graph) mustNode(id graphid.NodeID) (*node.Node, error) {
	n, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n, nil
}

// Ordinal is the number used for the most recent default node name.
func (g *Graph) Ordinal() int { return g.ordinal }

// SetOrdinal raises the ordinal to n. It never lowers it, so default names
// are not handed out twice.
func (g *Graph) SetOrdinal(n int) {
	if n > g.ordinal {
		g.ordinal = n
	}
}

// AddNode appends a node with the default ports and script. An empty name
// selects "Function #N" with the next ordinal.
func (g *Graph) AddNode(name string) *node.Node {
	g.ordinal++
	if name == "" {
		name = fmt.Sprintf("Function #%d", g.ordinal)
	}
	n := node.New(name)
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	return n
}

// InsertNode appends an already built node, for example one restored from a
// document.
func (g *Graph) InsertNode(n *node.Node) error {
	if err := graphid.Validate(n.ID.String()); err != nil {
		return fmt.Errorf("insert node %q: %w", n.Name, err)
	}
	if _, exists := g.byID[n.ID]; exists {
		return fmt.Errorf("insert node %q: %w: %s", n.Name, ErrDuplicateID, n.ID)
	}
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	return nil
}

// CloseNode marks a node closed. The node and every link touching it are
// removed by the next sweep.
func (g *Graph) CloseNode(id graphid.NodeID) error {
	n, err := g.mustNode(id)
	if err != nil {
		return err
	}
	n.Open = false
	return nil
}

// SetSource replaces a node's script.
func (g *Graph) SetSource(id graphid.NodeID, source string) error {
	n, err := g.mustNode(id)
	if err != nil {
		return err
	}
	n.Source = source
	return nil
}

// SetMode selects a node's display mode.
func (g *Graph) SetMode(id graphid.NodeID, mode node.Mode) error {
	n, err := g.mustNode(id)
	if err != nil {
		return err
	}
	n.Mode = mode
	return nil
}

// ToggleMode flips a node between signature and code view.
func (g *Graph) ToggleMode(id graphid.NodeID) error {
	n, err := g.mustNode(id)
	if err != nil {
		return err
	}
	n.ToggleMode()
	return nil
}

// SetCollapsed records a node's collapse state.
func (g *Graph) SetCollapsed(id graphid.NodeID, collapsed bool) error {
	n, err := g.mustNode(id)
	if err != nil {
		return err
	}
	n.Collapsed = collapsed
	return nil
}
