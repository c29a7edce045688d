package node

import (
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/graphid"
)

// DefaultSource is the script body given to new nodes. It forwards the first
// two inputs to the two default outputs.
const DefaultSource = `{ Output1 = Input1, Output2 = Input2 }`

// Mode is the node's display mode.
type Mode int

const (
	// ModeSignature shows the port columns.
	ModeSignature Mode = iota
	// ModeCode shows the script editor.
	ModeCode
)

func (m Mode) String() string {
	switch m {
	case ModeSignature:
		return "signature"
	case ModeCode:
		return "code"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of Mode.String. An empty string means ModeSignature.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "signature":
		return ModeSignature, nil
	case "code":
		return ModeCode, nil
	default:
		return ModeSignature, fmt.Errorf("unknown node mode %q", s)
	}
}

// Node is a function unit: ordered input and output ports plus a script body.
type Node struct {
	// ID is globally unique and immutable.
	ID graphid.NodeID
	// Name is the display title.
	Name string
	// Source is the script evaluated by the bridge.
	Source string
	// Inputs and Outputs hold the ports in display order.
	Inputs  *Registry
	Outputs *Registry
	// Mode selects between the port view and the code view.
	Mode Mode
	// Open is cleared when the node is closed; the sweep then removes it.
	Open bool
	// Collapsed mirrors the window collapse state.
	Collapsed bool

	edit *EditSession
}

// NewEmpty creates an open node with no ports and an empty script.
func NewEmpty(name string) *Node {
	return Restore(graphid.NewNodeID(), name)
}

// New creates a node with the default ports and script.
func New(name string) *Node {
	n := NewEmpty(name)
	n.Source = DefaultSource
	n.Collapsed = true
	for _, in := range []string{"Input1", "Input2", "Input3"} {
		n.Inputs.Add(in)
	}
	for _, out := range []string{"Output1", "Output2"} {
		n.Outputs.Add(out)
	}
	return n
}

// Restore creates an open, port-less node carrying an existing id.
func Restore(id graphid.NodeID, name string) *Node {
	return &Node{
		ID:      id,
		Name:    name,
		Inputs:  newRegistry(Input),
		Outputs: newRegistry(Output),
		Mode:    ModeSignature,
		Open:    true,
	}
}

// Registry returns the registry for dir.
func (n *Node) Registry(dir Direction) *Registry {
	if dir == Output {
		return n.Outputs
	}
	return n.Inputs
}

// Port finds a port in either registry and reports which side it is on.
func (n *Node) Port(id graphid.PortID) (*Port, Direction, bool) {
	if p, ok := n.Inputs.Get(id); ok {
		return p, Input, true
	}
	if p, ok := n.Outputs.Get(id); ok {
		return p, Output, true
	}
	return nil, Input, false
}

// AddPort appends a port to the end of the dir sequence.
func (n *Node) AddPort(dir Direction, name string) graphid.PortID {
	return n.Registry(dir).Add(name).ID
}

// RenamePort changes a port's display name. Identity is unaffected.
func (n *Node) RenamePort(id graphid.PortID, name string) bool {
	p, _, ok := n.Port(id)
	if !ok {
		return false
	}
	p.Name = name
	return true
}

// DeletePort stages a port for removal.
func (n *Node) DeletePort(id graphid.PortID) bool {
	_, dir, ok := n.Port(id)
	if !ok {
		return false
	}
	return n.Registry(dir).MarkDeleted(id)
}

// PrunePorts removes staged ports from both registries and returns their ids.
// An edit session on a removed port is dropped.
func (n *Node) PrunePorts() []graphid.PortID {
	removed := append(n.Inputs.Prune(), n.Outputs.Prune()...)
	if n.edit != nil {
		if _, _, ok := n.Port(n.edit.Port); !ok {
			n.edit = nil
		}
	}
	return removed
}

// ToggleMode switches between signature and code view.
func (n *Node) ToggleMode() {
	if n.Mode == ModeSignature {
		n.Mode = ModeCode
	} else {
		n.Mode = ModeSignature
	}
}
