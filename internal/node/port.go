package node

import (
	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/zclconf/go-cty/cty"
)

const (
	// DefaultPortName is the label given to ports added without a name.
	DefaultPortName = "New..."
	// DefaultPortType is the type tag given to new ports. Tags are carried
	// for display only; values are not type-checked.
	DefaultPortType = "String"
)

// Direction tells which registry of a node a port belongs to.
type Direction int

const (
	// Input ports receive values and are bound as script variables.
	Input Direction = iota
	// Output ports receive values from the script result.
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// Point is a screen position. It is owned by the renderer and only cached
// here; nothing in the core treats it as identity.
type Point struct {
	X, Y float32
}

// Port is a named attachment point on a node.
type Port struct {
	// ID is stable for the life of the port.
	ID graphid.PortID
	// Name is the mutable display label.
	Name string
	// Type is a display-only type tag.
	Type string
	// Anchor is the last screen position written back by the renderer.
	Anchor Point
	// PendingDeletion marks the port for removal by the next sweep.
	PendingDeletion bool

	value    cty.Value
	hasValue bool
}

func newPort(name string) *Port {
	if name == "" {
		name = DefaultPortName
	}
	return &Port{
		ID:   graphid.NewPortID(),
		Name: name,
		Type: DefaultPortType,
	}
}

// Value returns the port's last value and whether one has been set.
func (p *Port) Value() (cty.Value, bool) {
	if !p.hasValue {
		return cty.NilVal, false
	}
	return p.value, true
}

// SetValue records v as the port's last value.
func (p *Port) SetValue(v cty.Value) {
	p.value = v
	p.hasValue = true
}

// ClearValue forgets the port's last value.
func (p *Port) ClearValue() {
	p.value = cty.NilVal
	p.hasValue = false
}
