package editor

import (
	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/link"
	"github.com/specialistvlad/scriptgraph/internal/node"
)

// Event is one input processed by a cycle.
type Event interface {
	// Kind names the event for logs and metrics.
	Kind() string
}

// ClickPort is a click on a port handle or label.
type ClickPort struct{ Port link.PortRef }

// DoubleClickPort opens a rename session on a port.
type DoubleClickPort struct{ Port link.PortRef }

// SetConstant opens a constant session on an input port with Text in the
// buffer. Enter or blur commits it.
type SetConstant struct {
	Port link.PortRef
	Text string
}

// TypeText replaces the buffer of the node's open session.
type TypeText struct {
	Node graphid.NodeID
	Text string
}

// KeyEnter commits every open edit session.
type KeyEnter struct{}

// KeyEscape discards every open edit session and cancels the pending link.
type KeyEscape struct{}

// Blur commits the node's edit session when its text field loses focus.
type Blur struct{ Node graphid.NodeID }

// PointerMoved records the pointer position used for the link preview.
type PointerMoved struct{ At node.Point }

// AnchorMoved stores where the renderer drew a port.
type AnchorMoved struct {
	Port link.PortRef
	At   node.Point
}

// AddNode appends a default node. An empty Name picks "Function #N".
type AddNode struct{ Name string }

// CloseNode closes a node; the sweep removes it and its links.
type CloseNode struct{ Node graphid.NodeID }

// AddPort appends a port to one side of a node.
type AddPort struct {
	Node      graphid.NodeID
	Direction node.Direction
	Name      string
}

// DeletePort stages a port for removal.
type DeletePort struct{ Port link.PortRef }

// RenamePort renames a port without an edit session.
type RenamePort struct {
	Port link.PortRef
	Name string
}

// SetSource replaces a node's script.
type SetSource struct {
	Node   graphid.NodeID
	Source string
}

// ToggleMode flips a node between signature and code view.
type ToggleMode struct{ Node graphid.NodeID }

// SetCollapsed records a node's collapse state.
type SetCollapsed struct {
	Node      graphid.NodeID
	Collapsed bool
}

// DeleteLink marks a link for removal.
type DeleteLink struct{ Link graphid.LinkID }

// RunNode evaluates a node's script.
type RunNode struct{ Node graphid.NodeID }

// Tick is a cycle with no input; it only sweeps and redraws.
type Tick struct{}

func (ClickPort) Kind() string       { return "click_port" }
func (DoubleClickPort) Kind() string { return "double_click_port" }
func (SetConstant) Kind() string     { return "set_constant" }
func (TypeText) Kind() string        { return "type_text" }
func (KeyEnter) Kind() string        { return "key_enter" }
func (KeyEscape) Kind() string       { return "key_escape" }
func (Blur) Kind() string            { return "blur" }
func (PointerMoved) Kind() string    { return "pointer_moved" }
func (AnchorMoved) Kind() string     { return "anchor_moved" }
func (AddNode) Kind() string         { return "add_node" }
func (CloseNode) Kind() string       { return "close_node" }
func (AddPort) Kind() string         { return "add_port" }
func (DeletePort) Kind() string      { return "delete_port" }
func (RenamePort) Kind() string      { return "rename_port" }
func (SetSource) Kind() string       { return "set_source" }
func (ToggleMode) Kind() string      { return "toggle_mode" }
func (SetCollapsed) Kind() string    { return "set_collapsed" }
func (DeleteLink) Kind() string      { return "delete_link" }
func (RunNode) Kind() string         { return "run_node" }
func (Tick) Kind() string            { return "tick" }
