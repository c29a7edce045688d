package node

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/graphid"
)

var (
	// ErrPortNotFound is returned when a port id does not resolve on a node.
	ErrPortNotFound = errors.New("port not found")
	// ErrNotInput is returned when a constant edit targets an output port.
	ErrNotInput = errors.New("constant values can only be entered on input ports")
)

// EditKind distinguishes the two staged edits a port label supports.
type EditKind int

const (
	// EditRename edits the port's display name.
	EditRename EditKind = iota
	// EditConstant edits the literal value of an input port.
	EditConstant
)

func (k EditKind) String() string {
	if k == EditConstant {
		return "constant"
	}
	return "rename"
}

// EditSession is an open, uncommitted edit on one port.
type EditSession struct {
	Port   graphid.PortID
	Kind   EditKind
	Buffer string
}

// Edit returns the open session, if any.
func (n *Node) Edit() (EditSession, bool) {
	if n.edit == nil {
		return EditSession{}, false
	}
	return *n.edit, true
}

// IsRenaming reports whether port id is in a rename session.
func (n *Node) IsRenaming(id graphid.PortID) bool {
	return n.edit != nil && n.edit.Kind == EditRename && n.edit.Port == id
}

// BeginEdit opens a session on port id, discarding any other open session on
// this node. A rename session starts from the current name; a constant session
// starts empty.
func (n *Node) BeginEdit(id graphid.PortID, kind EditKind) error {
	p, dir, ok := n.Port(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPortNotFound, id)
	}
	if kind == EditConstant && dir != Input {
		return ErrNotInput
	}
	s := &EditSession{Port: id, Kind: kind}
	if kind == EditRename {
		s.Buffer = p.Name
	}
	n.edit = s
	return nil
}

// SetEditBuffer replaces the buffer of the open session.
func (n *Node) SetEditBuffer(text string) bool {
	if n.edit == nil {
		return false
	}
	n.edit.Buffer = text
	return true
}

// CloseEdit ends the open session and returns it for the caller to apply.
func (n *Node) CloseEdit() (EditSession, bool) {
	if n.edit == nil {
		return EditSession{}, false
	}
	s := *n.edit
	n.edit = nil
	return s, true
}

// CommitRename applies a closed rename session. It reports false for a
// session of another kind or a port that no longer exists.
func (n *Node) CommitRename(s EditSession) bool {
	if s.Kind != EditRename {
		return false
	}
	return n.RenamePort(s.Port, s.Buffer)
}
