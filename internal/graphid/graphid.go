package graphid

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrEmpty is returned when an identifier token is blank.
var ErrEmpty = errors.New("identifier must not be empty")

// NodeID identifies a node within a graph.
type NodeID string

// PortID identifies a port within its node. It survives renames.
type PortID string

// LinkID identifies a single link, so duplicate links between the same two
// ports can still be addressed individually.
type LinkID string

// NewNodeID returns a fresh, never-before-issued node identifier.
func NewNodeID() NodeID { return NodeID(uuid.NewString()) }

// NewPortID returns a fresh, never-before-issued port identifier.
func NewPortID() PortID { return PortID(uuid.NewString()) }

// NewLinkID returns a fresh, never-before-issued link identifier.
func NewLinkID() LinkID { return LinkID(uuid.NewString()) }

func (id NodeID) String() string { return string(id) }
func (id PortID) String() string { return string(id) }
func (id LinkID) String() string { return string(id) }

// Validate checks that a token read from an external source is usable.
// Tokens are opaque, so anything non-blank is accepted.
func Validate(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmpty
	}
	return nil
}
