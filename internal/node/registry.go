package node

import (
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/graphid"
)

// Registry is the ordered, id-keyed port sequence for one direction of a node.
type Registry struct {
	dir   Direction
	ports []*Port
	byID  map[graphid.PortID]*Port
}

func newRegistry(dir Direction) *Registry {
	return &Registry{
		dir:  dir,
		byID: make(map[graphid.PortID]*Port),
	}
}

// Direction reports which side of the node this registry holds.
func (r *Registry) Direction() Direction { return r.dir }

// Len returns the number of ports, including ones pending deletion.
func (r *Registry) Len() int { return len(r.ports) }

// Ports returns the ports in display order. The slice is a copy; the ports are not.
func (r *Registry) Ports() []*Port {
	out := make([]*Port, len(r.ports))
	copy(out, r.ports)
	return out
}

// Get looks a port up by id.
func (r *Registry) Get(id graphid.PortID) (*Port, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Names returns the display names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ports))
	for i, p := range r.ports {
		names[i] = p.Name
	}
	return names
}

// Add appends a new port with a fresh id. An empty name gets DefaultPortName.
func (r *Registry) Add(name string) *Port {
	p := newPort(name)
	r.ports = append(r.ports, p)
	r.byID[p.ID] = p
	return p
}

// Restore appends an existing port, keeping its id. It is used when loading
// persisted graphs.
func (r *Registry) Restore(p *Port) error {
	if err := graphid.Validate(p.ID.String()); err != nil {
		return fmt.Errorf("restore %s port %q: %w", r.dir, p.Name, err)
	}
	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("restore %s port %q: duplicate id %s", r.dir, p.Name, p.ID)
	}
	if p.Type == "" {
		p.Type = DefaultPortType
	}
	r.ports = append(r.ports, p)
	r.byID[p.ID] = p
	return nil
}

// MarkDeleted flags a port for removal by the next sweep.
func (r *Registry) MarkDeleted(id graphid.PortID) bool {
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	p.PendingDeletion = true
	return true
}

// Prune physically removes flagged ports and returns their ids in order.
func (r *Registry) Prune() []graphid.PortID {
	var removed []graphid.PortID
	kept := r.ports[:0]
	for _, p := range r.ports {
		if p.PendingDeletion {
			removed = append(removed, p.ID)
			delete(r.byID, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	// Clear the tail so removed ports can be collected.
	for i := len(kept); i < len(r.ports); i++ {
		r.ports[i] = nil
	}
	r.ports = kept
	return removed
}
