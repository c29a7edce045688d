package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/scriptgraph/internal/ctyconv"
	"github.com/specialistvlad/scriptgraph/internal/graphstore"
	"github.com/specialistvlad/scriptgraph/internal/persist"
)

// Changes is what differs between two states of the same graph. Nodes are
// matched by id, so a renamed node is not reported as added.
type Changes struct {
	NodesAdded    []string `yaml:"nodes_added,omitempty"`
	NodesRemoved  []string `yaml:"nodes_removed,omitempty"`
	LinksAdded    int      `yaml:"links_added"`
	LinksRemoved  int      `yaml:"links_removed"`
	ValuesChanged []string `yaml:"values_changed,omitempty"` // node.port, sorted
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.NodesAdded) == 0 && len(c.NodesRemoved) == 0 &&
		c.LinksAdded == 0 && c.LinksRemoved == 0 && len(c.ValuesChanged) == 0
}

func diffDocuments(before, after persist.Document) Changes {
	var c Changes

	old := make(map[string]persist.NodeDoc, len(before.Nodes))
	for _, n := range before.Nodes {
		old[n.ID] = n
	}
	seen := make(map[string]bool, len(after.Nodes))
	for _, n := range after.Nodes {
		seen[n.ID] = true
		prev, ok := old[n.ID]
		if !ok {
			c.NodesAdded = append(c.NodesAdded, n.Name)
			continue
		}
		c.ValuesChanged = append(c.ValuesChanged, changedValues(n, prev)...)
	}
	for _, n := range before.Nodes {
		if !seen[n.ID] {
			c.NodesRemoved = append(c.NodesRemoved, n.Name)
		}
	}

	oldLinks := make(map[string]bool, len(before.Links))
	for _, l := range before.Links {
		oldLinks[l.ID] = true
	}
	for _, l := range after.Links {
		if oldLinks[l.ID] {
			delete(oldLinks, l.ID)
			continue
		}
		c.LinksAdded++
	}
	c.LinksRemoved = len(oldLinks)

	sort.Strings(c.ValuesChanged)
	return c
}

// changedValues lists the ports of n whose value differs from prev. Values
// are compared in their printed form so numbers that went through a codec
// still match.
func changedValues(n, prev persist.NodeDoc) []string {
	printed := func(p persist.PortDoc) string {
		if !p.HasValue() {
			return ""
		}
		return ctyconv.TypeString(p.Value.Type()) + ":" + ctyconv.Format(p.Value)
	}

	was := make(map[string]string)
	for _, p := range append(append([]persist.PortDoc{}, prev.Inputs...), prev.Outputs...) {
		was[p.ID] = printed(p)
	}

	var out []string
	for _, p := range append(append([]persist.PortDoc{}, n.Inputs...), n.Outputs...) {
		if printed(p) != was[p.ID] {
			out = append(out, n.Name+"."+p.Name)
		}
	}
	return out
}

// changesSince compares doc with the state last recorded under name. It
// returns nil when nothing was recorded yet.
func (a *App) changesSince(ctx context.Context, name string, doc persist.Document) (*Changes, error) {
	prev, err := a.history.Load(ctx, name)
	if errors.Is(err, graphstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read previous state of %s: %w", name, err)
	}
	c := diffDocuments(prev, doc)
	return &c, nil
}

// remember records doc as the current state of the file called name.
func (a *App) remember(ctx context.Context, name string, doc persist.Document) error {
	if err := a.history.Save(ctx, name, doc); err != nil {
		return fmt.Errorf("failed to record state of %s: %w", name, err)
	}
	return nil
}
