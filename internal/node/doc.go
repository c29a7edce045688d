// Package node models function nodes and their ports.
//
// A Node owns two port registries, one per Direction. A Registry is an
// ordered sequence of ports keyed by an opaque graphid.PortID; the order is
// the display order and is preserved across renames and deletions. Display
// names are labels only: two ports may share a name, and renaming a port never
// changes its identity.
//
// Port deletion is staged. DeletePort only flags the port; the graph's
// sweeper removes flagged ports at the end of the update cycle so that links
// referencing them are pruned in the same pass.
//
// A node also carries at most one staged edit session (rename or constant
// entry). The session buffer is transient and is never persisted.
package node
