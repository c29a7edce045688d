// Package graph holds the editor's document: an ordered sequence of nodes, a
// collection of links between their ports, and the single pending link
// selection.
//
// # Ownership
//
// A Graph is owned by exactly one goroutine, the editor's update loop. None
// of its methods lock. Hosts that need to observe a graph from elsewhere
// take a persist.Snapshot on the loop and hand that over.
//
// # Deferred removal
//
// Nothing is removed from a Graph directly. DeletePort stages a port,
// CloseNode clears a node's Open flag and DeleteLink marks a link. The next
// Sweep removes staged ports, then closed nodes, then links whose endpoints
// no longer resolve in the right direction, then marked links, and finally
// drops a pending selection or edit session that lost its port. Callers can
// therefore iterate Nodes and Links while issuing commands without
// invalidating what they hold.
//
// # Errors
//
// Commands addressed at ids that do not resolve return ErrNodeNotFound,
// ErrPortNotFound, ErrLinkNotFound or ErrNoEditSession and leave the graph
// unchanged. Link pairing rejections are not errors; they are reported as a
// link.Outcome.
package graph
