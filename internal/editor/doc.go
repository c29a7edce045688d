// Package editor is the update loop around a graph. A host feeds it one
// Event per cycle; Cycle applies the event, sweeps the graph and returns the
// Frame the renderer draws.
//
// The editor is not safe for concurrent use. It is meant to be owned by the
// goroutine that runs the host's frame loop, and everything it touches is
// mutated only from there.
//
// Headless hosts can drive an editor from an event script, an HCL file with
// one block per event:
//
//	add_node { name = "A" }
//	add_node { name = "B" }
//	click_port { node = "A" port = "Output1" }
//	click_port { node = "B" port = "Input1" }
//	set_constant { node = "A" port = "Input1" text = "3" }
//	key_enter {}
//	run_node { node = "A" }
//
// Nodes and ports are addressed by id or display name; the first match in
// display order wins.
package editor
