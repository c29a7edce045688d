// Package script is the bridge between a node and an expression evaluator.
//
// The evaluator is an opaque capability:
//
//	Evaluate(ctx, source, bindings) (NamedValues, error)
//
// Bridge.Run binds a node's input ports by their current display names,
// evaluates the node's source in a fresh scope and copies result entries
// into output ports whose names match. Outputs with no matching entry keep
// their previous value. Any evaluator failure, including a panic, leaves
// every output untouched; the failure is logged and returned in the Report
// but never escalated.
package script
