// Package link defines directed links between ports and the controller that
// turns two port clicks into a link.
//
// The Controller is a two-state machine:
//
//	Idle ──click(A)──────────────▶ PendingStart(A)
//	PendingStart(A) ──Escape─────▶ Idle
//	PendingStart(A) ──rename(A)──▶ Idle
//	PendingStart(A) ──click(B≠A)─▶ Idle   (+ Link when A/B pair validly)
//
// The pending selection lives in the controller itself, so at most one can
// exist at a time. Link direction comes from registry membership: the
// output-side endpoint always becomes Start, whatever the click order.
// Invalid pairings (same node, or two ports on the same side) are rejected
// without error; the caller sees the Outcome.
package link
