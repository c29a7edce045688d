// Package graphid defines the opaque identity tokens used throughout the
// editor: node, port and link identifiers.
//
// Identifiers are random UUIDv4 strings. They are never derived from display
// names, never reused after deletion and never change for the lifetime of the
// object they name. Persistence stores these tokens verbatim so that links
// stay resolvable after ports or nodes are renamed.
package graphid
