// Package persist converts a graph to and from a Document, the durable form
// of the editor state, and encodes documents as HCL or YAML.
//
// Documents address everything by id. Names are data, never keys, so a
// reloaded graph keeps its links after any number of renames. Transient
// state is not persisted: the pending link selection, open edit sessions,
// screen anchors, ports staged for deletion, closed nodes and links marked
// for deletion.
package persist
