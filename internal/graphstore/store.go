// Package graphstore defines where graph documents are kept between runs.
//
// A store maps a name to a persist.Document. Names are opaque to callers;
// the file store uses relative file paths, the in-memory store any string.
// Implementations must be safe for concurrent use, since the app may save
// from the update loop while a watcher lists or loads elsewhere.
package graphstore

import (
	"context"
	"errors"

	"github.com/specialistvlad/scriptgraph/internal/persist"
)

// ErrNotFound is returned by Load for a name the store does not hold.
var ErrNotFound = errors.New("graph not found")

// Store keeps graph documents by name.
type Store interface {
	// Load returns the document saved under name, or an error wrapping
	// ErrNotFound.
	Load(ctx context.Context, name string) (persist.Document, error)

	// Save replaces whatever is stored under name.
	Save(ctx context.Context, name string, doc persist.Document) error

	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)
}
