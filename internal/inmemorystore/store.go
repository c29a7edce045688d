// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of graphstore.Store.
//
// Documents are held encoded, not as values, so a caller that keeps mutating
// a document after saving it cannot change what was stored. Entries live in
// a sync.Map: saves and loads touch independent keys and never contend on a
// global lock.
//
// The app keeps the last known state of each graph file here so it can report
// what a run or a reload changed.
package inmemorystore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/scriptgraph/internal/graphstore"
	"github.com/specialistvlad/scriptgraph/internal/persist"
)

// Store is an in-memory graphstore.Store.
type Store struct {
	codec persist.Codec
	docs  sync.Map // Key: name, Value: []byte
}

var _ graphstore.Store = (*Store)(nil)

// New creates an empty store that encodes documents as YAML.
func New() *Store {
	return &Store{codec: persist.YAML{}}
}

// Load decodes the document stored under name.
func (s *Store) Load(ctx context.Context, name string) (persist.Document, error) {
	raw, ok := s.docs.Load(name)
	if !ok {
		return persist.Document{}, fmt.Errorf("%w: %s", graphstore.ErrNotFound, name)
	}
	return s.codec.Decode(raw.([]byte), name)
}

// Save encodes doc and stores it under name.
func (s *Store) Save(ctx context.Context, name string, doc persist.Document) error {
	data, err := s.codec.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	s.docs.Store(name, data)
	return nil
}

// List returns every stored name, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	s.docs.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names, nil
}
