// Package filestore keeps graph documents as files in a directory. The file
// extension selects the codec: .hcl for HCL, .yaml or .yml for YAML.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/scriptgraph/internal/fsutil"
	"github.com/specialistvlad/scriptgraph/internal/graphstore"
	"github.com/specialistvlad/scriptgraph/internal/persist"
)

// ErrInvalidName is returned for a name that would leave the store directory.
var ErrInvalidName = errors.New("invalid graph name")

// Store is a graphstore.Store over a directory. Names are slash-separated
// paths relative to the directory.
type Store struct {
	dir          string
	defaultCodec persist.Codec
}

var _ graphstore.Store = (*Store)(nil)

// New creates a store rooted at dir. Names saved without a recognised
// extension get defaultCodec's extension.
func New(dir string, defaultCodec persist.Codec) *Store {
	if defaultCodec == nil {
		defaultCodec = persist.HCL{}
	}
	return &Store{dir: dir, defaultCodec: defaultCodec}
}

// Dir returns the directory the store reads and writes.
func (s *Store) Dir() string { return s.dir }

// Name returns the store name a caller's name resolves to: the same name
// with the default codec's extension added when it has no known one. Watch
// reports names in this form.
func (s *Store) Name(name string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, err := persist.CodecForPath(name); err != nil {
		name += s.defaultCodec.Extension()
	}
	return filepath.ToSlash(name), nil
}

// resolve maps a name to a path and the codec for it.
func (s *Store) resolve(name string) (string, persist.Codec, error) {
	name, err := s.Name(name)
	if err != nil {
		return "", nil, err
	}
	codec, err := persist.CodecForPath(name)
	if err != nil {
		return "", nil, err
	}
	return filepath.Join(s.dir, filepath.FromSlash(name)), codec, nil
}

// Load reads and decodes the named file.
func (s *Store) Load(ctx context.Context, name string) (persist.Document, error) {
	path, codec, err := s.resolve(name)
	if err != nil {
		return persist.Document{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return persist.Document{}, fmt.Errorf("%w: %s", graphstore.ErrNotFound, name)
	}
	if err != nil {
		return persist.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return codec.Decode(data, path)
}

// Save encodes doc with the codec chosen by name and replaces the file
// atomically.
func (s *Store) Save(ctx context.Context, name string, doc persist.Document) error {
	path, codec, err := s.resolve(name)
	if err != nil {
		return err
	}
	data, err := codec.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// List returns the graph files under the directory, sorted. A missing
// directory holds no graphs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	files, err := fsutil.FindFilesByExtension(s.dir, persist.Extensions()...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}
	sort.Strings(files)
	return files, nil
}
