package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/persist"
)

// Watch reports the names of graph files written or created in the store
// directory until ctx is cancelled. The channel is closed when watching
// stops. Only the top level of the directory is watched.
//
// The watcher goroutine never loads documents itself; the receiver decides
// whether and when to reload.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	logger := ctxlog.FromContext(ctx).With("dir", s.dir)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("graph watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("graph watcher add %s: %w", s.dir, err)
	}

	changes := make(chan string)
	go func() {
		defer close(changes)
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				name, ok := s.nameFor(ev.Name)
				if !ok {
					continue
				}
				logger.Debug("Graph file changed.", "name", name, "op", ev.Op.String())
				select {
				case changes <- name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("Graph watcher error.", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	return changes, nil
}

// nameFor maps a watched path back to a store name, skipping temp files and
// files without a graph extension.
func (s *Store) nameFor(path string) (string, bool) {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(filepath.Base(rel), ".") {
		return "", false
	}
	if _, err := persist.CodecForPath(rel); err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
