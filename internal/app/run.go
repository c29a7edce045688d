package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/editor"
	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/graphstore"
	"github.com/specialistvlad/scriptgraph/internal/persist"
)

// Run executes the main application logic: load the graph, play the event
// script, save the result and print a summary. In watch mode it then keeps
// printing summaries of the graph file as it changes until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.startHealthCheckServer()
	defer a.closeHealthCheckServer()

	inName, err := a.in.Name(filepath.Base(a.config.GraphPath))
	if err != nil {
		return fmt.Errorf("invalid graph path: %w", err)
	}
	outName, err := a.out.Name(filepath.Base(a.config.OutPath))
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	g, err := a.load(ctx, a.in, inName)
	if err != nil {
		return err
	}
	if err := a.remember(ctx, inName, persist.Snapshot(g)); err != nil {
		return err
	}

	var (
		frames  []editor.Frame
		changes *Changes
	)
	if a.config.EventsPath != "" {
		script, err := a.loadScript()
		if err != nil {
			return err
		}
		a.logger.Info("🚀 Playing event script...", "path", a.config.EventsPath, "steps", len(script))
		frames = editor.Play(ctx, editor.New(g, a.bridge), script)
		a.logger.Info("🏁 Event script finished.", "frames", len(frames), "cached_scripts", a.engine.CacheLen())

		after := persist.Snapshot(g)
		if err := a.out.Save(ctx, outName, after); err != nil {
			return fmt.Errorf("failed to save graph: %w", err)
		}
		a.logger.Info("💾 Graph saved.", "dir", a.out.Dir(), "name", outName)

		if changes, err = a.changesSince(ctx, inName, after); err != nil {
			return err
		}
		if err := a.remember(ctx, outName, after); err != nil {
			return err
		}
	} else {
		a.logger.Debug("No event script configured, graph left unchanged.")
	}

	s := newSummary(a.config.GraphPath, g, frames)
	s.Changes = changes
	s.Graphs = a.listGraphs(ctx, a.in)
	if err := writeSummary(a.outW, s); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if a.config.Watch {
		return a.watch(ctx, inName)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// load reads a graph document from store. A missing document is an empty
// graph.
func (a *App) load(ctx context.Context, store graphstore.Store, name string) (*graph.Graph, error) {
	doc, err := store.Load(ctx, name)
	if errors.Is(err, graphstore.ErrNotFound) {
		a.logger.Warn("Graph file not found, starting with an empty graph.", "name", name)
		return graph.New(a.graphOptions()...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	g, report, err := persist.Restore(ctx, doc, a.graphOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore graph: %w", err)
	}
	if report.Total() > 0 {
		a.logger.Warn("Invalid entries dropped while loading graph.", "name", name, "sweep", report)
	}
	a.logger.Debug("Graph loaded.", "name", name, "nodes", len(g.Nodes()), "links", len(g.Links()))
	return g, nil
}

// listGraphs names the graph files next to the loaded one. Listing is best
// effort; a failure only costs the summary that field.
func (a *App) listGraphs(ctx context.Context, store graphstore.Store) []string {
	names, err := store.List(ctx)
	if err != nil {
		a.logger.Warn("Could not list graph files.", "error", err)
		return nil
	}
	return names
}

func (a *App) loadScript() (editor.Script, error) {
	data, err := os.ReadFile(a.config.EventsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read event script: %w", err)
	}
	script, err := editor.ParseScript(data, a.config.EventsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event script: %w", err)
	}
	return script, nil
}

// watch prints a fresh summary whenever the graph file called name is
// rewritten. It never applies events or saves, so its own output cannot
// retrigger it.
func (a *App) watch(ctx context.Context, name string) error {
	changes, err := a.in.Watch(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("👀 Watching graph file for changes.", "dir", a.in.Dir(), "name", name)

	for changed := range changes {
		if changed != name {
			continue
		}
		g, err := a.load(ctx, a.in, name)
		if err != nil {
			a.logger.Error("Reload failed, keeping previous state.", "error", err)
			continue
		}

		doc := persist.Snapshot(g)
		diff, err := a.changesSince(ctx, name, doc)
		if err != nil {
			return err
		}
		if diff != nil && diff.Empty() {
			a.logger.Debug("Graph file rewritten without changes.", "name", name)
			continue
		}
		if err := a.remember(ctx, name, doc); err != nil {
			return err
		}
		if known, err := a.history.List(ctx); err == nil {
			a.logger.Debug("Graph state recorded.", "name", name, "known", known)
		}

		s := newSummary(a.config.GraphPath, g, nil)
		s.Changes = diff
		if err := writeSummary(a.outW, s); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	a.logger.Debug("Watch stopped.")
	return nil
}
