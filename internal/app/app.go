package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/filestore"
	"github.com/specialistvlad/scriptgraph/internal/graph"
	"github.com/specialistvlad/scriptgraph/internal/hclscript"
	"github.com/specialistvlad/scriptgraph/internal/inmemorystore"
	"github.com/specialistvlad/scriptgraph/internal/persist"
	"github.com/specialistvlad/scriptgraph/internal/script"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	ctx        context.Context
	engine     *hclscript.Engine
	bridge     *script.Bridge
	in         *filestore.Store
	out        *filestore.Store
	history    *inmemorystore.Store // last known document per store name
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. Logs go to logW;
// summaries and usage go to outW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	engine, err := hclscript.New(cfg.CacheSize)
	if err != nil {
		// A broken script engine is a fatal startup error.
		panic(fmt.Errorf("failed to create script engine: %w", err))
	}
	codec, err := persist.CodecByName(cfg.Format)
	if err != nil {
		panic(err)
	}
	logger.Debug("Script engine ready.", "functions", len(engine.Functions()), "cache_size", cfg.CacheSize)

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		ctx:     ctx,
		engine:  engine,
		bridge:  script.NewBridge(engine),
		in:      filestore.New(filepath.Dir(cfg.GraphPath), codec),
		out:     filestore.New(filepath.Dir(cfg.OutPath), codec),
		history: inmemorystore.New(),
	}
}

// Engine returns the script engine. This is primarily for testing.
func (a *App) Engine() *hclscript.Engine {
	return a.engine
}

// graphOptions are the options every graph built by the app gets.
func (a *App) graphOptions() []graph.Option {
	return []graph.Option{graph.WithValueParser(a.engine.ParseLiteral)}
}
