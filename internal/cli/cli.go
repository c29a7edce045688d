package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/scriptgraph/internal/app"
)

// Environment variables that supply flag defaults. A .env file in the working
// directory is loaded first when present.
const (
	EnvLogLevel        = "SCRIPTGRAPH_LOG_LEVEL"
	EnvLogFormat       = "SCRIPTGRAPH_LOG_FORMAT"
	EnvHealthcheckPort = "SCRIPTGRAPH_HEALTHCHECK_PORT"
	EnvCacheSize       = "SCRIPTGRAPH_CACHE_SIZE"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	_ = godotenv.Load()

	defaultPort, err := envInt(EnvHealthcheckPort, 0)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	defaultCache, err := envInt(EnvCacheSize, 0)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("scriptgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ScriptGraph - A headless node-based script editor.

Usage:
  scriptgraph [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a graph document (.hcl, .yaml or .yml). A missing file starts
    an empty graph.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph document.")
	gFlag := flagSet.String("g", "", "Path to the graph document (shorthand).")
	eventsFlag := flagSet.String("events", "", "Path to an HCL event script to play against the graph.")
	outFlag := flagSet.String("out", "", "Where to save the graph after the events. Defaults to the graph path.")
	formatFlag := flagSet.String("format", "hcl", "Codec for paths without a known extension. Options: 'hcl' or 'yaml'.")
	healthPortFlag := flagSet.Int("healthcheck-port", defaultPort, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", envOr(EnvLogFormat, "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envOr(EnvLogLevel, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	cacheFlag := flagSet.Int("cache-size", defaultCache, "Parsed script cache size. 0 uses the default.")
	watchFlag := flagSet.Bool("watch", false, "Keep running and print a summary whenever the graph file changes.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphPath:       path,
		EventsPath:      *eventsFlag,
		OutPath:         *outFlag,
		Format:          strings.ToLower(*formatFlag),
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
		CacheSize:       *cacheFlag,
		Watch:           *watchFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", key, raw)
	}
	return v, nil
}
