package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/scriptgraph/internal/persist"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath  string // graph document; a missing file starts an empty graph
	EventsPath string // optional HCL event script
	OutPath    string // where to save; defaults to GraphPath
	Format     string // codec for paths without a known extension

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	CacheSize       int
	Watch           bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.OutPath == "" {
		cfg.OutPath = cfg.GraphPath
	}
	if cfg.Format == "" {
		cfg.Format = persist.HCL{}.Name()
	}
	if _, err := persist.CodecByName(cfg.Format); err != nil {
		return nil, err
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("CacheSize must not be negative, got %d", cfg.CacheSize)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("HealthcheckPort out of range: %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
