// Package metrics exposes Prometheus collectors for the editor core. They
// are registered with the default registry and served by the app's
// /metrics endpoint when the health server is enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesProcessed counts editor update cycles by event kind.
	CyclesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptgraph_cycles_processed_total",
		Help: "Total number of update cycles, labelled by event kind.",
	}, []string{"event"})

	// LinkClicks counts port clicks by the controller outcome they produced.
	LinkClicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptgraph_link_clicks_total",
		Help: "Port clicks fed to the link controller, labelled by outcome.",
	}, []string{"outcome"})

	// SweepPruned counts what sweeps removed, by kind of object.
	SweepPruned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptgraph_sweep_pruned_total",
		Help: "Objects removed by the consistency sweep, labelled by kind.",
	}, []string{"kind"})

	// ScriptRuns counts node script runs by status, succeeded or failed.
	ScriptRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptgraph_script_runs_total",
		Help: "Node script runs, labelled by status.",
	}, []string{"status"})

	// ScriptDuration observes evaluator wall time per run.
	ScriptDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scriptgraph_script_duration_seconds",
		Help:    "Wall time spent in the script evaluator per run.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	// ExpressionCache counts parse-cache lookups as hit or miss.
	ExpressionCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptgraph_expression_cache_total",
		Help: "Parsed-expression cache lookups, labelled by result.",
	}, []string{"result"})

	// GraphSize holds the node and link counts after the last sweep.
	GraphSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scriptgraph_graph_size",
		Help: "Current number of nodes and links after the last sweep.",
	}, []string{"kind"})
)
