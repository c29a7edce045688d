package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/graphid"
	"github.com/specialistvlad/scriptgraph/internal/metrics"
	"github.com/specialistvlad/scriptgraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Unbound is the value bound to an input that has never received one.
var Unbound = cty.NullVal(cty.DynamicPseudoType)

// Report summarizes one run.
type Report struct {
	Node graphid.NodeID
	// Updated lists the output ports that received a value, in port order.
	Updated []graphid.PortID
	// Unmatched lists output names the result had no entry for.
	Unmatched []string
	// Err is the swallowed evaluator failure, if any.
	Err error
}

// Failed reports whether the evaluator failed.
func (r Report) Failed() bool { return r.Err != nil }

// Bridge runs node scripts through an Evaluator.
type Bridge struct {
	eval Evaluator
}

// NewBridge creates a bridge over eval.
func NewBridge(eval Evaluator) *Bridge {
	return &Bridge{eval: eval}
}

// Bindings returns the node's inputs in port order with their current values.
func Bindings(n *node.Node) []Binding {
	ports := n.Inputs.Ports()
	out := make([]Binding, 0, len(ports))
	for _, p := range ports {
		v, ok := p.Value()
		if !ok {
			v = Unbound
		}
		out = append(out, Binding{Name: p.Name, Value: v})
	}
	return out
}

// Run evaluates n's source and writes matching outputs. It never panics and
// never returns an error; failures are reported in the Report.
func (b *Bridge) Run(ctx context.Context, n *node.Node) Report {
	logger := ctxlog.FromContext(ctx).With("node_id", n.ID.String(), "node_name", n.Name)
	report := Report{Node: n.ID}
	started := time.Now()

	// Later bindings win when two inputs share a name.
	vars := make(NamedValues)
	for _, bnd := range Bindings(n) {
		vars[bnd.Name] = bnd.Value
	}
	b.logUnbound(ctx, n.Source, vars)

	result, err := b.evaluate(ctx, n.Source, vars)
	metrics.ScriptDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		report.Err = err
		metrics.ScriptRuns.WithLabelValues("failed").Inc()
		logger.Warn("Script run failed, outputs left unchanged.", "error", err)
		return report
	}

	for _, p := range n.Outputs.Ports() {
		v, ok := result[p.Name]
		if !ok {
			report.Unmatched = append(report.Unmatched, p.Name)
			continue
		}
		p.SetValue(v)
		report.Updated = append(report.Updated, p.ID)
	}
	metrics.ScriptRuns.WithLabelValues("succeeded").Inc()
	logger.Debug("Script run finished.", "updated", len(report.Updated), "unmatched", report.Unmatched)
	return report
}

// evaluate shields the caller from evaluator panics.
func (b *Bridge) evaluate(ctx context.Context, source string, vars NamedValues) (result NamedValues, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &EvalError{Phase: PhaseEvaluate, Err: fmt.Errorf("evaluator panicked: %v", r)}
		}
	}()
	result, err = b.eval.Evaluate(ctx, source, vars)
	if err != nil {
		var evalErr *EvalError
		if !errors.As(err, &evalErr) {
			err = &EvalError{Phase: PhaseEvaluate, Err: err}
		}
		return nil, err
	}
	return result, nil
}

func (b *Bridge) logUnbound(ctx context.Context, source string, vars NamedValues) {
	inspector, ok := b.eval.(Inspector)
	if !ok {
		return
	}
	refs, err := inspector.Inspect(source)
	if err != nil {
		return
	}
	var unbound []string
	for _, name := range refs.Variables {
		if _, bound := vars[name]; !bound {
			unbound = append(unbound, name)
		}
	}
	if len(unbound) > 0 {
		ctxlog.FromContext(ctx).Debug("Script references names with no input port.", "names", unbound)
	}
}
