package hclscript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/scriptgraph/internal/ctxlog"
	"github.com/specialistvlad/scriptgraph/internal/metrics"
	"github.com/specialistvlad/scriptgraph/internal/script"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// DefaultCacheSize is the number of parsed scripts kept when no size is given.
const DefaultCacheSize = 256

const filename = "script.hcl"

var (
	// ErrEmptyScript is returned for a source that is blank.
	ErrEmptyScript = errors.New("script is empty")
	// ErrNotLiteral is returned by ParseLiteral when the text refers to a variable.
	ErrNotLiteral = errors.New("constant must not reference variables")
)

// Engine evaluates HCL expression scripts. It is safe for concurrent use;
// the only shared state is the parse cache.
type Engine struct {
	functions map[string]function.Function
	cache     *lru.Cache[string, hclsyntax.Expression]
}

var (
	_ script.Evaluator = (*Engine)(nil)
	_ script.Inspector = (*Engine)(nil)
)

// New creates an engine whose parse cache holds up to cacheSize scripts.
// A size of zero or less selects DefaultCacheSize.
func New(cacheSize int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, hclsyntax.Expression](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create expression cache: %w", err)
	}
	return &Engine{functions: functions(), cache: cache}, nil
}

// Functions returns the names of the functions available to scripts.
func (e *Engine) Functions() []string {
	set := make(map[string]struct{}, len(e.functions))
	for name := range e.functions {
		set[name] = struct{}{}
	}
	return sortedSet(set)
}

// Evaluate runs source with bindings as its only variables. The result
// must be a known, non-null object or map.
func (e *Engine) Evaluate(ctx context.Context, source string, bindings script.NamedValues) (script.NamedValues, error) {
	logger := ctxlog.FromContext(ctx)

	expr, err := e.parse(source)
	if err != nil {
		return nil, err
	}

	vars := make(map[string]cty.Value, len(bindings))
	for name, v := range bindings {
		vars[name] = v
	}
	evalCtx := &hcl.EvalContext{Variables: vars, Functions: e.functions}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, &script.EvalError{Phase: script.PhaseEvaluate, Err: diags}
	}

	result, err := unpackResult(val)
	if err != nil {
		return nil, &script.EvalError{Phase: script.PhaseResult, Err: err}
	}
	logger.Debug("Script evaluated.", "keys", len(result))
	return result, nil
}

// ParseLiteral parses text as a constant such as 3, "text", true, [1, 2]
// or { a = 1 }. Function calls are allowed; variable references are not.
func (e *Engine) ParseLiteral(text string) (cty.Value, error) {
	expr, err := e.parse(text)
	if err != nil {
		return cty.NilVal, err
	}
	if vars := expr.Variables(); len(vars) > 0 {
		return cty.NilVal, fmt.Errorf("%w: %s", ErrNotLiteral, vars[0].RootName())
	}
	val, diags := expr.Value(&hcl.EvalContext{Functions: e.functions})
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if !val.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("constant %q is not known", text)
	}
	return val, nil
}

// parse returns the syntax tree for source, from the cache when possible.
func (e *Engine) parse(source string) (hclsyntax.Expression, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &script.EvalError{Phase: script.PhaseParse, Err: ErrEmptyScript}
	}
	if expr, ok := e.cache.Get(source); ok {
		metrics.ExpressionCache.WithLabelValues("hit").Inc()
		return expr, nil
	}
	metrics.ExpressionCache.WithLabelValues("miss").Inc()

	expr, diags := hclsyntax.ParseExpression([]byte(source), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, &script.EvalError{Phase: script.PhaseParse, Err: diags}
	}
	e.cache.Add(source, expr)
	return expr, nil
}

// CacheLen reports how many parsed scripts are cached.
func (e *Engine) CacheLen() int { return e.cache.Len() }

func unpackResult(val cty.Value) (script.NamedValues, error) {
	if val.IsNull() {
		return nil, errors.New("script returned null")
	}
	if !val.IsWhollyKnown() {
		return nil, errors.New("script result is not fully known")
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("script must return an object, got %s", ty.FriendlyName())
	}

	out := make(script.NamedValues, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		out[k.AsString()] = v
	}
	return out, nil
}
