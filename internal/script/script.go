package script

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// NamedValues maps names to values, both for bindings and results.
type NamedValues map[string]cty.Value

// Binding is one input name with the value bound to it.
type Binding struct {
	Name  string
	Value cty.Value
}

// Evaluator runs a script against a set of bindings. Implementations must
// not retain state between calls.
type Evaluator interface {
	Evaluate(ctx context.Context, source string, bindings NamedValues) (NamedValues, error)
}

// References lists what a script refers to.
type References struct {
	Variables []string
	Functions []string
}

// Inspector is implemented by evaluators that can analyze a script without
// running it.
type Inspector interface {
	Inspect(source string) (References, error)
}

// Phase is the evaluation stage at which a script failed.
type Phase string

const (
	// PhaseParse means the source text is not a valid script.
	PhaseParse Phase = "parse"
	// PhaseEvaluate means the script parsed but failed while running.
	PhaseEvaluate Phase = "evaluate"
	// PhaseResult means the script ran but did not yield named values.
	PhaseResult Phase = "result"
)

// EvalError is the error class for all script failures.
type EvalError struct {
	Phase Phase
	Err   error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("script %s failed: %v", e.Phase, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
