// Package policy decides whether a failing test ends the run.
package policy

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/bartekus/conform/internal/outcome"
)

// Policy holds the enabled stop conditions. The zero value never stops.
type Policy struct {
	OnLexerCrash bool
	OnTestCrash  bool
	OnTestFail   bool

	when     *vm.Program
	whenText string
}

// New builds a policy. A non-empty when is compiled as a boolean expression
// over the failing test's result (see Env).
func New(onLexerCrash, onTestCrash, onTestFail bool, when string) (*Policy, error) {
	p := &Policy{
		OnLexerCrash: onLexerCrash,
		OnTestCrash:  onTestCrash,
		OnTestFail:   onTestFail,
	}
	when = strings.TrimSpace(when)
	if when == "" {
		return p, nil
	}
	program, err := expr.Compile(when, expr.Env(Env(outcome.Result{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile stop condition %q: %w", when, err)
	}
	p.when = program
	p.whenText = when
	return p, nil
}

// Enabled reports whether any stop condition is set.
func (p *Policy) Enabled() bool {
	return p != nil && (p.OnLexerCrash || p.OnTestCrash || p.OnTestFail || p.when != nil)
}

// Env is the variable set a stop condition is evaluated against.
func Env(r outcome.Result) map[string]interface{} {
	features := r.Metadata.Features
	if features == nil {
		features = []string{}
	}
	return map[string]interface{}{
		"outcome":   string(r.Outcome),
		"phase":     string(r.Phase),
		"path":      r.Path,
		"exit_code": r.ExitCode,
		"signal":    r.Signal,
		"stderr":    r.Stderr,
		"negative":  r.Negative,
		"features":  features,
	}
}

// Stops reports whether r triggers a stop, with the message to print.
// Passing results never stop the run. A crash while running the artifact
// also counts as a test failure.
func (p *Policy) Stops(r outcome.Result) (string, bool) {
	if p == nil || r.Outcome.Passed() {
		return "", false
	}
	switch {
	case p.OnLexerCrash && r.Outcome == outcome.LexingFailure:
		return "Stopping due to lexer crash", true
	case p.OnTestCrash && (r.Outcome == outcome.CompilationFailure || r.Outcome == outcome.Crash):
		return "Stopping due to test crash", true
	case p.OnTestFail && (r.Outcome == outcome.RunFailure || (r.Outcome == outcome.Crash && r.Phase == outcome.PhaseRun)):
		return "Stopping due to test failure", true
	}
	if p.when != nil {
		out, err := expr.Run(p.when, Env(r))
		if err != nil {
			return fmt.Sprintf("Stopping: stop condition %q failed: %v", p.whenText, err), true
		}
		if b, ok := out.(bool); ok && b {
			return fmt.Sprintf("Stopping due to stop condition %q", p.whenText), true
		}
	}
	return "", false
}
