// Package steps provides the execution paths the runner sequences: the
// reference harness and the candidate toolchain.
package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/bartekus/conform/internal/engine"
	"github.com/bartekus/conform/internal/reference"
	"github.com/bartekus/conform/internal/runner"
)

// ReferenceID identifies the reference step.
const ReferenceID = "reference"

// Reference runs the selection through the conformance harness on the
// reference interpreter.
type Reference struct {
	Harness *reference.Harness
}

func NewReference(h *reference.Harness) *Reference {
	return &Reference{Harness: h}
}

func (s *Reference) ID() string { return ReferenceID }

// Run hands every selected path to the harness in one invocation. The
// harness reports per-test results itself; only its exit status is kept.
func (s *Reference) Run(ctx context.Context, deps *runner.Deps) runner.StepResult {
	res := runner.StepResult{Step: ReferenceID, Total: len(deps.Selection.Tests)}
	if res.Total == 0 {
		res.Status = runner.StatusSkip
		res.Note = "no tests selected"
		return res
	}

	err := s.Harness.Run(ctx, deps.Selection.Paths())
	var exitErr *reference.ExitError
	switch {
	case err == nil:
		res.Status = runner.StatusPass
	case errors.As(err, &exitErr):
		res.Status = runner.StatusFail
		res.ExitCode = exitErr.Code
		res.Note = err.Error()
	default:
		res.Status = runner.StatusFail
		res.ExitCode = 1
		res.Note = err.Error()
		res.Err = &engine.FatalError{Op: "reference", Err: err}
	}
	if res.Status == runner.StatusPass {
		res.Note = fmt.Sprintf("%d tests delegated to %s", res.Total, s.Harness.Binary)
	}
	return res
}
