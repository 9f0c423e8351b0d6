package runner

import (
	"context"

	"github.com/bartekus/conform/internal/logging"
	"github.com/bartekus/conform/internal/selector"
)

// Deps contains what every step shares.
type Deps struct {
	Selection selector.Selection
	StateDir  string
	Logger    logging.Logger
}

// Step is one execution path over the selection, e.g. the reference
// harness or the candidate toolchain.
type Step interface {
	// ID returns the unique identifier (e.g. "candidate").
	ID() string

	// Run executes the step.
	Run(ctx context.Context, deps *Deps) StepResult
}
