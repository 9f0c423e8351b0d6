package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bartekus/conform/internal/logging"
)

// ErrFailed is returned when at least one step failed.
var ErrFailed = errors.New("run failed")

// Runner manages the execution of steps.
type Runner struct {
	steps []Step
	store *StateStore
	deps  *Deps
}

// NewRunner creates a new runner with the given steps and dependencies.
func NewRunner(steps []Step, store *StateStore, deps *Deps) *Runner {
	if deps.Logger == nil {
		deps.Logger = logging.Null()
	}
	return &Runner{
		steps: steps,
		store: store,
		deps:  deps,
	}
}

// RunAll executes all steps in order.
// A failing step does not prevent later ones from running; a step that
// returns Err does. The error is ErrFailed-wrapping when any step failed,
// or the step's Err when one aborted the run.
func (r *Runner) RunAll(ctx context.Context) error {
	return r.executeSequence(ctx, r.steps)
}

// RunList executes a specific list of step IDs.
func (r *Runner) RunList(ctx context.Context, ids []string) error {
	var toRun []Step
	for _, id := range ids {
		s := r.findStep(id)
		if s == nil {
			return fmt.Errorf("step not found: %s", id)
		}
		toRun = append(toRun, s)
	}
	return r.executeSequence(ctx, toRun)
}

func (r *Runner) findStep(id string) Step {
	for _, s := range r.steps {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

func (r *Runner) executeSequence(ctx context.Context, steps []Step) error {
	sel := r.deps.Selection
	lastRun := LastRun{
		Status: "pass",
		Corpus: sel.Root,
		Target: sel.Target.String(),
	}
	failedTests := map[string]bool{}
	var abort error

	for _, step := range steps {
		id := step.ID()
		lastRun.Steps = append(lastRun.Steps, id)
		r.deps.Logger.Printf("step %s: %d tests", id, len(sel.Tests))

		res := step.Run(ctx, r.deps)
		if res.Step == "" {
			res.Step = id
		}

		if err := r.store.WriteStepResult(res); err != nil {
			return fmt.Errorf("writing result for %s: %w", id, err)
		}

		switch res.Status {
		case StatusSkip:
			r.deps.Logger.Printf("step %s skipped: %s", id, res.Note)
		case StatusPass:
			r.deps.Logger.Printf("step %s passed", id)
		default:
			lastRun.Status = "fail"
			lastRun.Failed = append(lastRun.Failed, id)
			for _, p := range res.Failed {
				failedTests[p] = true
			}
			r.deps.Logger.Printf("step %s failed (exit %d)", id, res.ExitCode)
		}
		if res.Stopped {
			lastRun.Stopped = true
		}
		if res.Err != nil {
			abort = res.Err
			break
		}
	}

	for p := range failedTests {
		lastRun.FailedTests = append(lastRun.FailedTests, p)
	}
	sort.Strings(lastRun.FailedTests)

	if err := r.store.WriteLastRun(lastRun); err != nil {
		return fmt.Errorf("writing last run: %w", err)
	}

	if abort != nil {
		return abort
	}
	if lastRun.Status != "pass" {
		return fmt.Errorf("%w: %v", ErrFailed, lastRun.Failed)
	}
	return nil
}
