package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/toolchain"
)

// execute drives one prepared test through build and run. A returned error
// means the test has no outcome: either ctx was cancelled or the toolchain
// could not be started at all.
func (e *Engine) execute(ctx context.Context, j *job) (outcome.Result, error) {
	md := j.test.Metadata
	r := outcome.Result{
		Path:     j.test.Path,
		Rel:      j.test.Rel,
		Metadata: md,
		Negative: md.Negative != nil,
		Phase:    outcome.PhaseBuild,
		Source:   j.source,
	}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return r, err
	}

	p, err := e.tc.StartBuild(j.source, j.output)
	if err != nil {
		return r, &FatalError{Op: "build", Path: j.test.Path, Err: err}
	}
	exit, err := toolchain.Await(ctx, p, e.opts.Timeout)
	if done, err := e.settle(&r, exit, err); err != nil {
		return r, err
	} else if done {
		return e.finish(r, start), nil
	}
	if o, reason, failed := classifyBuild(exit); failed {
		r.Outcome, r.Reason = o, reason
		return e.finish(r, start), nil
	}

	r.Phase = outcome.PhaseRun
	if _, err := os.Stat(j.output); err != nil {
		r.Outcome, r.Reason = outcome.RunFailure, "build produced no artifact"
		return e.finish(r, start), nil
	}
	r.Artifact = j.output

	p, err = e.tc.StartRun(j.output)
	if err != nil {
		r.Outcome, r.Reason = outcome.RunFailure, err.Error()
		return e.finish(r, start), nil
	}
	exit, err = toolchain.Await(ctx, p, e.opts.Timeout)
	if done, err := e.settle(&r, exit, err); err != nil {
		return r, err
	} else if done {
		return e.finish(r, start), nil
	}
	if o, reason, failed := classifyRun(exit); failed {
		r.Outcome, r.Reason = o, reason
		return e.finish(r, start), nil
	}

	if md.Negative != nil {
		r.Outcome = outcome.RunFailure
		r.Reason = fmt.Sprintf("expected %s %s", md.Negative.Phase, md.Negative.Type)
		return e.finish(r, start), nil
	}
	r.Outcome = outcome.Pass
	return e.finish(r, start), nil
}

// settle records the process exit on r. done is true when the phase timed
// out and r is terminal.
func (e *Engine) settle(r *outcome.Result, exit toolchain.Exit, err error) (done bool, _ error) {
	switch {
	case errors.Is(err, toolchain.ErrTimedOut):
		r.Outcome = outcome.Timeout
		r.Reason = fmt.Sprintf("exceeded %s during %s", e.opts.Timeout, r.Phase)
		return true, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false, err
	case err != nil:
		return false, &FatalError{Op: string(r.Phase), Path: r.Path, Err: err}
	}
	r.ExitCode = exit.Code
	r.Signal = toolchain.SignalName(exit.Signal)
	r.Stderr = exit.Stderr
	return false, nil
}

func (e *Engine) finish(r outcome.Result, start time.Time) outcome.Result {
	r = expect(r)
	r.Duration = time.Since(start)
	e.opts.Logger.Printf("%s: %s (%s) in %s", r.Rel, r.Outcome, r.Phase, r.Duration)
	return r
}
