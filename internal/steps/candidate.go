package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/bartekus/conform/internal/console"
	"github.com/bartekus/conform/internal/engine"
	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/report"
	"github.com/bartekus/conform/internal/runner"
)

// CandidateID identifies the candidate step.
const CandidateID = "candidate"

// Candidate runs the selection through the candidate toolchain. The engine
// must have been created with the console, the exporter and the JUnit writer
// as reporters; Candidate finishes them once the engine returns.
type Candidate struct {
	Engine   *engine.Engine
	Console  *console.Console
	Exporter *report.Exporter    // optional
	JUnit    *report.JUnitWriter // optional
	Info     report.Info
}

func (s *Candidate) ID() string { return CandidateID }

// Run executes the engine. A stop trigger still produces the summary and the
// export of what ran; a fatal error or cancellation does not.
func (s *Candidate) Run(ctx context.Context, deps *runner.Deps) runner.StepResult {
	summary, err := s.Engine.Run(ctx, deps.Selection.Tests)

	res := runner.StepResult{
		Step:   CandidateID,
		Total:  summary.Total,
		Passed: summary.Passed,
		Failed: summary.FailedPaths(),
		Err:    err,
	}

	info := s.Info
	var stop *engine.StopError
	if errors.As(err, &stop) {
		res.Stopped = true
		info.Stopped = stop.Message
		s.Console.Stopped(stop)
	}

	if err == nil || res.Stopped {
		s.Console.Summary(summary)
		s.finish(deps, summary, info)
	}

	res.Note = fmt.Sprintf("%d/%d passed", summary.Passed, summary.Total)
	if err == nil && summary.OK() {
		res.Status = runner.StatusPass
	} else {
		res.Status = runner.StatusFail
		res.ExitCode = 1
	}
	if err != nil && !res.Stopped {
		res.Note = err.Error()
	}
	return res
}

// finish writes the export and the JUnit report. Their failures are shown
// but do not change the step status.
func (s *Candidate) finish(deps *runner.Deps, summary *outcome.Summary, info report.Info) {
	if s.Exporter != nil {
		paths, err := s.Exporter.Finish(summary, info)
		if err != nil {
			s.Console.Warn("export failed: %v", err)
		} else {
			deps.Logger.Printf("exported %s and %s", paths.CSV, paths.Archive)
		}
	}
	if s.JUnit != nil {
		if err := s.JUnit.Write(); err != nil {
			s.Console.Warn("junit report failed: %v", err)
		}
	}
}
