package engine

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/toolchain"
)

// classifyBuild maps a finished build to a failure outcome. ok is false
// when the build succeeded. A build killed by any signal is a crash.
func classifyBuild(exit toolchain.Exit) (o outcome.Outcome, reason string, ok bool) {
	switch {
	case exit.Signaled():
		return outcome.Crash, "build terminated by " + toolchain.SignalName(exit.Signal), true
	case firstLine(exit.Stderr) != "":
		return outcome.CompilationFailure, firstLine(exit.Stderr), true
	case exit.Code != 0:
		return outcome.LexingFailure, fmt.Sprintf("build exited with status %d", exit.Code), true
	}
	return "", "", false
}

// classifyRun maps a finished run to a failure outcome. Only memory faults
// count as crashes; an abort is an ordinary run failure.
func classifyRun(exit toolchain.Exit) (o outcome.Outcome, reason string, ok bool) {
	switch {
	case exit.Signaled() && toolchain.IsMemoryFault(exit.Signal):
		return outcome.Crash, "terminated by " + toolchain.SignalName(exit.Signal), true
	case exit.Signaled():
		return outcome.RunFailure, "terminated by " + toolchain.SignalName(exit.Signal), true
	case exit.Code != 0:
		reason := fmt.Sprintf("exited with status %d", exit.Code)
		if line := firstLine(exit.Stderr); line != "" {
			reason += ": " + line
		}
		return outcome.RunFailure, reason, true
	case firstLine(exit.Stderr) != "":
		return outcome.RunFailure, firstLine(exit.Stderr), true
	}
	return "", "", false
}

// expect turns an anticipated failure of a negative test into a pass.
// A failure caused by a signal only counts when it is a run-phase abort.
func expect(r outcome.Result) outcome.Result {
	if !r.Negative || !r.Outcome.Expectable() {
		return r
	}
	if r.Signal != "" && (r.Phase != outcome.PhaseRun || r.Signal != abortSignal) {
		return r
	}
	r.Outcome = outcome.PassNegative
	return r
}

var abortSignal = toolchain.SignalName(syscall.SIGABRT)

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
