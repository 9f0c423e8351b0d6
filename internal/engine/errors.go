package engine

import (
	"fmt"
	"strings"
)

// FatalError aborts the whole run. It is never a test outcome.
type FatalError struct {
	Op   string
	Path string
	Err  error
}

func (e *FatalError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// StopError reports that a stop policy ended the run.
type StopError struct {
	Message string
	Path    string
	// FailedSource is the persisted copy of the merged source.
	FailedSource string
	// FailedArtifact is the persisted build output, if one was produced.
	FailedArtifact string
	// Repro holds the command lines that reproduce the failure.
	Repro []string
}

func (e *StopError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString(": ")
	b.WriteString(e.Path)
	return b.String()
}
