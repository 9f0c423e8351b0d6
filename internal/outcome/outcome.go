// Package outcome holds the terminal classification of a test and the run
// summary built from those classifications.
package outcome

import (
	"sort"
	"time"

	"github.com/bartekus/conform/internal/metadata"
)

// Outcome is the terminal state of one test.
type Outcome string

const (
	Pass               Outcome = "Pass"
	PassNegative       Outcome = "PassNegative"
	LexingFailure      Outcome = "LexingFailure"
	CompilationFailure Outcome = "CompilationFailure"
	RunFailure         Outcome = "RunFailure"
	Crash              Outcome = "Crash"
	Timeout            Outcome = "Timeout"
)

// All lists every outcome; passing ones first.
func All() []Outcome {
	return []Outcome{Pass, PassNegative, LexingFailure, CompilationFailure, RunFailure, Crash, Timeout}
}

// Failures lists the non-pass outcomes.
func Failures() []Outcome {
	return All()[2:]
}

// Passed reports whether o counts as a pass.
func (o Outcome) Passed() bool {
	return o == Pass || o == PassNegative
}

// Expectable reports whether a negative test may turn o into PassNegative.
// Crashes and timeouts never can.
func (o Outcome) Expectable() bool {
	return o == LexingFailure || o == CompilationFailure || o == RunFailure
}

// Phase is the pipeline stage that produced an outcome.
type Phase string

const (
	PhaseBuild Phase = "build"
	PhaseRun   Phase = "run"
)

// Result is produced exactly once per executed test.
type Result struct {
	Path     string            `json:"path"`
	Rel      string            `json:"rel"`
	Metadata metadata.Metadata `json:"-"`
	Outcome  Outcome           `json:"outcome"`
	Phase    Phase             `json:"phase"`
	ExitCode int               `json:"exit_code"`
	Signal   string            `json:"signal,omitempty"`
	Stderr   string            `json:"stderr,omitempty"`
	Reason   string            `json:"reason,omitempty"`
	Negative bool              `json:"negative"`
	Duration time.Duration     `json:"duration"`

	// Artifact is the build output; it only exists until the batch is
	// cleaned up.
	Artifact string `json:"-"`
	// Source is the merged preamble and test body that was built.
	Source string `json:"-"`
}

// Summary accumulates results. It is owned by a single goroutine.
type Summary struct {
	Total   int             `json:"total"`
	Passed  int             `json:"passed"`
	Failed  map[Outcome]int `json:"failed"`
	Results []Result        `json:"results"`
}

func NewSummary() *Summary {
	return &Summary{Failed: make(map[Outcome]int)}
}

// Add records one result.
func (s *Summary) Add(r Result) {
	if s.Failed == nil {
		s.Failed = make(map[Outcome]int)
	}
	s.Total++
	if r.Outcome.Passed() {
		s.Passed++
	} else {
		s.Failed[r.Outcome]++
	}
	s.Results = append(s.Results, r)
}

// Merge folds another summary into s.
func (s *Summary) Merge(other *Summary) {
	for _, r := range other.Results {
		s.Add(r)
	}
}

// FailedTotal sums the per-outcome failure counts.
func (s *Summary) FailedTotal() int {
	n := 0
	for _, c := range s.Failed {
		n += c
	}
	return n
}

// OK reports whether every recorded test passed.
func (s *Summary) OK() bool {
	return s.FailedTotal() == 0
}

// FailedPaths returns the failing tests' paths in lexical order.
func (s *Summary) FailedPaths() []string {
	var paths []string
	for _, r := range s.Results {
		if !r.Outcome.Passed() {
			paths = append(paths, r.Path)
		}
	}
	sort.Strings(paths)
	return paths
}
