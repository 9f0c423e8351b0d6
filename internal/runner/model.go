package runner

// StepStatus represents the outcome of a step execution.
type StepStatus string

const (
	StatusPass StepStatus = "pass"
	StatusFail StepStatus = "fail"
	StatusSkip StepStatus = "skip"
)

// StepResult represents the result of a single step.
// Stored as <state>/steps/<step>.json.
type StepResult struct {
	Step     string     `json:"step"`
	Status   StepStatus `json:"status"`
	ExitCode int        `json:"exit_code"`
	Note     string     `json:"note,omitempty"`

	Total  int      `json:"total"`
	Passed int      `json:"passed"`
	Failed []string `json:"failed,omitempty"`

	// Stopped is set when a stop policy ended the step early.
	Stopped bool `json:"stopped,omitempty"`

	// Err aborts the remaining steps. It is not persisted.
	Err error `json:"-"`
}

// LastRun represents the summary of the last execution.
// Stored as <state>/last-run.json.
type LastRun struct {
	Status string   `json:"status"` // "pass" or "fail"
	Corpus string   `json:"corpus"`
	Target string   `json:"target"`
	Steps  []string `json:"steps"`  // Ordered list of steps run
	Failed []string `json:"failed"` // Steps that failed
	// FailedTests lists the failing test paths across all steps.
	FailedTests []string `json:"failed_tests,omitempty"`
	Stopped     bool     `json:"stopped,omitempty"`
}

// CachedSelection is the persisted test selection.
// Stored as <state>/selection.yaml.
type CachedSelection struct {
	Root   string   `yaml:"root"`
	Target string   `yaml:"target"`
	Tests  []string `yaml:"tests"`
}
