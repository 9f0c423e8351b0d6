// Package config loads the optional .conform.yaml file. Flags given on the
// command line override what it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/conform/internal/edition"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = ".conform.yaml"

// Constants for default values.
const (
	DefaultCorpus         = "./test262/test"
	DefaultToolchain      = "./js_cmp"
	DefaultTimeout        = "10s"
	DefaultTargetEdition  = "ES5"
	DefaultStateDir       = ".conform"
	DefaultFailedDir      = "failed_tests"
	DefaultExportDir      = "export"
	DefaultHarness        = "test262-harness"
	DefaultHarnessThreads = 11
)

// Stop configures the stop policies.
type Stop struct {
	OnLexerCrash bool   `yaml:"on_lexer_crash" json:"on_lexer_crash,omitempty"`
	OnTestCrash  bool   `yaml:"on_test_crash" json:"on_test_crash,omitempty"`
	OnTestFail   bool   `yaml:"on_test_fail" json:"on_test_fail,omitempty"`
	When         string `yaml:"when" json:"when,omitempty" jsonschema:"description=Boolean expression over outcome/phase/path/exit_code/signal/stderr/negative/features that stops the run when true"`
}

// Config is the content of .conform.yaml.
type Config struct {
	Corpus         string   `yaml:"corpus" json:"corpus,omitempty" jsonschema:"description=Corpus directory or single test file"`
	Toolchain      string   `yaml:"toolchain" json:"toolchain,omitempty"`
	BuildArgs      []string `yaml:"build_args" json:"build_args,omitempty" jsonschema:"description=Build arguments after the toolchain path; {source} and {output} are expanded"`
	RunArgs        []string `yaml:"run_args" json:"run_args,omitempty" jsonschema:"description=Full run command; {output} is expanded"`
	Timeout        string   `yaml:"timeout" json:"timeout,omitempty" jsonschema:"pattern=^([0-9]+(\\.[0-9]+)?(ns|us|ms|s|m|h))+$"`
	Jobs           int      `yaml:"jobs" json:"jobs,omitempty" jsonschema:"minimum=0,description=Tests per batch; 0 uses the number of CPUs"`
	TargetEdition  string   `yaml:"target_edition" json:"target_edition,omitempty"`
	StateDir       string   `yaml:"state_dir" json:"state_dir,omitempty"`
	FailedDir      string   `yaml:"failed_dir" json:"failed_dir,omitempty"`
	ExportDir      string   `yaml:"export_dir" json:"export_dir,omitempty"`
	Harness        string   `yaml:"harness" json:"harness,omitempty"`
	HarnessThreads int      `yaml:"harness_threads" json:"harness_threads,omitempty" jsonschema:"minimum=1"`
	Preamble       string   `yaml:"preamble" json:"preamble,omitempty" jsonschema:"description=File replacing the built-in runtime preamble"`
	IncludesDir    string   `yaml:"includes_dir" json:"includes_dir,omitempty" jsonschema:"description=Directory holding helper files named by a test's includes"`
	Stop           Stop     `yaml:"stop" json:"stop,omitempty"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Corpus:         DefaultCorpus,
		Toolchain:      DefaultToolchain,
		Timeout:        DefaultTimeout,
		TargetEdition:  DefaultTargetEdition,
		StateDir:       DefaultStateDir,
		FailedDir:      DefaultFailedDir,
		ExportDir:      DefaultExportDir,
		Harness:        DefaultHarness,
		HarnessThreads: DefaultHarnessThreads,
	}
}

// Load reads path over the defaults. An empty path means DefaultPath, whose
// absence is not an error; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := cfg.Edition(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// TimeoutDuration parses Timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return d, nil
}

// Edition parses TargetEdition.
func (c *Config) Edition() (edition.Edition, error) {
	return edition.Parse(c.TargetEdition)
}
