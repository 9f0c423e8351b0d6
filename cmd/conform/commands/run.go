package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/conform/cmd/conform/internal/clierr"
	"github.com/bartekus/conform/internal/config"
	"github.com/bartekus/conform/internal/console"
	"github.com/bartekus/conform/internal/engine"
	"github.com/bartekus/conform/internal/logging"
	"github.com/bartekus/conform/internal/policy"
	"github.com/bartekus/conform/internal/projection"
	"github.com/bartekus/conform/internal/reference"
	"github.com/bartekus/conform/internal/report"
	"github.com/bartekus/conform/internal/runner"
	"github.com/bartekus/conform/internal/selector"
	"github.com/bartekus/conform/internal/steps"
	"github.com/bartekus/conform/internal/toolchain"
)

type runOptions struct {
	reference bool
	candidate bool
	rescan    bool
	resume    bool
	export    bool
	quiet     bool

	toolchain      string
	exportDir      string
	junit          string
	recordFailures string
	jobs           int
	timeout        string

	stopOnLexerCrash bool
	stopOnTestCrash  bool
	stopOnTestFail   bool
	stopWhen         string
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, g, args)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&o.reference, "reference", "n", false, "run only the reference harness")
	f.BoolVarP(&o.candidate, "candidate", "j", false, "run only the candidate toolchain")
	f.BoolVarP(&o.rescan, "rescan", "e", false, "ignore the selection cache and rescan the corpus")
	f.BoolVar(&o.resume, "resume", false, "rerun only the steps and tests that failed in the last run")
	f.BoolVar(&o.export, "export", false, "export sources, report.csv and an archive")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "do not print PASSED lines")
	f.StringVar(&o.toolchain, "toolchain", config.DefaultToolchain, "candidate toolchain executable")
	f.StringVar(&o.exportDir, "export-dir", config.DefaultExportDir, "export directory")
	f.StringVar(&o.junit, "junit", "", "write a JUnit XML report to this file")
	f.StringVar(&o.recordFailures, "record-failures", "", "write failing test paths to this file, one per line")
	f.IntVar(&o.jobs, "jobs", 0, "tests per batch (default number of CPUs)")
	f.StringVar(&o.timeout, "timeout", config.DefaultTimeout, "per-phase timeout")
	f.BoolVar(&o.stopOnLexerCrash, "stop-on-lexer-crash", false, "stop at the first lexing failure")
	f.BoolVar(&o.stopOnTestCrash, "stop-on-test-crash", false, "stop at the first compilation failure or crash")
	f.BoolVar(&o.stopOnTestFail, "stop-on-test-fail", false, "stop at the first run failure")
	f.StringVar(&o.stopWhen, "stop-when", "", "stop when this expression over a result is true")
	cmd.MarkFlagsMutuallyExclusive("reference", "candidate")

	return cmd
}

// apply copies the flags the user set over the configuration.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("toolchain") {
		cfg.Toolchain = o.toolchain
	}
	if f.Changed("export-dir") {
		cfg.ExportDir = o.exportDir
	}
	if f.Changed("jobs") {
		if o.jobs < 0 {
			return clierr.Newf(clierr.ExitFatal, "--jobs must not be negative, got %d", o.jobs)
		}
		cfg.Jobs = o.jobs
	}
	if f.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if f.Changed("stop-when") {
		cfg.Stop.When = o.stopWhen
	}
	cfg.Stop.OnLexerCrash = cfg.Stop.OnLexerCrash || o.stopOnLexerCrash
	cfg.Stop.OnTestCrash = cfg.Stop.OnTestCrash || o.stopOnTestCrash
	cfg.Stop.OnTestFail = cfg.Stop.OnTestFail || o.stopOnTestFail

	_, err := cfg.TimeoutDuration()
	return err
}

func (o *runOptions) run(cmd *cobra.Command, g *globalOptions, args []string) error {
	ctx := cmd.Context()
	cfg, err := g.load(cmd)
	if err != nil {
		return err
	}
	if err := o.apply(cmd, cfg); err != nil {
		return err
	}
	logger := g.logger(cmd.ErrOrStderr())
	con := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	con.Quiet = o.quiet

	corpus := corpusArg(cfg, args)
	runReference, runCandidate := !o.candidate, !o.reference

	// Every required tool is checked before any test runs.
	if err := checkCorpus(corpus); err != nil {
		return err
	}
	var harness *reference.Harness
	if runReference {
		harness = reference.New(cfg.Harness, cfg.HarnessThreads)
		harness.Stdout, harness.Stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
		if !harness.Available(ctx) {
			return &engine.FatalError{Op: "reference", Path: harness.Binary, Err: errors.New("harness not available (`--help` failed)")}
		}
	}
	if runCandidate {
		if err := checkTool(cfg.Toolchain); err != nil {
			return &engine.FatalError{Op: "toolchain", Path: cfg.Toolchain, Err: err}
		}
	}

	var seq []runner.Step
	if runReference {
		seq = append(seq, steps.NewReference(harness))
	}
	if runCandidate {
		step, err := o.candidateStep(cfg, corpus, con, logger)
		if err != nil {
			return err
		}
		seq = append(seq, step)
	}

	store := runner.NewStateStore(cfg.StateDir)
	sel, err := selectTests(ctx, cfg, corpus, store, o.rescan, logger)
	if err != nil {
		return err
	}
	var ids []string
	if o.resume {
		last, err := store.ReadLastRun()
		if err != nil {
			return err
		}
		ids = resumeSteps(last, seq)
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to resume.")
			return nil
		}
		if len(last.FailedTests) > 0 {
			sel = onlyFailed(sel, last.FailedTests)
		}
	}
	logger.Printf("%d tests selected under %s", len(sel.Tests), corpus)

	deps := &runner.Deps{Selection: sel, StateDir: cfg.StateDir, Logger: logger}
	r := runner.NewRunner(seq, store, deps)
	var runErr error
	if ids != nil {
		runErr = r.RunList(ctx, ids)
	} else {
		runErr = r.RunAll(ctx)
	}

	if o.recordFailures != "" {
		if err := recordFailures(store, o.recordFailures); err != nil {
			con.Warn("recording failures: %v", err)
		}
	}
	return runErr
}

func (o *runOptions) candidateStep(cfg *config.Config, corpus string, con *console.Console, logger logging.Logger) (*steps.Candidate, error) {
	tc := toolchain.NewCandidate(cfg.Toolchain)
	if cfg.BuildArgs != nil {
		tc.BuildArgs = cfg.BuildArgs
	}
	if cfg.RunArgs != nil {
		tc.RunArgs = cfg.RunArgs
	}

	p, err := policy.New(cfg.Stop.OnLexerCrash, cfg.Stop.OnTestCrash, cfg.Stop.OnTestFail, cfg.Stop.When)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	var preamble string
	if cfg.Preamble != "" {
		data, err := os.ReadFile(cfg.Preamble)
		if err != nil {
			return nil, &engine.FatalError{Op: "preamble", Path: cfg.Preamble, Err: err}
		}
		preamble = string(data)
	}

	info := report.Info{
		Toolchain: cfg.Toolchain,
		Target:    cfg.TargetEdition,
		Corpus:    corpus,
	}
	step := &steps.Candidate{Console: con, Info: info}
	reporters := []engine.Reporter{con}
	if o.export {
		step.Exporter = report.NewExporter(cfg.ExportDir, tc, logger)
		reporters = append(reporters, step.Exporter)
	}
	if o.junit != "" {
		step.JUnit = report.NewJUnitWriter(o.junit, map[string]string{
			"toolchain": cfg.Toolchain,
			"target":    targetOf(cfg).String(),
			"corpus":    corpus,
		})
		reporters = append(reporters, step.JUnit)
	}

	step.Engine = engine.New(tc, p, engine.Options{
		Parallelism: cfg.Jobs,
		Timeout:     timeout,
		Preamble:    preamble,
		IncludesDir: cfg.IncludesDir,
		FailedDir:   cfg.FailedDir,
		Logger:      logger,
	}, reporters...)
	return step, nil
}

// checkTool accepts a path to an existing file or a command found on PATH.
func checkTool(name string) error {
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		info, err := os.Stat(name)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", name)
		}
		return nil
	}
	_, err := exec.LookPath(name)
	return err
}

// resumeSteps returns the IDs of the steps in seq that failed in the last
// run, in sequence order.
func resumeSteps(last *runner.LastRun, seq []runner.Step) []string {
	if last == nil {
		return nil
	}
	failed := make(map[string]bool, len(last.Failed))
	for _, id := range last.Failed {
		failed[id] = true
	}
	var ids []string
	for _, s := range seq {
		if failed[s.ID()] {
			ids = append(ids, s.ID())
		}
	}
	return ids
}

func onlyFailed(sel selector.Selection, failed []string) selector.Selection {
	keep := make(map[string]bool, len(failed))
	for _, p := range failed {
		keep[p] = true
	}
	tests := sel.Tests[:0:0]
	for _, t := range sel.Tests {
		if keep[t.Path] {
			tests = append(tests, t)
		}
	}
	sel.Tests = tests
	return sel
}

func recordFailures(store *runner.StateStore, path string) error {
	failed, err := store.LoadFailedTests()
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, p := range failed {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return projection.AtomicWrite(path, []byte(b.String()))
}

