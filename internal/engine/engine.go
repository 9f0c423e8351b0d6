// Package engine runs selected tests through the candidate toolchain in
// sequential batches of concurrent tests.
package engine

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bartekus/conform/internal/logging"
	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/policy"
	"github.com/bartekus/conform/internal/selector"
	"github.com/bartekus/conform/internal/toolchain"
)

//go:embed preamble.js
var defaultPreamble string

// DefaultPreamble returns the runtime support prepended to every test.
func DefaultPreamble() string {
	return defaultPreamble
}

const (
	DefaultTimeout   = 10 * time.Second
	DefaultFailedDir = "failed_tests"
)

// Options tune an Engine. Zero values select the defaults.
type Options struct {
	Parallelism int
	Timeout     time.Duration
	Preamble    string
	// IncludesDir, when set, is where helper files named by a test's
	// includes are read from; they are appended after the preamble.
	IncludesDir string
	FailedDir   string
	TempDir     string
	Logger      logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.NumCPU()
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Preamble == "" {
		o.Preamble = defaultPreamble
	}
	if o.FailedDir == "" {
		o.FailedDir = DefaultFailedDir
	}
	if o.Logger == nil {
		o.Logger = logging.Null()
	}
	return o
}

// Reporter observes results. TestFinished is called from the run loop, one
// result at a time, while the test's artifact still exists.
type Reporter interface {
	TestFinished(r outcome.Result)
}

// Engine executes tests.
type Engine struct {
	tc        toolchain.Toolchain
	policy    *policy.Policy
	opts      Options
	reporters []Reporter
}

// New creates an engine. policy may be nil.
func New(tc toolchain.Toolchain, p *policy.Policy, opts Options, reporters ...Reporter) *Engine {
	return &Engine{
		tc:        tc,
		policy:    p,
		opts:      opts.withDefaults(),
		reporters: reporters,
	}
}

// Parallelism is the batch size in use.
func (e *Engine) Parallelism() int {
	return e.opts.Parallelism
}

// Run executes tests batch by batch. A batch starts only after the previous
// one has been cleaned up. On a stop trigger the summary covers the tests
// that completed and the error is a *StopError.
func (e *Engine) Run(ctx context.Context, tests []selector.SelectedTest) (*outcome.Summary, error) {
	total := outcome.NewSummary()
	size := e.opts.Parallelism
	for start := 0; start < len(tests); start += size {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		end := min(start+size, len(tests))
		e.opts.Logger.Printf("batch %d-%d of %d", start+1, end, len(tests))

		batch, err := e.runBatch(ctx, tests[start:end])
		if batch != nil {
			total.Merge(batch)
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type job struct {
	test   selector.SelectedTest
	dir    string
	source string
	output string
}

func (e *Engine) runBatch(ctx context.Context, tests []selector.SelectedTest) (*outcome.Summary, error) {
	var jobs []*job
	defer func() {
		for _, j := range jobs {
			if err := os.RemoveAll(j.dir); err != nil {
				e.opts.Logger.Printf("cleanup %s: %v", j.dir, err)
			}
		}
	}()

	for _, t := range tests {
		j, err := e.prepare(t)
		if j != nil {
			jobs = append(jobs, j)
		}
		if err != nil {
			return nil, &FatalError{Op: "prepare", Path: t.Path, Err: err}
		}
	}

	bctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		once    sync.Once
		stopIdx = -1
		stopMsg string
		results = make([]outcome.Result, len(jobs))
		errs    = make([]error, len(jobs))
	)
	for i, j := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := e.execute(bctx, j)
			if err != nil {
				errs[i] = err
				if !errors.Is(err, context.Canceled) {
					cancel()
				}
				return
			}
			results[i] = r
			if msg, ok := e.policy.Stops(r); ok {
				once.Do(func() {
					stopIdx, stopMsg = i, msg
					cancel()
				})
			}
		}()
	}
	wg.Wait()

	summary := outcome.NewSummary()
	for i := range jobs {
		if errs[i] != nil {
			continue
		}
		summary.Add(results[i])
		for _, rep := range e.reporters {
			rep.TestFinished(results[i])
		}
	}

	if stopIdx >= 0 {
		return summary, e.stop(stopMsg, jobs[stopIdx], results[stopIdx])
	}
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return summary, err
		}
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// prepare writes the merged source into a fresh temporary directory. The
// returned job is non-nil whenever a directory was created, so it can be
// cleaned up even when writing fails.
func (e *Engine) prepare(t selector.SelectedTest) (*job, error) {
	body, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, err
	}

	var merged strings.Builder
	merged.WriteString(e.opts.Preamble)
	merged.WriteString("\n")
	if e.opts.IncludesDir != "" {
		for _, inc := range t.Metadata.Includes {
			data, err := os.ReadFile(filepath.Join(e.opts.IncludesDir, inc))
			if err != nil {
				return nil, fmt.Errorf("include %s: %w", inc, err)
			}
			merged.Write(data)
			merged.WriteString("\n")
		}
	}
	merged.Write(body)

	dir, err := os.MkdirTemp(e.opts.TempDir, "conform-")
	if err != nil {
		return nil, err
	}
	name := filepath.Base(t.Path)
	j := &job{
		test:   t,
		dir:    dir,
		source: filepath.Join(dir, name),
		output: filepath.Join(dir, strings.TrimSuffix(name, ".js")+".out"),
	}
	if err := os.WriteFile(j.source, []byte(merged.String()), 0644); err != nil {
		return j, err
	}
	return j, nil
}

// stop persists the failing test and describes how to reproduce it.
func (e *Engine) stop(msg string, j *job, r outcome.Result) error {
	if err := os.MkdirAll(e.opts.FailedDir, 0755); err != nil {
		return &FatalError{Op: "create failure dir", Path: e.opts.FailedDir, Err: err}
	}
	name := "failed_" + filepath.Base(j.source)
	failedSource := filepath.Join(e.opts.FailedDir, name)
	if err := copyFile(j.source, failedSource); err != nil {
		return &FatalError{Op: "persist failing test", Path: j.test.Path, Err: err}
	}
	failedOutput := filepath.Join(e.opts.FailedDir, strings.TrimSuffix(name, ".js")+".out")

	se := &StopError{
		Message:      msg,
		Path:         j.test.Path,
		FailedSource: failedSource,
		Repro:        []string{toolchain.Quote(e.tc.BuildCommand(failedSource, failedOutput))},
	}
	if r.Phase == outcome.PhaseRun {
		se.Repro = append(se.Repro, toolchain.Quote(e.tc.RunCommand(failedOutput)))
		if _, err := os.Stat(j.output); err == nil {
			if err := copyFile(j.output, failedOutput); err != nil {
				e.opts.Logger.Printf("persist artifact of %s: %v", j.test.Path, err)
			} else {
				se.FailedArtifact = failedOutput
			}
		}
	}
	return se
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
