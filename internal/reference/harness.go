// Package reference runs the selected tests through the standard conformance
// harness on a reference interpreter. Pass/fail reporting is left to the
// harness.
package reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

const (
	DefaultBinary  = "test262-harness"
	DefaultThreads = 11
)

// Harness invokes the harness binary once with every test path.
type Harness struct {
	Binary   string
	HostType string
	HostPath string
	HostArgs string
	Threads  int

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a harness configured for node in strict mode.
func New(binary string, threads int) *Harness {
	if binary == "" {
		binary = DefaultBinary
	}
	if threads <= 0 {
		threads = DefaultThreads
	}
	return &Harness{
		Binary:   binary,
		HostType: "node",
		HostPath: "node",
		HostArgs: "--use-strict",
		Threads:  threads,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Args returns the argument list, binary excluded.
func (h *Harness) Args(paths []string) []string {
	args := []string{
		"--hostType=" + h.HostType,
		"--hostPath=" + h.HostPath,
		"--hostArgs=" + h.HostArgs,
		"-t", strconv.Itoa(h.Threads),
	}
	return append(args, paths...)
}

// ExitError carries the harness's non-zero exit status.
type ExitError struct {
	Binary string
	Code   int
}

func (e *ExitError) Error() string {
	bin := e.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	return fmt.Sprintf("%s exited with status %d", bin, e.Code)
}

// Run executes the harness with inherited stdio. A non-zero exit is returned
// as *ExitError; failure to start is returned as is.
func (h *Harness) Run(ctx context.Context, paths []string) error {
	cmd := exec.CommandContext(ctx, h.Binary, h.Args(paths)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = h.Stdout
	cmd.Stderr = h.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Binary: h.Binary, Code: exitErr.ExitCode()}
	}
	if err != nil {
		return fmt.Errorf("running %s: %w", h.Binary, err)
	}
	return nil
}

// Available reports whether `<binary> --help` succeeds.
func (h *Harness) Available(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, h.Binary, "--help")
	return cmd.Run() == nil
}
