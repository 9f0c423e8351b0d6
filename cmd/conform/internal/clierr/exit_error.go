// Package clierr maps command errors to process exit codes.
package clierr

import (
	"errors"
	"fmt"

	"github.com/bartekus/conform/internal/engine"
	"github.com/bartekus/conform/internal/runner"
)

// Exit codes of a conformance run. Every kind of failure exits 1; the
// names keep the call sites readable.
const (
	ExitPass        = 0
	ExitTestFailure = 1
	ExitStopped     = 1
	ExitFatal       = 1
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError that wraps an underlying cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// Newf is a formatted variant.
func Newf(code int, format string, args ...any) error {
	return &ExitError{code: normalize(code), msg: fmt.Sprintf(format, args...)}
}

// ExitCodeOf extracts an exit code from any error. An explicit ExitCoder
// wins; otherwise the engine and runner error kinds are recognised, and
// anything else is fatal.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitPass
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	var stop *engine.StopError
	if errors.As(err, &stop) {
		return ExitStopped
	}
	var fatal *engine.FatalError
	if errors.As(err, &fatal) {
		return ExitFatal
	}
	if errors.Is(err, runner.ErrFailed) {
		return ExitTestFailure
	}
	return ExitFatal
}

// Exit code 0 means success; errors never carry it.
func normalize(code int) int {
	if code <= ExitPass {
		return ExitFatal
	}
	return code
}
