package toolchain

import (
	"context"
	"errors"
	"syscall"
	"time"
)

// ErrTimedOut is returned by Await when the timer fires before the process
// exits.
var ErrTimedOut = errors.New("timed out")

// Exit describes how a process ended.
type Exit struct {
	Code     int
	Signal   syscall.Signal
	Stderr   string
	Duration time.Duration
}

// Signaled reports whether the process was terminated by a signal.
func (e Exit) Signaled() bool {
	return e.Signal != 0
}

// Process is a started external process.
type Process interface {
	// Wait blocks until the process exits. A non-zero exit is not an error.
	Wait() (Exit, error)
	// Kill forcibly terminates the process and anything it spawned.
	Kill() error
}

type waitResult struct {
	exit Exit
	err  error
}

// Await races the process against a timer and ctx. Whichever loses to the
// process exit is stopped; if the timer or ctx wins, the process is killed
// and reaped before Await returns. A timeout of zero disables the timer.
func Await(ctx context.Context, p Process, timeout time.Duration) (Exit, error) {
	done := make(chan waitResult, 1)
	go func() {
		e, err := p.Wait()
		done <- waitResult{e, err}
	}()

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case r := <-done:
		return r.exit, r.err
	case <-timer:
		_ = p.Kill()
		r := <-done
		return r.exit, ErrTimedOut
	case <-ctx.Done():
		_ = p.Kill()
		<-done
		return Exit{}, ctx.Err()
	}
}
