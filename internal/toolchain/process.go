package toolchain

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// ErrEmptyCommand is returned when a command template expands to nothing.
var ErrEmptyCommand = errors.New("empty command")

// waitDelay bounds how long Wait keeps reading pipes held open by
// grandchildren after the direct child exits.
const waitDelay = 2 * time.Second

type execProcess struct {
	cmd    *exec.Cmd
	stderr *bytes.Buffer
	start  time.Time
}

// Start launches argv in its own process group with stderr captured.
func Start(argv []string, dir string) (Process, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", argv[0], err)
	}
	return &execProcess{cmd: cmd, stderr: stderr, start: start}, nil
}

func (p *execProcess) Wait() (Exit, error) {
	err := p.cmd.Wait()
	exit := Exit{
		Stderr:   p.stderr.String(),
		Duration: time.Since(p.start),
	}
	if p.cmd.ProcessState != nil {
		exit.Code = p.cmd.ProcessState.ExitCode()
		exit.Signal = exitSignal(p.cmd.ProcessState)
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && !errors.Is(err, exec.ErrWaitDelay) {
		return exit, fmt.Errorf("waiting for %s: %w", p.cmd.Path, err)
	}
	return exit, nil
}

func (p *execProcess) Kill() error {
	return killProcessGroup(p.cmd)
}

// IsMemoryFault reports whether sig is a memory-fault class signal.
func IsMemoryFault(sig syscall.Signal) bool {
	switch sig {
	case syscall.SIGSEGV, syscall.SIGBUS, syscall.SIGILL, syscall.SIGFPE:
		return true
	}
	return false
}

var signalNames = map[syscall.Signal]string{
	syscall.SIGABRT: "SIGABRT",
	syscall.SIGBUS:  "SIGBUS",
	syscall.SIGFPE:  "SIGFPE",
	syscall.SIGILL:  "SIGILL",
	syscall.SIGKILL: "SIGKILL",
	syscall.SIGSEGV: "SIGSEGV",
	syscall.SIGTERM: "SIGTERM",
}

// SignalName returns the conventional SIG* name for sig, or "" for none.
func SignalName(sig syscall.Signal) string {
	if sig == 0 {
		return ""
	}
	if name, ok := signalNames[sig]; ok {
		return name
	}
	return sig.String()
}
