//go:build !unix

package toolchain

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup is a no-op on non-Unix platforms.
func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// exitSignal always reports no signal; termination signals are not
// observable here.
func exitSignal(state *os.ProcessState) syscall.Signal {
	return 0
}
