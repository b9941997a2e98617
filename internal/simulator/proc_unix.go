//go:build !windows

package simulator

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the simulator in its own process group so the whole
// tree (ngspice may spawn helpers) can be killed together.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	// Negative PID addresses the process group.
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
