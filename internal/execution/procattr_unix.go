//go:build unix

package execution

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// configureProcess starts the child in its own process group so that a kill
// also reaches anything it spawned (browsers, drivers).
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}

// killProcessGroup kills whatever is left of the child's process group once the
// child itself has been reaped. An already empty group is not an error.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
