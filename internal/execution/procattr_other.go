//go:build !unix

package execution

import "os/exec"

// configureProcess keeps exec's default cancellation, which kills the child only.
func configureProcess(cmd *exec.Cmd) {}

// killProcessGroup is a no-op without process groups; output draining is still
// bounded by the runner's wait delay.
func killProcessGroup(cmd *exec.Cmd) {}
