package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"suiterun/internal/config"
	"suiterun/internal/domain"
)

// DefaultWaitDelay bounds how long a killed child may take to exit, and how long
// output is drained after it exits when something outside its process group
// still holds the pipes open.
const DefaultWaitDelay = 5 * time.Second

var _ Executor = (*Runner)(nil)

// Runner executes a single test unit as a child process
type Runner struct {
	config    *config.Config
	env       []string
	waitDelay time.Duration
	logger    logrus.FieldLogger
}

// NewRunner creates a new Runner. env holds extra KEY=VALUE pairs appended to the
// inherited environment of every child.
func NewRunner(cfg *config.Config, env []string, logger logrus.FieldLogger) *Runner {
	return &Runner{
		config:    cfg,
		env:       env,
		waitDelay: DefaultWaitDelay,
		logger:    logger,
	}
}

// Run launches the unit in the configured work dir, captures stdout and stderr in
// full and enforces the unit's wall-clock budget.
func (r *Runner) Run(ctx context.Context, unit domain.TestUnit) domain.ExecutionResult {
	result := domain.ExecutionResult{
		Unit:     unit,
		ExitCode: -1,
	}

	if _, err := os.Stat(unit.Path); err != nil {
		return launchFailed(result, unit, err)
	}

	timeout := r.timeoutFor(unit)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name, args := r.command(unit)
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = r.config.WorkDir
	cmd.Env = append(os.Environ(), r.env...)
	cmd.WaitDelay = r.waitDelay
	configureProcess(cmd)

	// The child writes straight into pipes we drain ourselves, so Wait returns
	// as soon as the child exits instead of waiting on grandchildren.
	stdout, err := newStream()
	if err != nil {
		return launchFailed(result, unit, err)
	}
	stderr, err := newStream()
	if err != nil {
		stdout.abort()
		return launchFailed(result, unit, err)
	}
	cmd.Stdout = stdout.w
	cmd.Stderr = stderr.w

	r.logger.WithFields(logrus.Fields{
		"unit":    unit.Name,
		"command": cmd.String(),
		"timeout": timeout,
	}).Debug("Launching unit")

	start := time.Now()
	if err := cmd.Start(); err != nil {
		stdout.abort()
		stderr.abort()
		if ctx.Err() != nil {
			return interrupted(result, ctx.Err())
		}
		return launchFailed(result, unit, err)
	}
	stdout.start()
	stderr.start()

	waitErr := cmd.Wait()
	result.Duration = time.Since(start)

	// Nothing the unit spawned outlives it, whichever way it ended.
	killProcessGroup(cmd)
	result.Stdout = stdout.collect(r.waitDelay)
	result.Stderr = stderr.collect(r.waitDelay)

	state := cmd.ProcessState
	if state != nil {
		result.ExitCode = state.ExitCode()
	}

	switch {
	case state != nil && state.Exited() && state.Success():
		// Exited 0 on its own, even if the budget ran out while it was being reaped.
		result.Status = domain.StatusPass
	case state != nil && state.Exited():
		result.Status = domain.StatusFail
		result.Err = domain.UnitFailure(unit.Path, waitErr)
	case ctx.Err() != nil:
		result = interrupted(result, ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Status = domain.StatusError
		result.Note = domain.NoteTimeout
		result.Err = domain.TimeoutError(unit.Path, fmt.Errorf("exceeded %s", timeout))
	default:
		// Killed by a signal nobody in the harness sent.
		result.Status = domain.StatusFail
		result.Err = domain.UnitFailure(unit.Path, waitErr)
	}

	return result
}

// timeoutFor returns the run override when set, otherwise the unit's own default
func (r *Runner) timeoutFor(unit domain.TestUnit) time.Duration {
	if r.config.TimeoutOverride > 0 {
		return r.config.TimeoutOverride
	}
	if unit.Timeout > 0 {
		return unit.Timeout
	}
	return r.config.Timeout
}

// command builds "<interpreter> [args...] <path>", or just "<path>" without an interpreter
func (r *Runner) command(unit domain.TestUnit) (string, []string) {
	if r.config.Interpreter == "" {
		return unit.Path, nil
	}
	args := make([]string, 0, len(r.config.InterpreterArgs)+1)
	args = append(args, r.config.InterpreterArgs...)
	args = append(args, unit.Path)
	return r.config.Interpreter, args
}

func launchFailed(result domain.ExecutionResult, unit domain.TestUnit, err error) domain.ExecutionResult {
	result.Status = domain.StatusError
	result.Note = domain.NoteLaunchFailed
	result.Err = domain.LaunchError(unit.Path, err)
	return result
}

func interrupted(result domain.ExecutionResult, err error) domain.ExecutionResult {
	result.Status = domain.StatusError
	result.Note = domain.NoteInterrupted
	result.Err = err
	return result
}
