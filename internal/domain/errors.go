package domain

import (
	"errors"
	"fmt"
)

// Exit codes returned by the suiterun binary
const (
	ExitSuccess     = 0
	ExitRuntime     = 1
	ExitConfig      = 2
	ExitDiscovery   = 3
	ExitReportWrite = 4
)

// ErrorKind classifies harness errors
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindDiscovery
	KindLaunch
	KindTimeout
	KindUnitFailure
	KindReportWrite
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config error"
	case KindDiscovery:
		return "discovery error"
	case KindLaunch:
		return "launch error"
	case KindTimeout:
		return "timeout"
	case KindUnitFailure:
		return "unit failure"
	case KindReportWrite:
		return "report write error"
	default:
		return "runtime error"
	}
}

// HarnessError is the error type shared by all harness components.
// Only config, discovery and report-write errors ever abort a run; the
// other kinds travel inside ExecutionResult.Err.
type HarnessError struct {
	Kind  ErrorKind
	Path  string // File or directory involved, if any
	Cause error
}

func (e *HarnessError) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this error
func (e *HarnessError) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfig
	case KindDiscovery:
		return ExitDiscovery
	case KindReportWrite:
		return ExitReportWrite
	default:
		return ExitRuntime
	}
}

// ConfigError creates a configuration error
func ConfigError(cause error) *HarnessError {
	return &HarnessError{Kind: KindConfig, Cause: cause}
}

// DiscoveryError creates an error for a missing or unreadable root
func DiscoveryError(root string, cause error) *HarnessError {
	return &HarnessError{Kind: KindDiscovery, Path: root, Cause: cause}
}

// LaunchError creates an error for a child that could not be started
func LaunchError(path string, cause error) *HarnessError {
	return &HarnessError{Kind: KindLaunch, Path: path, Cause: cause}
}

// TimeoutError creates an error for a child that exceeded its budget
func TimeoutError(path string, cause error) *HarnessError {
	return &HarnessError{Kind: KindTimeout, Path: path, Cause: cause}
}

// UnitFailure creates an error for a child that exited nonzero
func UnitFailure(path string, cause error) *HarnessError {
	return &HarnessError{Kind: KindUnitFailure, Path: path, Cause: cause}
}

// ReportWriteError creates an error for a report that could not be persisted
func ReportWriteError(path string, cause error) *HarnessError {
	return &HarnessError{Kind: KindReportWrite, Path: path, Cause: cause}
}

// IsKind reports whether err wraps a HarnessError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var he *HarnessError
	return errors.As(err, &he) && he.Kind == kind
}

// ExitCodeOf maps any error to a process exit code
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var he *HarnessError
	if errors.As(err, &he) {
		return he.ExitCode()
	}
	return ExitRuntime
}
