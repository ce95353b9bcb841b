package domain

import "time"

// Status is the outcome of running a TestUnit once
type Status string

const (
	StatusPass  Status = "PASS"
	StatusFail  Status = "FAIL"
	StatusError Status = "ERROR"
)

// Fixed notes attached to Error results
const (
	NoteTimeout      = "timeout"
	NoteLaunchFailed = "launch failed"
	NoteInterrupted  = "interrupted"
)

// ExecutionResult represents the result of executing a test unit
type ExecutionResult struct {
	Unit     TestUnit
	Status   Status
	Duration time.Duration
	Stdout   string // Full captured standard output
	Stderr   string // Full captured diagnostic output
	ExitCode int    // -1 when the process never exited on its own
	Note     string // Classified note, set only for Fail and Error
	Err      error  // Underlying cause for Error results
}

// Passed reports whether the result counts as passed
func (r ExecutionResult) Passed() bool {
	return r.Status == StatusPass
}

// ReportSummary is the aggregated view of a completed run
type ReportSummary struct {
	Total   int
	Passed  int
	Failed  int
	Results []ExecutionResult // Completion order
}

// ByName indexes results by unit name for rendering in discovery order
func (s ReportSummary) ByName() map[string]ExecutionResult {
	byName := make(map[string]ExecutionResult, len(s.Results))
	for _, r := range s.Results {
		byName[r.Unit.Name] = r
	}
	return byName
}

// Failures returns the results that did not pass, in completion order
func (s ReportSummary) Failures() []ExecutionResult {
	var failures []ExecutionResult
	for _, r := range s.Results {
		if !r.Passed() {
			failures = append(failures, r)
		}
	}
	return failures
}
