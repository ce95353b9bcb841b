package ui

import (
	"suiterun/internal/domain"
	"suiterun/internal/report"
)

// Viewer displays failures in an interactive TUI
type Viewer interface {
	View(failures []Failure) error
}

// Failure is one non-passing unit as shown to the user. Output fields are
// only present when the failure comes from a live run.
type Failure struct {
	Name     string
	Path     string
	Status   domain.Status
	Duration string
	Note     string
	ExitCode int
	Stdout   string
	Stderr   string
}

// HasOutput reports whether captured process output is available
func (f Failure) HasOutput() bool {
	return f.Stdout != "" || f.Stderr != ""
}

// FailuresFromSummary collects the failures of a live run in discovery order
func FailuresFromSummary(summary domain.ReportSummary, order []domain.TestUnit) []Failure {
	byName := summary.ByName()
	var failures []Failure
	for _, unit := range order {
		result, ok := byName[unit.Name]
		if !ok || result.Passed() {
			continue
		}
		failures = append(failures, Failure{
			Name:     unit.Name,
			Path:     unit.Path,
			Status:   result.Status,
			Duration: report.FormatDuration(result.Duration),
			Note:     result.Note,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		})
	}
	return failures
}

// FailuresFromDocument collects the failing rows of a persisted report
func FailuresFromDocument(doc *report.Document) []Failure {
	var failures []Failure
	for _, row := range doc.Rows {
		if row.Status == domain.StatusPass {
			continue
		}
		failures = append(failures, Failure{
			Name:     row.Name,
			Status:   row.Status,
			Duration: row.Duration,
			Note:     row.Note,
			ExitCode: -1,
		})
	}
	return failures
}
