// Package report renders the run report and reads it back.
package report

import (
	"io"
	"time"

	"suiterun/internal/domain"
)

// DateLayout is the format of the report's generation timestamp
const DateLayout = "2006-01-02 15:04:05"

// Reporter renders a summary into a report artifact
type Reporter interface {
	Render(w io.Writer, summary domain.ReportSummary, order []domain.TestUnit, generated time.Time) error
	Write(path string, summary domain.ReportSummary, order []domain.TestUnit, generated time.Time) error
}

// Row is one table row of a report
type Row struct {
	Name     string
	Icon     string
	Status   domain.Status
	Duration string
	Note     string
}

// Document is a report as written to disk
type Document struct {
	Date   string
	Total  int
	Passed int
	Failed int
	Rows   []Row
}

// StatusIcon returns the indicator shown next to a status
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusPass:
		return "✅"
	case domain.StatusFail:
		return "❌"
	default:
		return "⚠️"
	}
}

// FormatDuration renders a duration in seconds with two decimals, e.g. "2.05s"
func FormatDuration(d time.Duration) string {
	return formatSeconds(d.Seconds())
}
