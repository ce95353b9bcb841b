package report

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"suiterun/internal/domain"
)

//go:embed templates/report.md.tmpl
var templateFS embed.FS

var _ Reporter = (*MarkdownReporter)(nil)

// MarkdownReporter renders the report as a Markdown document with one table row per unit
type MarkdownReporter struct {
	template *template.Template
}

// NewMarkdownReporter creates a reporter from the embedded template
func NewMarkdownReporter() (*MarkdownReporter, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &MarkdownReporter{template: tmpl}, nil
}

type templateData struct {
	Date   string
	Total  int
	Passed int
	Failed int
	Rows   []Row
}

// Rows builds the table rows in discovery order. Every unit in order must have
// exactly one result in summary.
func Rows(summary domain.ReportSummary, order []domain.TestUnit) ([]Row, error) {
	if len(order) != len(summary.Results) {
		return nil, fmt.Errorf("%d units discovered but %d results aggregated", len(order), len(summary.Results))
	}

	byName := summary.ByName()
	rows := make([]Row, 0, len(order))
	for _, unit := range order {
		result, ok := byName[unit.Name]
		if !ok {
			return nil, fmt.Errorf("no result for unit %q", unit.Name)
		}
		rows = append(rows, Row{
			Name:     Sanitize(unit.Name),
			Icon:     StatusIcon(result.Status),
			Status:   result.Status,
			Duration: FormatDuration(result.Duration),
			Note:     Sanitize(result.Note),
		})
	}
	return rows, nil
}

// Render writes the report to w. Two renderings of the same summary and order
// differ only in the date line.
func (m *MarkdownReporter) Render(w io.Writer, summary domain.ReportSummary, order []domain.TestUnit, generated time.Time) error {
	rows, err := Rows(summary, order)
	if err != nil {
		return err
	}

	data := templateData{
		Date:   generated.Format(DateLayout),
		Total:  summary.Total,
		Passed: summary.Passed,
		Failed: summary.Failed,
		Rows:   rows,
	}
	if err := m.template.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// Write renders the report and persists it at path, creating parent directories.
// Any failure to persist is a ReportWriteError.
func (m *MarkdownReporter) Write(path string, summary domain.ReportSummary, order []domain.TestUnit, generated time.Time) error {
	var buf bytes.Buffer
	if err := m.Render(&buf, summary, order, generated); err != nil {
		return domain.ReportWriteError(path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return domain.ReportWriteError(path, fmt.Errorf("create report dir: %w", err))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return domain.ReportWriteError(path, err)
	}
	return nil
}
