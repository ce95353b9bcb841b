package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"suiterun/internal/discovery"
	"suiterun/internal/domain"
	"suiterun/internal/report"
)

// noteWidth caps the Note column of console tables
const noteWidth = 80

// Formatter prints human-facing output to the console
type Formatter struct {
	out   io.Writer
	cases *discovery.CaseFinder
}

// NewFormatter creates a Formatter writing to out
func NewFormatter(out io.Writer, cases *discovery.CaseFinder) *Formatter {
	return &Formatter{
		out:   out,
		cases: cases,
	}
}

// PrintBanner prints the run header
func (f *Formatter) PrintBanner(runID string, units int, root string) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                         E2E Suite Run                         ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintf(f.out, "Run %s: %d unit(s) in %s\n\n", color.WhiteString(runID), units, root)
}

// PrintSummary prints a table of every unit in discovery order followed by totals
func (f *Formatter) PrintSummary(summary domain.ReportSummary, order []domain.TestUnit, reportPath string) error {
	rows, err := report.Rows(summary, order)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Test Execution Summary")
	t.AppendHeader(table.Row{"#", "Test Case", "Status", "Duration", "Note"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Note", WidthMax: noteWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for i, row := range rows {
		t.AppendRow(table.Row{i + 1, row.Name, statusText(row.Status), row.Duration, row.Note})
	}

	if summary.Failed > 0 {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}
	t.AppendFooter(table.Row{"", "TOTAL", overallStatus(summary), "", fmt.Sprintf("%d passed, %d failed", summary.Passed, summary.Failed)})
	t.Render()

	fmt.Fprintln(f.out)
	if summary.Failed == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ All %d unit(s) passed!", summary.Total))
	} else {
		fmt.Fprintln(f.out, color.RedString("✗ %d of %d unit(s) failed", summary.Failed, summary.Total))
	}
	if reportPath != "" {
		fmt.Fprintf(f.out, "Report written to %s\n", reportPath)
	}
	return nil
}

// PrintReport prints the failing rows of a persisted report
func (f *Formatter) PrintReport(doc *report.Document, path string) {
	fmt.Fprintf(f.out, "Report %s (%s): %d total, %s, %s\n\n",
		path, doc.Date, doc.Total,
		color.GreenString("%d passed", doc.Passed),
		color.RedString("%d failed", doc.Failed))

	failures := FailuresFromDocument(doc)
	if len(failures) == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ No failures found!"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"Test Case", "Status", "Duration", "Note"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Note", WidthMax: noteWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, failure := range failures {
		t.AppendRow(table.Row{failure.Name, statusText(failure.Status), failure.Duration, failure.Note})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// CountCases returns the total number of test functions across units
func (f *Formatter) CountCases(units []domain.TestUnit) (int, error) {
	var total int
	for _, unit := range units {
		cases, err := f.cases.FindCases(unit.Path)
		if err != nil {
			return 0, err
		}
		total += len(cases)
	}
	return total, nil
}

// PrintTestList prints discovered units as a tree, optionally with their test
// functions. Units named in failed are marked with [F] from the last report.
func (f *Formatter) PrintTestList(units []domain.TestUnit, root string, showCases bool, failed map[string]struct{}) {
	if showCases {
		fmt.Fprintln(f.out, color.GreenString("Found %d unit(s) with test cases in %s:\n", len(units), root))
	} else {
		fmt.Fprintln(f.out, color.GreenString("Found %d unit(s) in %s:\n", len(units), root))
	}

	for i, unit := range units {
		isLastUnit := i == len(units)-1

		failMarker := ""
		if _, ok := failed[unit.Name]; ok {
			failMarker = " " + color.RedString("[F]")
		}

		connector, childPrefix := "├── ", "│   "
		if isLastUnit {
			connector, childPrefix = "└── ", "    "
		}
		fmt.Fprintln(f.out, color.CyanString("%s%s", connector, displayPath(root, unit.Path))+failMarker)

		if !showCases {
			continue
		}

		testCases, err := f.cases.FindCases(unit.Path)
		if err != nil {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, color.RedString("error reading unit: %v", err))
		} else if len(testCases) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, color.RedString("(no test cases found)"))
		} else {
			for j, testCase := range testCases {
				caseConnector := "├── "
				if j == len(testCases)-1 {
					caseConnector = "└── "
				}
				fmt.Fprintf(f.out, "%s%s%s\n", childPrefix, caseConnector, color.YellowString(testCase))
			}
		}

		if !isLastUnit {
			fmt.Fprintln(f.out)
		}
	}
}

func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func statusText(status domain.Status) string {
	return report.StatusIcon(status) + " " + string(status)
}

func overallStatus(summary domain.ReportSummary) string {
	if summary.Failed > 0 {
		return string(domain.StatusFail)
	}
	return string(domain.StatusPass)
}
