package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"suiterun/internal/domain"
)

// detailLines caps how many lines of each output stream the details pane shows
const detailLines = 200

var _ Viewer = (*FailureViewer)(nil)

// FailureViewer displays failed units in an interactive TUI
type FailureViewer struct {
	out io.Writer
}

// NewFailureViewer creates a FailureViewer. Messages printed outside the TUI go to out.
func NewFailureViewer(out io.Writer) *FailureViewer {
	return &FailureViewer{out: out}
}

// View displays failures in an interactive TUI
func (fv *FailureViewer) View(failures []Failure) error {
	if len(failures) == 0 {
		fmt.Fprintln(fv.out, color.GreenString("✓ No failures found!"))
		return nil
	}

	// Units the user has marked as looked at, by index
	resolved := make(map[int]bool)

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	listItemText := func(index int) string {
		failure := failures[index]
		if resolved[index] {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(failure.Name))
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(failure.Name))
	}

	for i := range failures {
		list.AddItem(listItemText(i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		unresolved := 0
		for i := range failures {
			if !resolved[i] {
				unresolved++
			}
		}
		headerView.SetText(fmt.Sprintf(" Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ", len(failures), unresolved))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(failures) {
			return
		}
		statsView.SetText(formatFailureStats(failures[index]))
		detailsView.SetText(formatFailureDetails(failures[index])).ScrollToBeginning()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(failures) {
					resolved[index] = !resolved[index]
					list.SetItemText(index, listItemText(index), "")
					updateHeader()
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// formatFailureStats formats the header line above the details pane
func formatFailureStats(failure Failure) string {
	location := failure.Path
	if location == "" {
		location = failure.Name
	}
	return fmt.Sprintf("[cyan]unit:[white] [yellow]%s[white]  [cyan]status:[white] %s  [cyan]duration:[white] %s\n",
		tview.Escape(location), statusTag(failure.Status), failure.Duration)
}

// formatFailureDetails formats one failure using tview color tags
func formatFailureDetails(failure Failure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(failure.Name))
	if failure.ExitCode >= 0 {
		fmt.Fprintf(&b, "[cyan]Exit code:[white] %d\n", failure.ExitCode)
	}
	if failure.Note != "" {
		fmt.Fprintf(&b, "[yellow]Note:[white]\n%s\n\n", tview.Escape(failure.Note))
	}

	if !failure.HasOutput() {
		if failure.Path == "" {
			b.WriteString("[gray]Captured output is only available right after a run.[white]\n")
		}
		return b.String()
	}

	writeStream(&b, "Stderr", failure.Stderr)
	writeStream(&b, "Stdout", failure.Stdout)
	return b.String()
}

func writeStream(b *strings.Builder, title, content string) {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return
	}
	lines := strings.Split(content, "\n")
	fmt.Fprintf(b, "[yellow]%s:[white]\n", title)
	skipped := 0
	if len(lines) > detailLines {
		skipped = len(lines) - detailLines
		lines = lines[skipped:]
		fmt.Fprintf(b, "  [gray]... %d earlier lines[white]\n", skipped)
	}
	for _, line := range lines {
		fmt.Fprintf(b, "  %s\n", tview.Escape(line))
	}
	b.WriteString("\n")
}

func statusTag(status domain.Status) string {
	switch status {
	case domain.StatusFail:
		return "[red]" + string(status) + "[white]"
	case domain.StatusError:
		return "[yellow]" + string(status) + "[white]"
	default:
		return string(status)
	}
}
