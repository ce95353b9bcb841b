package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"suiterun/internal/domain"
)

// Load reads and parses the report at path
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a report produced by MarkdownReporter back into a Document
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	inTable := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if key, value, ok := headerField(line); ok {
			if err := doc.setHeader(key, value); err != nil {
				return nil, err
			}
			continue
		}

		if !strings.HasPrefix(line, "|") {
			continue
		}
		if !inTable {
			// Column titles, then the |---| separator.
			inTable = true
			continue
		}
		if strings.HasPrefix(line, "|-") {
			continue
		}

		row, err := parseRow(line)
		if err != nil {
			return nil, err
		}
		doc.Rows = append(doc.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return doc, nil
}

func headerField(line string) (key, value string, ok bool) {
	if !strings.HasPrefix(line, "**") {
		return "", "", false
	}
	rest := strings.TrimPrefix(line, "**")
	key, value, ok = strings.Cut(rest, ":**")
	if !ok {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func (d *Document) setHeader(key, value string) error {
	var target *int
	switch key {
	case "Date":
		d.Date = value
		return nil
	case "Total Tests":
		target = &d.Total
	case "Passed":
		target = &d.Passed
	case "Failed":
		target = &d.Failed
	default:
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s count %q: %w", key, value, err)
	}
	*target = n
	return nil
}

// parseRow splits "| name | icon STATUS | 1.00s | note |" on unescaped pipes
func parseRow(line string) (Row, error) {
	cells := splitCells(line)
	if len(cells) != 4 {
		return Row{}, fmt.Errorf("malformed report row: %s", line)
	}

	row := Row{
		Name:     unescapeCell(cells[0]),
		Duration: cells[2],
		Note:     unescapeCell(cells[3]),
	}
	status := cells[1]
	if icon, text, ok := strings.Cut(status, " "); ok {
		row.Icon = icon
		status = text
	}
	row.Status = domain.Status(strings.TrimSpace(status))
	return row, nil
}

func splitCells(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && (line[i+1] == '\\' || line[i+1] == '|'):
			// Escape pairs stay intact for unescapeCell.
			cell.WriteByte(line[i])
			cell.WriteByte(line[i+1])
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}
