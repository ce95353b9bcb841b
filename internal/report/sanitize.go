package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/acarl005/stripansi"
)

// Sanitize makes text safe for a single table cell: colour codes are stripped,
// every run of whitespace or control characters becomes one space, and
// backslashes and column delimiters are escaped.
func Sanitize(s string) string {
	s = stripansi.Strip(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
	return cellEscaper.Replace(strings.Join(fields, " "))
}

var cellEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// unescapeCell reverses the escaping done by Sanitize. A backslash before
// anything other than a backslash or a pipe is kept as is.
func unescapeCell(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '|') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}
