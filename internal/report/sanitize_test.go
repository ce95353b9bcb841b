package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "AssertionError: mismatch", expected: "AssertionError: mismatch"},
		{name: "pipes escaped", input: "a|b", expected: `a\|b`},
		{name: "newlines collapsed", input: "line one\nline two\r\nline three", expected: "line one line two line three"},
		{name: "runs of whitespace collapse to one space", input: "  a \t\t b  ", expected: "a b"},
		{name: "ansi colour stripped", input: "\x1b[31mError: red\x1b[0m", expected: "Error: red"},
		{name: "control characters removed", input: "bell\x07here", expected: "bell here"},
		{name: "backslashes escaped", input: `C:\tmp\run`, expected: `C:\\tmp\\run`},
		{name: "escaped pipe in input stays literal", input: `a\|b`, expected: `a\\\|b`},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.00s", FormatDuration(0))
	assert.Equal(t, "0.10s", FormatDuration(100*time.Millisecond))
	assert.Equal(t, "61.25s", FormatDuration(61250*time.Millisecond))
}

func TestUnescapeCell(t *testing.T) {
	for _, input := range []string{`a|b`, `a\|b`, `C:\dir\`, `\\|`, `plain`, `trailing \`} {
		assert.Equal(t, input, unescapeCell(Sanitize(input)), input)
	}
	assert.Equal(t, `\n stays`, unescapeCell(`\n stays`))
}
