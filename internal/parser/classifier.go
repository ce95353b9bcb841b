package parser

import (
	"strings"
)

// DefaultMarkers are the substrings that flag a diagnostic line as the cause of a failure
var DefaultMarkers = []string{"AssertionError", "Error:"}

// DefaultTailLength is the number of trailing characters kept when no line carries a marker
const DefaultTailLength = 300

// MarkerClassifier picks the last diagnostic line containing a marker, falling back to
// the tail of the raw text. It is triage only; the chosen line is not guaranteed to be
// the root cause.
type MarkerClassifier struct {
	markers    []string
	tailLength int
}

// NewMarkerClassifier creates a classifier with the default markers and tail length
func NewMarkerClassifier() *MarkerClassifier {
	return NewMarkerClassifierWith(DefaultMarkers, DefaultTailLength)
}

// NewMarkerClassifierWith creates a classifier with custom markers and tail length
func NewMarkerClassifierWith(markers []string, tailLength int) *MarkerClassifier {
	if tailLength <= 0 {
		tailLength = DefaultTailLength
	}
	return &MarkerClassifier{
		markers:    markers,
		tailLength: tailLength,
	}
}

// Classify returns the last line containing any marker (trimmed), or the trailing
// tailLength characters of diagnostic when no line matches.
func (c *MarkerClassifier) Classify(diagnostic string) string {
	lines := strings.Split(diagnostic, "\n")

	// Tracebacks print the most specific cause last.
	for i := len(lines) - 1; i >= 0; i-- {
		if c.hasMarker(lines[i]) {
			return strings.TrimSpace(lines[i])
		}
	}

	return tail(diagnostic, c.tailLength)
}

func (c *MarkerClassifier) hasMarker(line string) bool {
	for _, marker := range c.markers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// tail returns the last n characters (runes) of s
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
