package discovery

import (
	"fmt"
	"os"
	"regexp"
)

// testFuncPattern matches top-level and indented "def test_*(" definitions,
// including async ones.
var testFuncPattern = regexp.MustCompile(`(?m)^[ \t]*(?:async[ \t]+)?def[ \t]+(test\w*)[ \t]*\(`)

// CaseFinder lists the test functions defined inside a unit source
type CaseFinder struct{}

// NewCaseFinder creates a new CaseFinder
func NewCaseFinder() *CaseFinder {
	return &CaseFinder{}
}

// FindCases returns the test function names in definition order, without duplicates
func (c *CaseFinder) FindCases(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}

	seen := make(map[string]bool)
	var cases []string
	for _, match := range testFuncPattern.FindAllStringSubmatch(string(content), -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		cases = append(cases, name)
	}
	return cases, nil
}
