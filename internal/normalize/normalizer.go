// Package normalize rewrites unit sources before a run. It is a standalone
// maintenance step and is never invoked by the run command.
package normalize

import "suiterun/internal/domain"

// Normalizer rewrites unit sources in place
type Normalizer interface {
	Run(units []domain.TestUnit, dryRun bool) ([]FileResult, error)
}

// FileResult is the outcome of normalizing one unit source
type FileResult struct {
	Path    string
	Changed bool
	Err     error
}

// Rule rewrites source text. Rules never fail; unchanged input is returned as is.
type Rule interface {
	Apply(content string) string
}

// RuleFunc adapts a function to Rule
type RuleFunc func(content string) string

// Apply calls f
func (f RuleFunc) Apply(content string) string {
	return f(content)
}
