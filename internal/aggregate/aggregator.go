// Package aggregate collects per-unit results and derives the run summary.
package aggregate

import (
	"fmt"

	"suiterun/internal/domain"
)

// Aggregator accepts results in completion order and guarantees exactly one
// result per discovered unit.
type Aggregator struct {
	expected map[string]bool
	seen     map[string]bool
	results  []domain.ExecutionResult
	passed   int
}

// New creates an Aggregator expecting one result for each unit
func New(units []domain.TestUnit) *Aggregator {
	expected := make(map[string]bool, len(units))
	for _, u := range units {
		expected[u.Name] = true
	}
	return &Aggregator{
		expected: expected,
		seen:     make(map[string]bool, len(units)),
		results:  make([]domain.ExecutionResult, 0, len(units)),
	}
}

// Add records a completed result. Results for unknown units and second results
// for the same unit are rejected.
func (a *Aggregator) Add(result domain.ExecutionResult) error {
	name := result.Unit.Name
	if !a.expected[name] {
		return fmt.Errorf("result for undiscovered unit %q", name)
	}
	if a.seen[name] {
		return fmt.Errorf("duplicate result for unit %q", name)
	}
	a.seen[name] = true
	a.results = append(a.results, result)
	if result.Passed() {
		a.passed++
	}
	return nil
}

// Complete reports whether every expected unit has a result
func (a *Aggregator) Complete() bool {
	return len(a.seen) == len(a.expected)
}

// Summary returns the final summary. It is only available once every unit has
// produced a result.
func (a *Aggregator) Summary() (domain.ReportSummary, error) {
	if !a.Complete() {
		return domain.ReportSummary{}, fmt.Errorf("summary requested with %d of %d results", len(a.seen), len(a.expected))
	}

	results := make([]domain.ExecutionResult, len(a.results))
	copy(results, a.results)

	total := len(results)
	return domain.ReportSummary{
		Total:   total,
		Passed:  a.passed,
		Failed:  total - a.passed,
		Results: results,
	}, nil
}
