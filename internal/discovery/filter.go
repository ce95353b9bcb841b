package discovery

import (
	"path/filepath"
	"strings"

	"suiterun/internal/domain"
)

// Filter narrows discovered units by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps units whose name matches pattern, preserving discovery order.
// Supports patterns like "TC00*" or "*login*"; a pattern without wildcards is a substring match.
func (f *Filter) FilterByName(units []domain.TestUnit, pattern string) []domain.TestUnit {
	if pattern == "" {
		return units
	}

	var filtered []domain.TestUnit
	for _, unit := range units {
		if f.matches(unit.Name, pattern) {
			filtered = append(filtered, unit)
		}
	}
	return filtered
}

func (f *Filter) matches(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// filepath.Match is anchored; fall back to "every literal part appears in order"
	// so that "*Payment*" also matches "TC016_Payment_Processing.py".
	if !strings.Contains(pattern, "*") {
		return false
	}
	rest := name
	found := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
		found = true
	}
	return found
}
