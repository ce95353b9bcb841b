package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"suiterun/internal/domain"
)

// Scanner finds test units in a root directory by file name convention
type Scanner struct {
	prefix    string
	extension string
	timeout   time.Duration
}

// NewScanner creates a Scanner matching files named <prefix>*<extension>.
// Every unit it returns carries timeout as its default budget.
func NewScanner(prefix, extension string, timeout time.Duration) *Scanner {
	return &Scanner{
		prefix:    prefix,
		extension: extension,
		timeout:   timeout,
	}
}

// Matches reports whether a file name identifies a test unit
func (s *Scanner) Matches(name string) bool {
	return strings.HasPrefix(name, s.prefix) && strings.HasSuffix(name, s.extension) &&
		len(name) >= len(s.prefix)+len(s.extension)
}

// Scan returns the units directly under root, ordered lexicographically by file name.
// A missing or unreadable root is a DiscoveryError.
func (s *Scanner) Scan(root string) ([]domain.TestUnit, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, domain.DiscoveryError(root, err)
	}
	if !info.IsDir() {
		return nil, domain.DiscoveryError(root, fmt.Errorf("not a directory"))
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, domain.DiscoveryError(root, err)
	}

	var units []domain.TestUnit
	for _, entry := range entries {
		if entry.IsDir() || !s.Matches(entry.Name()) {
			continue
		}
		units = append(units, domain.TestUnit{
			Name:    entry.Name(),
			Path:    filepath.Join(root, entry.Name()),
			Timeout: s.timeout,
		})
	}

	// os.ReadDir already sorts by name; keep the ordering explicit.
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Name < units[j].Name
	})

	return units, nil
}

// ScanTree returns the units anywhere below root, ordered by their slash-separated
// path relative to root, which is also their Name. Unreadable subdirectories are
// a DiscoveryError like an unreadable root.
func (s *Scanner) ScanTree(root string) ([]domain.TestUnit, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, domain.DiscoveryError(root, err)
	}
	if !info.IsDir() {
		return nil, domain.DiscoveryError(root, fmt.Errorf("not a directory"))
	}

	var units []domain.TestUnit
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return domain.DiscoveryError(path, err)
		}
		if d.IsDir() || !s.Matches(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return domain.DiscoveryError(path, err)
		}
		units = append(units, domain.TestUnit{
			Name:    filepath.ToSlash(rel),
			Path:    path,
			Timeout: s.timeout,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Name < units[j].Name
	})
	return units, nil
}
