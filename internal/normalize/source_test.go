package normalize

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suiterun/internal/domain"
	"suiterun/internal/logging"
)

func writeUnit(t *testing.T, dir, name, content string) domain.TestUnit {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return domain.TestUnit{Name: name, Path: path}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newTestNormalizer(out *bytes.Buffer) *SourceNormalizer {
	rules := DefaultRules(map[int]int{10000: 60000, 5000: 30000, 3000: 15000})
	return NewSourceNormalizer(rules, out, logging.Discard())
}

func TestSourceNormalizer_Run(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	dir := t.TempDir()
	broken := writeUnit(t, dir, "TC001_login.py",
		"page.goto('http://localhost:3001/http://localhost:3001/login', timeout=10000)\n")
	clean := writeUnit(t, dir, "TC002_clean.py", "print('ok')\n")

	var out bytes.Buffer
	results, err := newTestNormalizer(&out).Run([]domain.TestUnit{broken, clean}, false)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, FileResult{Path: broken.Path, Changed: true}, results[0])
	assert.Equal(t, FileResult{Path: clean.Path}, results[1])

	assert.Equal(t, "page.goto('http://localhost:3001/login', timeout=60000)\n", readFile(t, broken.Path))
	assert.Equal(t, "print('ok')\n", readFile(t, clean.Path))

	assert.Contains(t, out.String(), "Fixed "+broken.Path+"\n")
	assert.Contains(t, out.String(), "No changes needed for "+clean.Path+"\n")
	assert.Contains(t, out.String(), "✓ Fixed 1 of 2 file(s)")

	t.Run("second pass is a no-op", func(t *testing.T) {
		results, err := newTestNormalizer(&bytes.Buffer{}).Run([]domain.TestUnit{broken}, false)
		require.NoError(t, err)
		assert.False(t, results[0].Changed)
	})
}

func TestSourceNormalizer_DryRun(t *testing.T) {
	dir := t.TempDir()
	content := "wait(timeout=5000)\n"
	unit := writeUnit(t, dir, "TC001.py", content)

	results, err := newTestNormalizer(&bytes.Buffer{}).Run([]domain.TestUnit{unit}, true)
	require.NoError(t, err)

	assert.True(t, results[0].Changed)
	assert.Equal(t, content, readFile(t, unit.Path))
}

func TestSourceNormalizer_MissingFile(t *testing.T) {
	dir := t.TempDir()
	ok := writeUnit(t, dir, "TC001.py", "wait(timeout=3000)\n")
	missing := domain.TestUnit{Name: "TC002.py", Path: filepath.Join(dir, "TC002.py")}

	results, err := newTestNormalizer(&bytes.Buffer{}).Run([]domain.TestUnit{ok, missing}, false)
	require.Error(t, err)

	assert.True(t, results[0].Changed)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "wait(timeout=15000)\n", readFile(t, ok.Path))
}

func TestSourceNormalizer_NoUnits(t *testing.T) {
	results, err := newTestNormalizer(&bytes.Buffer{}).Run(nil, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}
