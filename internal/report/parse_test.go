package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suiterun/internal/domain"
)

func TestParse_RoundTrip(t *testing.T) {
	summary, order := fixture()
	summary.Results[2].Note = `expected "a|b"`

	doc, err := Parse(strings.NewReader(render(t, summary, order, generatedAt)))
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19 09:30:00", doc.Date)
	assert.Equal(t, 3, doc.Total)
	assert.Equal(t, 1, doc.Passed)
	assert.Equal(t, 2, doc.Failed)
	require.Len(t, doc.Rows, 3)

	assert.Equal(t, Row{Name: "TC001_login.py", Icon: "✅", Status: domain.StatusPass, Duration: "2.03s"}, doc.Rows[0])
	assert.Equal(t, `expected "a|b"`, doc.Rows[1].Note)
	assert.Equal(t, domain.StatusFail, doc.Rows[1].Status)
	assert.Equal(t, domain.StatusError, doc.Rows[2].Status)
	assert.Equal(t, "timeout", doc.Rows[2].Note)
}

func TestParse_BackslashesBeforePipes(t *testing.T) {
	summary, order := fixture()
	note := `Error: expected \| got C:\dir\`
	summary.Results[2].Note = note

	out := render(t, summary, order, generatedAt)
	assert.Contains(t, out, `| Error: expected \\\| got C:\\dir\\ |`)

	doc, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, note, doc.Rows[1].Note)
	assert.Equal(t, "1.10s", doc.Rows[1].Duration)
}

func TestParse_Malformed(t *testing.T) {
	t.Run("bad count", func(t *testing.T) {
		_, err := Parse(strings.NewReader("**Total Tests:** many\n"))
		assert.Error(t, err)
	})

	t.Run("bad row", func(t *testing.T) {
		input := "| Test Case | Status | Duration | Error Note |\n|---|---|---|---|\n| only | two |\n"
		_, err := Parse(strings.NewReader(input))
		assert.Error(t, err)
	})

	t.Run("unrelated markdown is ignored", func(t *testing.T) {
		doc, err := Parse(strings.NewReader("# Title\n\nsome text\n"))
		require.NoError(t, err)
		assert.Empty(t, doc.Rows)
	})
}

func TestLoad(t *testing.T) {
	summary, order := fixture()
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, os.WriteFile(path, []byte(render(t, summary, order, generatedAt)), 0644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Rows, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}
