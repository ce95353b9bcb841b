package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suiterun/internal/config"
	"suiterun/internal/domain"
	"suiterun/internal/report"
	"suiterun/internal/ui"
)

type recordingViewer struct {
	failures []ui.Failure
	calls    int
}

func (r *recordingViewer) View(failures []ui.Failure) error {
	r.calls++
	r.failures = failures
	return nil
}

type harness struct {
	root   *cobra.Command
	cmds   *Commands
	out    *bytes.Buffer
	viewer *recordingViewer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	root := &cobra.Command{Use: "suiterun", SilenceErrors: true, SilenceUsage: true}
	cmds := NewCommands(config.NewViper())
	cmds.Register(root)

	h := &harness{root: root, cmds: cmds, out: &bytes.Buffer{}, viewer: &recordingViewer{}}
	viewerFactory := func(*cobra.Command) ui.Viewer { return h.viewer }
	cmds.Run.newViewer = viewerFactory
	cmds.Failures.newViewer = viewerFactory

	root.SetOut(h.out)
	root.SetErr(&bytes.Buffer{})
	return h
}

func (h *harness) execute(args ...string) error {
	h.root.SetArgs(args)
	return h.root.Execute()
}

// suite lays out a work dir with a units directory and returns both paths
func suite(t *testing.T, units map[string]string) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unit scripts require a POSIX shell")
	}
	workDir := t.TempDir()
	unitDir := filepath.Join(workDir, "units")
	require.NoError(t, os.MkdirAll(unitDir, 0755))
	for name, script := range units {
		full := filepath.Join(unitDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(script), 0755))
	}
	return workDir, unitDir
}

func shellArgs(command, workDir string, extra ...string) []string {
	args := []string{command, "--work-dir", workDir, "--root", "units", "--extension", ".sh"}
	if command == "run" {
		args = append(args, "--interpreter", "sh")
	}
	return append(args, extra...)
}

var standardUnits = map[string]string{
	"TC001_pass.sh": "[ \"$GREETING\" = hello ] || exit 3\necho ok\n",
	"TC002_fail.sh": "echo 'Traceback (most recent call last):' >&2\necho 'AssertionError: mismatch' >&2\nexit 1\n",
	"TC003_slow.sh": "sleep 5\n",
	"helper.sh":     "exit 1\n",
}

func TestRunCommand(t *testing.T) {
	workDir, unitDir := suite(t, standardUnits)
	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".env"), []byte("GREETING=hello\n"), 0644))

	h := newHarness(t)
	require.NoError(t, h.execute(shellArgs("run", workDir, "--timeout", "1s")...))

	doc, err := report.Load(filepath.Join(unitDir, config.DefaultReportFile))
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Total)
	assert.Equal(t, 1, doc.Passed)
	assert.Equal(t, 2, doc.Failed)
	require.Len(t, doc.Rows, 3)

	assert.Equal(t, "TC001_pass.sh", doc.Rows[0].Name)
	assert.Equal(t, domain.StatusPass, doc.Rows[0].Status)

	assert.Equal(t, "TC002_fail.sh", doc.Rows[1].Name)
	assert.Equal(t, domain.StatusFail, doc.Rows[1].Status)
	assert.Equal(t, "AssertionError: mismatch", doc.Rows[1].Note)

	assert.Equal(t, "TC003_slow.sh", doc.Rows[2].Name)
	assert.Equal(t, domain.StatusError, doc.Rows[2].Status)
	assert.Equal(t, domain.NoteTimeout, doc.Rows[2].Note)

	assert.Contains(t, h.out.String(), "✗ 2 of 3 unit(s) failed")
	assert.Zero(t, h.viewer.calls, "viewer only opens with --open-failures")
}

func TestRunCommand_OpenFailures(t *testing.T) {
	workDir, _ := suite(t, map[string]string{
		"TC001_pass.sh": "exit 0\n",
		"TC002_fail.sh": "echo 'Error: boom' >&2\nexit 2\n",
	})

	h := newHarness(t)
	require.NoError(t, h.execute(shellArgs("run", workDir, "--open-failures")...))

	require.Equal(t, 1, h.viewer.calls)
	require.Len(t, h.viewer.failures, 1)
	failure := h.viewer.failures[0]
	assert.Equal(t, "TC002_fail.sh", failure.Name)
	assert.Equal(t, 2, failure.ExitCode)
	assert.Equal(t, "Error: boom\n", failure.Stderr)
}

func TestRunCommand_HealthFailureOnlyWarns(t *testing.T) {
	workDir, _ := suite(t, map[string]string{"TC001_pass.sh": "exit 0\n"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	h := newHarness(t)
	require.NoError(t, h.execute(shellArgs("run", workDir, "--health-url", srv.URL)...))

	assert.Contains(t, h.out.String(), "⚠ Health check failed")
	assert.Contains(t, h.out.String(), "✓ All 1 unit(s) passed!")
}

func TestRunCommand_EmptyRoot(t *testing.T) {
	workDir, unitDir := suite(t, nil)

	h := newHarness(t)
	require.NoError(t, h.execute(shellArgs("run", workDir)...))

	doc, err := report.Load(filepath.Join(unitDir, config.DefaultReportFile))
	require.NoError(t, err)
	assert.Zero(t, doc.Total)
	assert.Empty(t, doc.Rows)
	assert.Contains(t, h.out.String(), "No units to execute")
}

func TestRunCommand_FatalErrors(t *testing.T) {
	workDir, unitDir := suite(t, map[string]string{"TC001_pass.sh": "exit 0\n"})

	blocker := filepath.Join(workDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	tests := []struct {
		name     string
		args     []string
		exitCode int
	}{
		{
			name:     "missing root",
			args:     []string{"run", "--work-dir", workDir, "--root", "nope"},
			exitCode: domain.ExitDiscovery,
		},
		{
			name:     "invalid timeout",
			args:     shellArgs("run", workDir, "--timeout", "0s"),
			exitCode: domain.ExitConfig,
		},
		{
			name:     "invalid log format",
			args:     shellArgs("run", workDir, "--log-format", "xml"),
			exitCode: domain.ExitConfig,
		},
		{
			name:     "unwritable report",
			args:     shellArgs("run", workDir, "--report", filepath.Join(blocker, "report.md")),
			exitCode: domain.ExitReportWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newHarness(t).execute(tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, domain.ExitCodeOf(err))
		})
	}

	_, err := os.Stat(filepath.Join(unitDir, config.DefaultReportFile))
	assert.True(t, os.IsNotExist(err), "no fatal run writes a default report")
}

func TestListCommand(t *testing.T) {
	workDir, unitDir := suite(t, map[string]string{
		"TC001_a.sh": "exit 0\n",
		"TC002_b.sh": "exit 1\n",
		"other.sh":   "exit 0\n",
	})

	t.Run("plain list", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute(shellArgs("list", workDir)...))

		expected := "Found 2 unit(s) in " + unitDir + ":\n\n" +
			"├── TC001_a.sh\n" +
			"└── TC002_b.sh\n"
		assert.Equal(t, expected, h.out.String())
	})

	t.Run("failures from the last report are marked", func(t *testing.T) {
		require.NoError(t, newHarness(t).execute(shellArgs("run", workDir)...))

		h := newHarness(t)
		require.NoError(t, h.execute(shellArgs("list", workDir)...))
		assert.Contains(t, h.out.String(), "└── TC002_b.sh [F]\n")
		assert.Contains(t, h.out.String(), "├── TC001_a.sh\n")
	})

	t.Run("filter", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute(shellArgs("list", workDir, "--filter", "*002*")...))
		assert.Contains(t, h.out.String(), "Found 1 unit(s)")
	})
}

func TestFailuresCommand(t *testing.T) {
	workDir, _ := suite(t, map[string]string{
		"TC001_a.sh": "exit 0\n",
		"TC002_b.sh": "echo 'Error: | broken' >&2\nexit 1\n",
	})

	t.Run("missing report", func(t *testing.T) {
		err := newHarness(t).execute("failures", "--work-dir", workDir, "--root", "units")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run the suite first")
	})

	require.NoError(t, newHarness(t).execute(shellArgs("run", workDir)...))

	t.Run("viewer gets persisted failures", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute("failures", "--work-dir", workDir, "--root", "units"))

		require.Len(t, h.viewer.failures, 1)
		assert.Equal(t, "TC002_b.sh", h.viewer.failures[0].Name)
		assert.Equal(t, "Error: | broken", h.viewer.failures[0].Note)
	})

	t.Run("print", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute("failures", "--work-dir", workDir, "--root", "units", "--print"))

		assert.Zero(t, h.viewer.calls)
		assert.Contains(t, h.out.String(), "TC002_b.sh")
		assert.NotContains(t, h.out.String(), "TC001_a.sh")
	})
}

func TestNormalizeCommand(t *testing.T) {
	source := "goto('http://localhost:3001/http://localhost:3001/x', timeout=5000)\n"
	workDir, unitDir := suite(t, map[string]string{"TC001_a.sh": source})
	path := filepath.Join(unitDir, "TC001_a.sh")

	t.Run("dry run", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute(shellArgs("normalize", workDir, "--dry-run")...))

		assert.Contains(t, h.out.String(), "Fixed "+path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, source, string(data))
	})

	t.Run("custom rewrites", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute(shellArgs("normalize", workDir, "--timeout-rewrites", "5000=45000")...))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "goto('http://localhost:3001/x', timeout=45000)\n", string(data))
	})
	t.Run("nested sources", func(t *testing.T) {
		workDir, unitDir := suite(t, map[string]string{
			"TC001_a.sh":       "wait(timeout=5000)\n",
			"admin/TC002_b.sh": source,
		})
		h := newHarness(t)
		require.NoError(t, h.execute(shellArgs("normalize", workDir)...))

		nested := filepath.Join(unitDir, "admin", "TC002_b.sh")
		assert.Contains(t, h.out.String(), "Fixed "+nested)
		data, err := os.ReadFile(nested)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "localhost:3001/http://")
	})
}
