package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"suiterun/internal/config"
	"suiterun/internal/discovery"
	"suiterun/internal/domain"
	"suiterun/internal/execution"
	"suiterun/internal/health"
	"suiterun/internal/parser"
	"suiterun/internal/report"
	"suiterun/internal/ui"
)

// ErrInterrupted is returned when a run was cut short by a signal. The report
// is still written before it is returned.
var ErrInterrupted = errors.New("run interrupted")

// RunCommand handles the run command
type RunCommand struct {
	viper *viper.Viper
	// newViewer builds the failure viewer; replaced in tests
	newViewer func(cmd *cobra.Command) ui.Viewer
	// now stamps the report
	now func() time.Time
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(v *viper.Viper) *RunCommand {
	return &RunCommand{
		viper: v,
		newViewer: func(cmd *cobra.Command) ui.Viewer {
			return ui.NewFailureViewer(cmd.OutOrStdout())
		},
		now: time.Now,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(rc.viper, cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.WithField("run_id", runID)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := cfg.UnitEnv()
	if err != nil {
		return domain.ConfigError(err)
	}

	// Discover units
	scanner := discovery.NewScanner(cfg.Prefix, cfg.Extension, cfg.Timeout)
	units, err := scanner.Scan(cfg.RootDir)
	if err != nil {
		return err
	}
	units = discovery.NewFilter().FilterByName(units, cfg.NameFilter)

	log.WithFields(logrus.Fields{
		"root":   cfg.RootDir,
		"units":  len(units),
		"filter": cfg.NameFilter,
	}).Info("Discovered units")

	out := cmd.OutOrStdout()
	formatter := ui.NewFormatter(out, discovery.NewCaseFinder())
	formatter.PrintBanner(runID, len(units), cfg.RootDir)

	if cfg.HealthURL != "" {
		rc.preflight(ctx, cfg, cmd, log)
	}

	if len(units) == 0 {
		fmt.Fprintln(out, color.YellowString("No units to execute"))
	}

	runner := execution.NewRunner(cfg, env, log)
	orchestrator := execution.NewSequential(runner, parser.NewMarkerClassifier(), log)
	if len(units) > 0 {
		orchestrator.SetProgress(ui.NewProgressBar(len(units), cmd.ErrOrStderr()))
	}

	started := time.Now()
	summary, err := orchestrator.Execute(ctx, units)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"total":    summary.Total,
		"passed":   summary.Passed,
		"failed":   summary.Failed,
		"duration": time.Since(started).Round(time.Millisecond),
	}).Info("Run finished")

	reporter, err := report.NewMarkdownReporter()
	if err != nil {
		return err
	}
	if err := reporter.Write(cfg.ReportPath, summary, units, rc.now()); err != nil {
		return err
	}

	if err := formatter.PrintSummary(summary, units, cfg.ReportPath); err != nil {
		return err
	}

	if ctx.Err() != nil {
		log.Warn("Run interrupted; remaining units were not executed")
		return ErrInterrupted
	}

	if cfg.OpenFailures && summary.Failed > 0 {
		return rc.newViewer(cmd).View(ui.FailuresFromSummary(summary, units))
	}
	return nil
}

// preflight probes the health URL. Failures only warn; they never stop the run.
func (rc *RunCommand) preflight(ctx context.Context, cfg *config.Config, cmd *cobra.Command, log logrus.FieldLogger) {
	checker := health.NewChecker(cfg.HealthTimeout)
	if err := checker.Check(ctx, cfg.HealthURL); err != nil {
		log.WithError(err).WithField("url", cfg.HealthURL).Warn("Health check failed")
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("⚠ Health check failed: %v", err))
		return
	}
	log.WithField("url", cfg.HealthURL).Debug("Health check passed")
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Health check passed: %s", cfg.HealthURL))
}
