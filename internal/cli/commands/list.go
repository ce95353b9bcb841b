package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"suiterun/internal/discovery"
	"suiterun/internal/domain"
	"suiterun/internal/report"
	"suiterun/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	viper *viper.Viper
}

// NewListCommand creates a new ListCommand
func NewListCommand(v *viper.Viper) *ListCommand {
	return &ListCommand{viper: v}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(lc.viper, cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd)
	if err != nil {
		return err
	}

	units, err := discovery.NewScanner(cfg.Prefix, cfg.Extension, cfg.Timeout).Scan(cfg.RootDir)
	if err != nil {
		return err
	}
	units = discovery.NewFilter().FilterByName(units, cfg.NameFilter)

	out := cmd.OutOrStdout()
	if len(units) == 0 {
		fmt.Fprintln(out, color.YellowString("No units found"))
		return nil
	}

	// Mark units that failed last time; a missing report just means no markers.
	failed := map[string]struct{}{}
	doc, err := report.Load(cfg.ReportPath)
	switch {
	case err == nil:
		for _, row := range doc.Rows {
			if row.Status != domain.StatusPass {
				failed[row.Name] = struct{}{}
			}
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		logger.WithError(err).WithField("report", cfg.ReportPath).Warn("Could not read last report")
	}

	ui.NewFormatter(out, discovery.NewCaseFinder()).PrintTestList(units, cfg.RootDir, cfg.ShowCases, failed)
	return nil
}
