package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"suiterun/internal/cli"
	"suiterun/internal/discovery"
	"suiterun/internal/report"
	"suiterun/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	viper *viper.Viper
	// newViewer builds the failure viewer; replaced in tests
	newViewer func(cmd *cobra.Command) ui.Viewer
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(v *viper.Viper) *FailuresCommand {
	return &FailuresCommand{
		viper: v,
		newViewer: func(cmd *cobra.Command) ui.Viewer {
			return ui.NewFailureViewer(cmd.OutOrStdout())
		},
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(fc.viper, cmd)
	if err != nil {
		return err
	}

	doc, err := report.Load(cfg.ReportPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no report at %s; run the suite first", cfg.ReportPath)
		}
		return err
	}

	if printOnly, _ := cmd.Flags().GetBool(cli.FlagPrint); printOnly {
		ui.NewFormatter(cmd.OutOrStdout(), discovery.NewCaseFinder()).PrintReport(doc, cfg.ReportPath)
		return nil
	}
	return fc.newViewer(cmd).View(ui.FailuresFromDocument(doc))
}
