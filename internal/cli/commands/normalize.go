package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"suiterun/internal/discovery"
	"suiterun/internal/normalize"
)

// NormalizeCommand handles the normalize command
type NormalizeCommand struct {
	viper *viper.Viper
}

// NewNormalizeCommand creates a new NormalizeCommand
func NewNormalizeCommand(v *viper.Viper) *NormalizeCommand {
	return &NormalizeCommand{viper: v}
}

// Execute runs the command
func (nc *NormalizeCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nc.viper, cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd)
	if err != nil {
		return err
	}

	// Sources in subdirectories are rewritten too, unlike the flat run discovery.
	units, err := discovery.NewScanner(cfg.Prefix, cfg.Extension, cfg.Timeout).ScanTree(cfg.RootDir)
	if err != nil {
		return err
	}
	units = discovery.NewFilter().FilterByName(units, cfg.NameFilter)

	if len(units) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("No units found"))
		return nil
	}

	normalizer := normalize.NewSourceNormalizer(
		normalize.DefaultRules(cfg.TimeoutRewrites),
		cmd.OutOrStdout(),
		logger,
	)
	_, err = normalizer.Run(units, cfg.DryRun)
	return err
}
