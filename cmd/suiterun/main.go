package main

import (
	"fmt"
	"os"

	"suiterun/internal/cli/commands"
	"suiterun/internal/config"
	"suiterun/internal/domain"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "suiterun",
		Short:         "Sequential end-to-end suite runner",
		Long:          `Discovers end-to-end test units, runs each one in its own process with a timeout, classifies failures and writes a Markdown report.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Defaults and SUITERUN_* environment; flags are bound per command
	v := config.NewViper()

	// Create and register commands
	cmds := commands.NewCommands(v)
	cmds.Register(rootCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(domain.ExitCodeOf(err))
	}
}
