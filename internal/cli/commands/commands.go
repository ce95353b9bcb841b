package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"suiterun/internal/cli"
	"suiterun/internal/config"
	"suiterun/internal/domain"
	"suiterun/internal/logging"
)

// Commands holds all CLI commands
type Commands struct {
	Run       *RunCommand
	List      *ListCommand
	Normalize *NormalizeCommand
	Failures  *FailuresCommand
}

// NewCommands creates all commands. Every command loads its configuration from
// v once its flags are parsed.
func NewCommands(v *viper.Viper) *Commands {
	return &Commands{
		Run:       NewRunCommand(v),
		List:      NewListCommand(v),
		Normalize: NewNormalizeCommand(v),
		Failures:  NewFailuresCommand(v),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command) {
	cli.AddGlobalFlags(rootCmd.PersistentFlags())

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run every discovered unit and write the report",
		Long:  "Discover units under the root directory, run them one at a time in name order, classify failures and write a Markdown report",
		Args:  cobra.NoArgs,
		RunE:  c.Run.Execute,
	}
	cli.AddDiscoveryFlags(runCmd.Flags())
	cli.AddRunFlags(runCmd.Flags())
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered units",
		Long:  "Scan and list units without executing them. Units that failed in the last report are marked [F].",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	cli.AddDiscoveryFlags(listCmd.Flags())
	listCmd.Flags().BoolP("cases", "c", false, "Also list the test functions inside each unit")
	listCmd.Flags().StringP("report", "o", "", "Report used for [F] markers (default <root>/"+config.DefaultReportFile+")")
	rootCmd.AddCommand(listCmd)

	// Normalize command
	normalizeCmd := &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite unit sources before a run",
		Long:  "Collapse duplicated URL prefixes and raise literal timeout values in every discovered unit source",
		Args:  cobra.NoArgs,
		RunE:  c.Normalize.Execute,
	}
	cli.AddDiscoveryFlags(normalizeCmd.Flags())
	normalizeCmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	normalizeCmd.Flags().StringToString("timeout-rewrites", nil, "Timeout literal rewrites as old=new pairs (default 10000=60000,5000=30000,3000=15000)")
	rootCmd.AddCommand(normalizeCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View failures of the last run",
		Long:  "Read the last report and display its failed and errored units in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Failures.Execute,
	}
	failuresCmd.Flags().StringP("root", "r", config.DefaultRootDir, "Directory containing the units")
	failuresCmd.Flags().StringP("report", "o", "", "Report to read (default <root>/"+config.DefaultReportFile+")")
	failuresCmd.Flags().Bool(cli.FlagPrint, false, "Print a table instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)
}

// loadConfig binds the parsed flags of cmd and loads the invocation's config
func loadConfig(v *viper.Viper, cmd *cobra.Command) (*config.Config, error) {
	if err := cli.BindFlags(v, cmd.Flags()); err != nil {
		return nil, domain.ConfigError(err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, domain.ConfigError(err)
	}
	return cfg, nil
}

// newLogger builds the invocation's logger writing to the command's stderr
func newLogger(cfg *config.Config, cmd *cobra.Command) (*logrus.Logger, error) {
	logger, err := logging.New(cli.LogLevel(cmd.Flags(), cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, domain.ConfigError(err)
	}
	return logger, nil
}
