package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"suiterun/internal/config"
)

// Flag names that are not config keys
const (
	FlagVerbose = "verbose"
	FlagPrint   = "print"
)

// flagKeys maps flag names to the config keys they override
var flagKeys = map[string]string{
	"config":           config.KeyConfigFile,
	"root":             config.KeyRootDir,
	"work-dir":         config.KeyWorkDir,
	"prefix":           config.KeyPrefix,
	"extension":        config.KeyExtension,
	"filter":           config.KeyNameFilter,
	"interpreter":      config.KeyInterpreter,
	"interpreter-arg":  config.KeyInterpreterArgs,
	"timeout":          config.KeyTimeout,
	"timeout-override": config.KeyTimeoutOverride,
	"report":           config.KeyReportPath,
	"env-file":         config.KeyEnvFile,
	"log-level":        config.KeyLogLevel,
	"log-format":       config.KeyLogFormat,
	"health-url":       config.KeyHealthURL,
	"health-timeout":   config.KeyHealthTimeout,
	"open-failures":    config.KeyOpenFailures,
	"cases":            config.KeyShowCases,
	"dry-run":          config.KeyDryRun,
	"timeout-rewrites": config.KeyTimeoutRewrites,
}

// AddGlobalFlags registers flags shared by every command
func AddGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a config file (default ./"+config.ConfigFileName+".yaml if present)")
	fs.StringP("work-dir", "w", config.DefaultWorkDir, "Working directory for units; relative paths resolve against it")
	fs.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.String("log-format", config.DefaultLogFormat, "Log format (text, json)")
	fs.BoolP(FlagVerbose, "v", false, "Shorthand for --log-level=debug")
}

// AddDiscoveryFlags registers the flags that select units
func AddDiscoveryFlags(fs *pflag.FlagSet) {
	fs.StringP("root", "r", config.DefaultRootDir, "Directory containing the units")
	fs.String("prefix", config.DefaultPrefix, "Filename prefix that marks a unit")
	fs.String("extension", config.DefaultExtension, "Filename extension that marks a unit")
	fs.StringP("filter", "f", "", "Filter units by name (supports wildcards, e.g. 'TC00*' or '*login*')")
}

// AddRunFlags registers the flags of the run command
func AddRunFlags(fs *pflag.FlagSet) {
	fs.StringP("interpreter", "i", config.DefaultInterpreter, "Program that runs each unit; empty executes the unit directly")
	fs.StringSlice("interpreter-arg", nil, "Extra argument passed to the interpreter before the unit path (repeatable)")
	fs.DurationP("timeout", "t", config.DefaultTimeout, "Default wall-clock budget per unit")
	fs.Duration("timeout-override", 0, "Budget applied to every unit regardless of its default")
	fs.StringP("report", "o", "", "Report path (default <root>/"+config.DefaultReportFile+")")
	fs.String("env-file", config.DefaultEnvFile, "Dotenv file whose variables are passed to every unit")
	fs.String("health-url", "", "URL probed before the run; failures only warn")
	fs.Duration("health-timeout", config.DefaultHealthTimeout, "Timeout of the health probe")
	fs.Bool("open-failures", false, "Open the failure viewer when the run finishes with failures")
}

// BindFlags binds every config-backed flag in fs to v so that flags take
// precedence over the config file and environment.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(flag *pflag.Flag) {
		key, ok := flagKeys[flag.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, flag); err != nil {
			bindErr = fmt.Errorf("bind flag --%s: %w", flag.Name, err)
		}
	})
	return bindErr
}

// LogLevel returns the effective log level, honouring --verbose
func LogLevel(fs *pflag.FlagSet, configured string) string {
	if verbose, err := fs.GetBool(FlagVerbose); err == nil && verbose {
		return "debug"
	}
	return configured
}
