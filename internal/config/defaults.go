package config

import "time"

const (
	// DefaultRootDir is the folder scanned for test units, relative to the work dir
	DefaultRootDir = "testsprite_tests"
	// DefaultWorkDir is the directory every child process is launched in
	DefaultWorkDir = "."
	// DefaultPrefix is the file name prefix identifying a test unit
	DefaultPrefix = "TC"
	// DefaultExtension is the file extension identifying a test unit
	DefaultExtension = ".py"
	// DefaultInterpreter launches each unit; empty means the unit is executed directly
	DefaultInterpreter = "python3"
	// DefaultTimeout is the wall-clock budget of a single unit
	DefaultTimeout = 5 * time.Minute
	// DefaultReportFile is the report file name, placed in the root dir unless overridden
	DefaultReportFile = "final_manual_report.md"
	// DefaultEnvFile holds extra environment for the units, relative to the work dir
	DefaultEnvFile = ".env"
	// DefaultLogLevel keeps the progress bar readable
	DefaultLogLevel = "warn"
	// DefaultLogFormat is logrus' text formatter
	DefaultLogFormat = "text"
	// DefaultHealthTimeout bounds the preflight probe
	DefaultHealthTimeout = 10 * time.Second
	// ConfigFileName is looked up in the current directory (suiterun.yaml)
	ConfigFileName = "suiterun"
	// EnvPrefix namespaces environment overrides, e.g. SUITERUN_TIMEOUT=90s
	EnvPrefix = "SUITERUN"
)

// DefaultTimeoutRewrites are the literal timeout values rewritten by normalize
var DefaultTimeoutRewrites = map[int]int{
	10000: 60000,
	5000:  30000,
	3000:  15000,
}
