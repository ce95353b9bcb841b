package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys shared by flags, the config file and SUITERUN_* environment variables
const (
	KeyConfigFile      = "config"
	KeyRootDir         = "root"
	KeyWorkDir         = "work_dir"
	KeyPrefix          = "prefix"
	KeyExtension       = "extension"
	KeyInterpreter     = "interpreter"
	KeyInterpreterArgs = "interpreter_args"
	KeyTimeout         = "timeout"
	KeyTimeoutOverride = "timeout_override"
	KeyReportPath      = "report"
	KeyEnvFile         = "env_file"
	KeyNameFilter      = "filter"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyHealthURL       = "health_url"
	KeyHealthTimeout   = "health_timeout"
	KeyOpenFailures    = "open_failures"
	KeyShowCases       = "cases"
	KeyDryRun          = "dry_run"
	KeyTimeoutRewrites = "timeout_rewrites"
)

// Config holds all configuration for one invocation. It is built once by
// Load and never mutated afterwards.
type Config struct {
	// Discovery
	RootDir    string
	Prefix     string
	Extension  string
	NameFilter string

	// Execution
	WorkDir         string
	Interpreter     string
	InterpreterArgs []string
	Timeout         time.Duration
	TimeoutOverride time.Duration
	EnvFile         string

	// Output
	ReportPath   string
	LogLevel     string
	LogFormat    string
	OpenFailures bool
	ShowCases    bool

	// Preflight
	HealthURL     string
	HealthTimeout time.Duration

	// Normalize
	DryRun          bool
	TimeoutRewrites map[int]int
}

// NewViper returns a viper instance with defaults and SUITERUN_* env binding.
// Commands bind their flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyRootDir, DefaultRootDir)
	v.SetDefault(KeyWorkDir, DefaultWorkDir)
	v.SetDefault(KeyPrefix, DefaultPrefix)
	v.SetDefault(KeyExtension, DefaultExtension)
	v.SetDefault(KeyInterpreter, DefaultInterpreter)
	v.SetDefault(KeyInterpreterArgs, []string{})
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyTimeoutOverride, time.Duration(0))
	v.SetDefault(KeyReportPath, "")
	v.SetDefault(KeyEnvFile, DefaultEnvFile)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyHealthTimeout, DefaultHealthTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and builds a validated Config from v
func Load(v *viper.Viper) (*Config, error) {
	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	rewrites, err := parseRewrites(v.Get(KeyTimeoutRewrites))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RootDir:         v.GetString(KeyRootDir),
		Prefix:          v.GetString(KeyPrefix),
		Extension:       v.GetString(KeyExtension),
		NameFilter:      v.GetString(KeyNameFilter),
		WorkDir:         v.GetString(KeyWorkDir),
		Interpreter:     v.GetString(KeyInterpreter),
		InterpreterArgs: v.GetStringSlice(KeyInterpreterArgs),
		Timeout:         v.GetDuration(KeyTimeout),
		TimeoutOverride: v.GetDuration(KeyTimeoutOverride),
		EnvFile:         v.GetString(KeyEnvFile),
		ReportPath:      v.GetString(KeyReportPath),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		OpenFailures:    v.GetBool(KeyOpenFailures),
		ShowCases:       v.GetBool(KeyShowCases),
		HealthURL:       v.GetString(KeyHealthURL),
		HealthTimeout:   v.GetDuration(KeyHealthTimeout),
		DryRun:          v.GetBool(KeyDryRun),
		TimeoutRewrites: rewrites,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootDir) == "" {
		return fmt.Errorf("root directory cannot be empty")
	}
	if c.Prefix == "" && c.Extension == "" {
		return fmt.Errorf("prefix and extension cannot both be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.TimeoutOverride < 0 {
		return fmt.Errorf("timeout override cannot be negative, got %s", c.TimeoutOverride)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	return nil
}

// resolvePaths makes every path absolute, relative ones against WorkDir
func (c *Config) resolvePaths() error {
	workDir, err := filepath.Abs(c.WorkDir)
	if err != nil {
		return fmt.Errorf("resolve work dir: %w", err)
	}
	c.WorkDir = workDir
	c.RootDir = c.resolve(c.RootDir)
	if c.ReportPath == "" {
		c.ReportPath = filepath.Join(c.RootDir, DefaultReportFile)
	} else {
		c.ReportPath = c.resolve(c.ReportPath)
	}
	if c.EnvFile != "" {
		c.EnvFile = c.resolve(c.EnvFile)
	}
	return nil
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.WorkDir, path)
}

// UnitEnv returns the KEY=VALUE pairs from the env file, sorted by key.
// A missing env file yields no extra environment.
func (c *Config) UnitEnv() ([]string, error) {
	if c.EnvFile == "" {
		return nil, nil
	}
	values, err := godotenv.Read(c.EnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", c.EnvFile, err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+values[k])
	}
	return env, nil
}

// parseRewrites accepts a map (config file, StringToString flag) or a
// "old=new,old=new" string (environment variable).
func parseRewrites(raw any) (map[int]int, error) {
	pairs := map[string]string{}
	switch val := raw.(type) {
	case nil:
		return copyRewrites(DefaultTimeoutRewrites), nil
	case string:
		if strings.TrimSpace(val) == "" {
			return copyRewrites(DefaultTimeoutRewrites), nil
		}
		for _, part := range strings.Split(val, ",") {
			k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok {
				return nil, fmt.Errorf("invalid timeout rewrite %q, expected old=new", part)
			}
			pairs[k] = v
		}
	case map[string]string:
		pairs = val
	case map[string]any:
		for k, v := range val {
			pairs[k] = fmt.Sprint(v)
		}
	default:
		return nil, fmt.Errorf("unsupported timeout rewrites value %T", raw)
	}

	if len(pairs) == 0 {
		return copyRewrites(DefaultTimeoutRewrites), nil
	}

	rewrites := make(map[int]int, len(pairs))
	for k, v := range pairs {
		from, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("invalid timeout rewrite source %q: %w", k, err)
		}
		to, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid timeout rewrite target %q: %w", v, err)
		}
		rewrites[from] = to
	}
	return rewrites, nil
}

func copyRewrites(src map[int]int) map[int]int {
	dst := make(map[int]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
