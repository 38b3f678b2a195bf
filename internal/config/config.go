// Package config loads devcon settings. Sources, lowest precedence first:
// built-in defaults, a devcon.yaml (or .toml/.json) file, .env files,
// DEVCON_* environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"devconsole/internal/export"
	"devconsole/internal/logger"
)

// EnvPrefix is the prefix of environment variables read as settings.
const EnvPrefix = "DEVCON"

// Keys.
const (
	KeyMaxLogs        = "max_logs"
	KeyConsoleOutput  = "console_output"
	KeySourceTracking = "source_tracking"
	KeyHistorySize    = "history_size"
	KeyEval           = "eval"
	KeyExportDir      = "export_dir"
	KeyExportFormat   = "export_format"
	KeyStorageFile    = "storage_file"
	KeyHTTPTimeout    = "http_timeout"
	KeyOutput         = "output"
	KeyLogLevel       = "log_level"
	KeyLogFile        = "log_file"
	KeyTestMode       = "test_mode"
)

var defaults = map[string]any{
	KeyMaxLogs:        1000,
	KeyConsoleOutput:  false,
	KeySourceTracking: true,
	KeyHistorySize:    50,
	KeyEval:           false,
	KeyExportDir:      ".",
	KeyExportFormat:   export.FormatJSON,
	KeyStorageFile:    ".devcon-storage.env",
	KeyHTTPTimeout:    "30s",
	KeyOutput:         "auto",
	KeyLogLevel:       "",
	KeyLogFile:        "",
	KeyTestMode:       false,
}

// Config is the resolved configuration.
type Config struct {
	MaxLogs        int
	ConsoleOutput  bool
	SourceTracking bool
	HistorySize    int
	Eval           bool
	ExportDir      string
	ExportFormat   string
	StorageFile    string
	HTTPTimeout    time.Duration
	Output         string
	LogLevel       string
	LogFile        string
	TestMode       bool

	// File is the config file that was read, if any.
	File string
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile is an explicit config path. Empty searches for devcon.* in
	// the working directory.
	ConfigFile string
	// EnvFiles are dotenv files to read. Nil means ".env"; missing files are skipped.
	EnvFiles []string
	// Flags are bound by name, with '-' read as '_'.
	Flags *pflag.FlagSet
	// Environ replaces os.Environ for DEVCON_* lookups.
	Environ []string
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	file, err := readConfigFile(v, opts.ConfigFile)
	if err != nil {
		return Config{}, err
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := mergeDotEnv(v, path); err != nil {
			return Config{}, err
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	overrides := map[string]any{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if key, ok := settingKey(name); ok {
			overrides[key] = value
		}
	}
	if err := v.MergeConfigMap(overrides); err != nil {
		return Config{}, fmt.Errorf("failed to apply environment: %w", err)
	}

	if opts.Flags != nil {
		var bindErr error
		opts.Flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaults[key]; known && bindErr == nil {
				bindErr = v.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	cfg := Config{
		MaxLogs:        v.GetInt(KeyMaxLogs),
		ConsoleOutput:  v.GetBool(KeyConsoleOutput),
		SourceTracking: v.GetBool(KeySourceTracking),
		HistorySize:    v.GetInt(KeyHistorySize),
		Eval:           v.GetBool(KeyEval),
		ExportDir:      v.GetString(KeyExportDir),
		ExportFormat:   v.GetString(KeyExportFormat),
		StorageFile:    v.GetString(KeyStorageFile),
		HTTPTimeout:    v.GetDuration(KeyHTTPTimeout),
		Output:         v.GetString(KeyOutput),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFile:        v.GetString(KeyLogFile),
		TestMode:       v.GetBool(KeyTestMode),
		File:           file,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logger.Debug("Configuration loaded", "file", file, "max_logs", cfg.MaxLogs, "eval", cfg.Eval)
	return cfg, nil
}

// Validate checks value ranges and normalizes the export format.
func (c *Config) Validate() error {
	if c.MaxLogs <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyMaxLogs, c.MaxLogs)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyHistorySize, c.HistorySize)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyHTTPTimeout, c.HTTPTimeout)
	}
	format, err := export.ParseFormat(c.ExportFormat)
	if err != nil {
		return err
	}
	c.ExportFormat = format
	return nil
}

func readConfigFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return path, nil
	}

	v.SetConfigName("devcon")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// mergeDotEnv applies the DEVCON_* entries of a dotenv file.
func mergeDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	values := map[string]any{}
	for name, value := range envMap {
		if key, ok := settingKey(name); ok {
			values[key] = value
		}
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to apply .env file %s: %w", path, err)
	}
	return nil
}

// settingKey maps DEVCON_MAX_LOGS to max_logs for known settings.
func settingKey(envName string) (string, bool) {
	rest, ok := strings.CutPrefix(envName, EnvPrefix+"_")
	if !ok {
		return "", false
	}
	key := strings.ToLower(rest)
	_, known := defaults[key]
	return key, known
}
