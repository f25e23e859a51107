package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/pkg/calendar"
)

// Configuration keys. They double as flag names.
const (
	KeyConfigFile       = "config"
	KeyDataDir          = "dataDir"
	KeyQuarter          = "quarter"
	KeyLogLevel         = "logLevel"
	KeyDevelopment      = "development"
	KeyOutput           = "output"
	KeyMetricsNamespace = "metricsNamespace"
	KeyStorage          = "storage"
)

const (
	// EnvPrefix is prepended to every environment variable.
	EnvPrefix = "CAPEST"

	DefaultDirName          = ".capest"
	DefaultConfigFileName   = "config.yaml"
	DefaultMetricsNamespace = "capest"

	OutputTable = "table"
	OutputJSON  = "json"

	StorageFile   = "file"
	StorageMemory = "memory"
)

var (
	validOutputs  = []string{OutputTable, OutputJSON}
	validStorages = []string{StorageFile, StorageMemory}
)

// Config holds the resolved planner settings.
type Config struct {
	// DataDir is where the file backend keeps one JSON file per collection.
	DataDir string `mapstructure:"dataDir" yaml:"dataDir"`

	// Quarter is the quarter id commands act on, e.g. "Q3-2025".
	Quarter string `mapstructure:"quarter" yaml:"quarter"`

	LogLevel    string `mapstructure:"logLevel" yaml:"logLevel"`
	Development bool   `mapstructure:"development" yaml:"development"`

	// Output selects how commands print results: table or json.
	Output string `mapstructure:"output" yaml:"output"`

	// MetricsNamespace prefixes every exported gauge.
	MetricsNamespace string `mapstructure:"metricsNamespace" yaml:"metricsNamespace"`

	// Storage selects the persistence backend: file or memory.
	Storage string `mapstructure:"storage" yaml:"storage"`
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid logLevel: %w", err)
	}
	if !slices.Contains(validOutputs, c.Output) {
		return fmt.Errorf("output must be one of %v, got %q", validOutputs, c.Output)
	}
	if !slices.Contains(validStorages, c.Storage) {
		return fmt.Errorf("storage must be one of %v, got %q", validStorages, c.Storage)
	}
	if c.Storage == StorageFile && c.DataDir == "" {
		return errors.New("dataDir is required for file storage")
	}
	if _, _, err := calendar.ParseQuarterID(c.Quarter); err != nil {
		return fmt.Errorf("invalid quarter: %w", err)
	}
	if c.MetricsNamespace == "" {
		return errors.New("metricsNamespace must not be empty")
	}
	return nil
}

// Verbosity returns the logr verbosity for LogLevel.
func (c *Config) Verbosity() int {
	v, _ := logging.ParseLevel(c.LogLevel)
	return v
}

// DefaultDataDir returns $HOME/.capest, or .capest when no home directory is set.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// SetDefaults registers default values and environment binding on v.
// now determines the default quarter.
func SetDefaults(v *viper.Viper, now time.Time) {
	v.SetDefault(KeyDataDir, DefaultDataDir())
	v.SetDefault(KeyQuarter, calendar.CurrentQuarterID(now))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDevelopment, false)
	v.SetDefault(KeyOutput, OutputTable)
	v.SetDefault(KeyMetricsNamespace, DefaultMetricsNamespace)
	v.SetDefault(KeyStorage, StorageFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// camelCase keys do not map onto SNAKE_CASE variables by themselves
	for key, env := range map[string]string{
		KeyDataDir:          "CAPEST_DATA_DIR",
		KeyLogLevel:         "CAPEST_LOG_LEVEL",
		KeyMetricsNamespace: "CAPEST_METRICS_NAMESPACE",
	} {
		_ = v.BindEnv(key, env)
	}
}

// ReadConfigFile reads the YAML config file named by the "config" key, or
// the default location under DataDir. A missing default file is not an error;
// a missing explicitly named file is.
func ReadConfigFile(v *viper.Viper) error {
	path := v.GetString(KeyConfigFile)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(v.GetString(KeyDataDir), DefaultConfigFileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// Load resolves the configuration held by v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
