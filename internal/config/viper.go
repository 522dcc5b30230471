// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key looked up in the environment.
const EnvPrefix = "EPSILON"

// LogConfig controls the logrus level and formatter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// PathsConfig holds the default locations of every input and output of a run.
type PathsConfig struct {
	DataDir     string `mapstructure:"data_dir" yaml:"data_dir"`
	Credentials string `mapstructure:"credentials" yaml:"credentials"`
	Settings    string `mapstructure:"settings" yaml:"settings"`
	InvoicesDir string `mapstructure:"invoices_dir" yaml:"invoices_dir"`
	ExportsDir  string `mapstructure:"exports_dir" yaml:"exports_dir"`
	ClientDBDir string `mapstructure:"clientdb_dir" yaml:"clientdb_dir"`
}

// ExportConfig tunes what happens around the workbook write.
type ExportConfig struct {
	// IssuesCSV opts in to writing issues_<vat>.csv next to the would-be workbook
	// when the export is blocked. Off by default: a blocked export writes nothing.
	IssuesCSV bool `mapstructure:"issues_csv" yaml:"issues_csv"`
}

// Config represents the complete application configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Paths  PathsConfig  `mapstructure:"paths" yaml:"paths"`
	Export ExportConfig `mapstructure:"export" yaml:"export"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load builds the configuration from defaults, an optional config file and the
// environment. An explicit configFile must exist; otherwise config.yaml is looked
// up in the usual locations and silently skipped when absent.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.epsilon-export")
		v.AddConfigPath(".epsilon-export")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Plain LOG_LEVEL / LOG_FORMAT are honoured as well
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		fmt.Printf("Warning: failed to bind LOG_LEVEL environment variable: %v\n", err)
	}
	if err := v.BindEnv("log.format", EnvPrefix+"_LOG_FORMAT", "LOG_FORMAT"); err != nil {
		fmt.Printf("Warning: failed to bind LOG_FORMAT environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("paths.data_dir", "data")
	v.SetDefault("paths.credentials", "data/credentials.json")
	v.SetDefault("paths.settings", "data/credentials_settings.json")
	v.SetDefault("paths.invoices_dir", "data/epsilon")
	v.SetDefault("paths.exports_dir", "exports")
	v.SetDefault("paths.clientdb_dir", "data/clientdb")

	v.SetDefault("export.issues_csv", false)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Paths.ExportsDir) == "" {
		return fmt.Errorf("paths.exports_dir must not be empty")
	}

	if strings.TrimSpace(config.Paths.InvoicesDir) == "" {
		return fmt.Errorf("paths.invoices_dir must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
