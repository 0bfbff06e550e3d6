package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "fukuro"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "FUKURO"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	// Use the global viper instance to ensure flag bindings work
	return &Loader{v: viper.GetViper()}
}

// Load loads configuration from files, environment variables, and sets defaults.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")

	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars apply.
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Get returns a value from the configuration.
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// Set sets a value in the configuration.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	// Current directory
	l.v.AddConfigPath(".")

	// User's home directory
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	// System-wide configuration
	l.v.AddConfigPath("/etc/fukuro")

	// XDG config directory
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "fukuro"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "fukuro"))
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	// Extraction defaults
	ext := defaults.Pipeline.Extract
	l.v.SetDefault("pipeline.extract.points_to_mm", ext.PointsToMM)
	l.v.SetDefault("pipeline.extract.page_midpoint_y", ext.PageMidpointY)
	l.v.SetDefault("pipeline.extract.die_line_colors", ext.DieLineColors)
	l.v.SetDefault("pipeline.extract.fold_line_colors", ext.FoldLineColors)
	l.v.SetDefault("pipeline.extract.notch_max_size", ext.NotchMaxSize)
	l.v.SetDefault("pipeline.extract.notch_max_y", ext.NotchMaxY)
	l.v.SetDefault("pipeline.extract.horizontal_ratio", ext.HorizontalRatio)
	l.v.SetDefault("pipeline.extract.parallel_gap", ext.ParallelGap)
	l.v.SetDefault("pipeline.extract.line_y_window", ext.LineYWindow)
	l.v.SetDefault("pipeline.extract.hole_max_size", ext.HoleMaxSize)
	l.v.SetDefault("pipeline.extract.hole_max_y", ext.HoleMaxY)
	l.v.SetDefault("pipeline.extract.euro_slot_min_aspect", ext.EuroSlotMinAspect)
	l.v.SetDefault("pipeline.extract.euro_slot_max_aspect", ext.EuroSlotMaxAspect)
	l.v.SetDefault("pipeline.extract.euro_slot_max_width", ext.EuroSlotMaxWidth)
	l.v.SetDefault("pipeline.extract.stand_aspect_min", ext.StandAspectMin)
	l.v.SetDefault("pipeline.extract.box_aspect_max", ext.BoxAspectMax)

	// Scoring defaults
	conf := defaults.Pipeline.Confidence
	l.v.SetDefault("pipeline.confidence.weights.size", conf.Weights.Size)
	l.v.SetDefault("pipeline.confidence.weights.envelope_type", conf.Weights.EnvelopeType)
	l.v.SetDefault("pipeline.confidence.weights.material_structure", conf.Weights.MaterialStructure)
	l.v.SetDefault("pipeline.confidence.weights.gusset", conf.Weights.Gusset)
	l.v.SetDefault("pipeline.confidence.weights.zipper", conf.Weights.Zipper)
	l.v.SetDefault("pipeline.confidence.weights.colors", conf.Weights.Colors)
	l.v.SetDefault("pipeline.confidence.weights.notch", conf.Weights.Notch)
	l.v.SetDefault("pipeline.confidence.weights.thickness", conf.Weights.Thickness)
	l.v.SetDefault("pipeline.confidence.weights.logo", conf.Weights.Logo)
	l.v.SetDefault("pipeline.confidence.size_tolerance_mm", conf.SizeToleranceMM)
	l.v.SetDefault("pipeline.confidence.conflict_gap", conf.ConflictGap)
	l.v.SetDefault("pipeline.confidence.error_threshold", conf.ErrorThreshold)
	l.v.SetDefault("pipeline.confidence.warning_threshold", conf.WarningThreshold)

	// Parallel defaults
	l.v.SetDefault("pipeline.parallel.max_workers", defaults.Pipeline.Parallel.MaxWorkers)

	// Output defaults
	l.v.SetDefault("output.format", defaults.Output.Format)

	// Server defaults
	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", defaults.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	// Batch defaults
	l.v.SetDefault("batch.workers", defaults.Batch.Workers)
	l.v.SetDefault("batch.recursive", defaults.Batch.Recursive)
	l.v.SetDefault("batch.continue_on_error", defaults.Batch.ContinueOnError)
}

// GetResolvedConfig returns the current resolved configuration for debugging.
func (l *Loader) GetResolvedConfig() map[string]interface{} {
	return l.v.AllSettings()
}

// WriteConfigToFile writes the current configuration to a file.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile generates a default configuration file.
func GenerateDefaultConfigFile(filename string) error {
	loader := NewLoader()
	loader.setDefaults()

	if filename == "" {
		filename = "fukuro.yaml"
	}

	return loader.WriteConfigToFile(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "fukuro"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "fukuro"))
	}

	paths = append(paths, "/etc/fukuro")

	return paths
}
