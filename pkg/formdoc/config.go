package formdoc

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultImageHeightCm is the height of every image placed in the image cell.
const DefaultImageHeightCm = 7.5

// Config contains all configuration options for the document engine
type Config struct {
	// TemplatePath points at the .docx template. Empty uses the embedded default template.
	TemplatePath string `yaml:"template_path"`
	// ImageHeightCm is the height of each laid-out image in centimeters.
	ImageHeightCm float64 `yaml:"image_height_cm"`
	// WorkDir is the parent directory for merge working areas. Empty uses os.TempDir().
	WorkDir string `yaml:"work_dir"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// globalConfig is initialized before any package-level engine that reads it.
var (
	globalConfig      = ConfigFromEnvironment()
	globalConfigMutex sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TemplatePath:  "",
		ImageHeightCm: DefaultImageHeightCm,
		WorkDir:       "",
		LogLevel:      "info",
		CacheMaxSize:  16,
		CacheTTL:      0,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// FORMDOC_TEMPLATE
	if val := os.Getenv("FORMDOC_TEMPLATE"); val != "" {
		config.TemplatePath = val
	}

	// FORMDOC_IMAGE_HEIGHT_CM
	if val := os.Getenv("FORMDOC_IMAGE_HEIGHT_CM"); val != "" {
		if height, err := strconv.ParseFloat(val, 64); err == nil {
			config.ImageHeightCm = height
		}
	}

	// FORMDOC_WORK_DIR
	if val := os.Getenv("FORMDOC_WORK_DIR"); val != "" {
		config.WorkDir = val
	}

	// FORMDOC_LOG_LEVEL
	if val := os.Getenv("FORMDOC_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// FORMDOC_CACHE_MAX_SIZE
	if val := os.Getenv("FORMDOC_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// FORMDOC_CACHE_TTL
	if val := os.Getenv("FORMDOC_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	return config
}

// LoadConfigFile reads a YAML configuration file. Keys missing from the file keep
// their default values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.ImageHeightCm == 0 {
		config.ImageHeightCm = defaults.ImageHeightCm
	}

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !validImageHeight(c.ImageHeightCm) {
		return errors.New("image height must be positive")
	}

	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.WorkDir != "" {
		info, err := os.Stat(c.WorkDir)
		if err != nil {
			return fmt.Errorf("work dir: %w", err)
		}
		if !info.IsDir() {
			return errors.New("work dir is not a directory: " + c.WorkDir)
		}
	}

	return nil
}

func validImageHeight(cm float64) bool {
	return cm > 0 && !math.IsInf(cm, 1)
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	UpdateLoggerFromConfig()
}
