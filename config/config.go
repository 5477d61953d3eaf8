package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/memfs/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultNotifyDelay is the notifier quiet period. Mutation bursts landing
	// within this window of each other are flushed as a single batch.
	DefaultNotifyDelay = 5 * time.Millisecond

	// DefaultSubscriberBuffer is the per-subscriber batch channel capacity
	DefaultSubscriberBuffer = 64
)

// Config contains runtime configuration values for the in-memory filesystem.
type Config struct {
	LogLvl           util.LogLevel // Log verbosity (Default info)
	NotifyDelay      time.Duration // Quiet period before change batches are flushed (Default 5ms)
	SubscriberBuffer int           // Capacity of each subscriber's batch channel (Default 64)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	LogLvl           *util.LogLevel `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	NotifyDelayMs    *int           `yaml:"notify_delay_ms,omitempty" json:"notify_delay_ms,omitempty"`
	SubscriberBuffer *int           `yaml:"subscriber_buffer,omitempty" json:"subscriber_buffer,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:           util.InfoLevel,
		NotifyDelay:      DefaultNotifyDelay,
		SubscriberBuffer: DefaultSubscriberBuffer,
	}
}

// NewConfig creates a Config from defaults with the given overrides applied.
// A nil override yields pure defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = *override.LogLvl
	}
	if override.NotifyDelayMs != nil {
		c.NotifyDelay = time.Duration(*override.NotifyDelayMs) * time.Millisecond
	}
	if override.SubscriberBuffer != nil {
		c.SubscriberBuffer = *override.SubscriberBuffer
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
