// Package config provides configuration loading and management for the
// ocr tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opencodereview/opencodereview/format"
)

// Config represents the complete ocr configuration
type Config struct {
	Output OutputConfig `yaml:"output"`
	Limits LimitsConfig `yaml:"limits"`
	Author AuthorConfig `yaml:"author"`
	Watch  WatchConfig  `yaml:"watch"`
}

// OutputConfig configures serialization defaults
type OutputConfig struct {
	// Format is the serialization used when a destination has no
	// recognized extension (yaml, json, xml)
	Format string `yaml:"format"`
}

// LimitsConfig configures decode limits
type LimitsConfig struct {
	// MaxReplyDepth bounds reply nesting accepted when loading documents
	MaxReplyDepth int `yaml:"max_reply_depth"`
}

// AuthorConfig configures the identity recorded on new activities
type AuthorConfig struct {
	// Name is the author display name
	Name string `yaml:"name"`
	// Email is the author contact address
	Email string `yaml:"email"`
}

// WatchConfig configures the review file watcher
type WatchConfig struct {
	// DebounceDelay is how long to wait for more changes before reloading
	DebounceDelay string `yaml:"debounce_delay"`
}

// GetDebounceDelay returns the debounce delay as a duration.
func (c *WatchConfig) GetDebounceDelay() time.Duration {
	if c.DebounceDelay == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.DebounceDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: string(format.YAML),
		},
		Limits: LimitsConfig{
			MaxReplyDepth: format.DefaultMaxReplyDepth,
		},
		Author: AuthorConfig{
			Name:  "", // Optional; activities without it carry no author
			Email: "",
		},
		Watch: WatchConfig{
			DebounceDelay: "500ms",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := format.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format must be yaml, json, or xml, got %q", c.Output.Format)
	}
	if c.Limits.MaxReplyDepth < 1 {
		return fmt.Errorf("limits.max_reply_depth must be at least 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}

	// Limits
	if other.Limits.MaxReplyDepth != 0 {
		c.Limits.MaxReplyDepth = other.Limits.MaxReplyDepth
	}

	// Author
	if other.Author.Name != "" {
		c.Author.Name = other.Author.Name
	}
	if other.Author.Email != "" {
		c.Author.Email = other.Author.Email
	}

	// Watch
	if other.Watch.DebounceDelay != "" {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}
}
