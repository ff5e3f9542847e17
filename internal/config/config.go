// Package config handles scriptrun configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (SCRIPTRUN_*)
//  2. Config file (<user config dir>/scriptrun/config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/musher-dev/scriptrun/internal/paths"
)

const (
	// DefaultLogLevel is the default structured log level.
	DefaultLogLevel = "info"
	// DefaultLogFormat is the default structured log format.
	DefaultLogFormat = "json"
	// DefaultLogStderr is the default stderr sink mode.
	DefaultLogStderr = "auto"
)

// Config holds the scriptrun configuration.
type Config struct {
	v *viper.Viper
}

// Load reads configuration from all sources.
func Load() *Config {
	v := viper.New()

	// Set defaults
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.file", "")
	v.SetDefault("log.stderr", DefaultLogStderr)
	v.SetDefault("output.color", true)

	// Config file location
	if configDir, err := paths.ConfigRoot(); err == nil {
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("SCRIPTRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found, but warn on other errors)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}

	return &Config{v: v}
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetBool returns a configuration value as bool.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value interface{}) error {
	c.v.Set(key, value)

	configFile, err := paths.ConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
		return err
	}

	return c.v.WriteConfigAs(configFile)
}

// All returns all configuration as a map.
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() string {
	return c.GetString("log.level")
}

// LogFormat returns the configured log format.
func (c *Config) LogFormat() string {
	return c.GetString("log.format")
}

// LogFile returns the configured log file path, if any.
func (c *Config) LogFile() string {
	return c.GetString("log.file")
}

// LogStderr returns the configured stderr sink mode.
func (c *Config) LogStderr() string {
	return c.GetString("log.stderr")
}

// ColorEnabled reports whether colored output is allowed.
func (c *Config) ColorEnabled() bool {
	return c.GetBool("output.color")
}
