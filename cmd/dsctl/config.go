package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joshuapare/dskit/internal/logger"
)

const (
	envPrefix        = "DSCTL"
	defaultAllocator = "heap"
)

// Config holds the settings shared by every dsctl command.
type Config struct {
	// Allocator selects the backing allocator: heap, heap-nt, mmap or bump.
	Allocator string `mapstructure:"allocator"`

	// Limit caps live bytes through a mem.Limited decorator. 0 disables it.
	Limit uint64 `mapstructure:"limit"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig controls the module logger.
type LogConfig struct {
	// Level enables logging at this level. Empty disables logging.
	Level string `mapstructure:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Allocator: defaultAllocator,
		Log:       LogConfig{Format: string(logger.FormatText)},
	}
}

// loadConfig layers defaults, the optional config file, DSCTL_* environment
// variables and explicitly set flags, in increasing priority.
func loadConfig(flags *pflag.FlagSet, path string) (*Config, error) {
	v := viper.New()

	defaults := defaultConfig()
	v.SetDefault("allocator", defaults.Allocator)
	v.SetDefault("limit", defaults.Limit)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{
			"allocator":  "allocator",
			"limit":      "limit",
			"log.level":  "log-level",
			"log.format": "log-format",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := allocatorKind(c.Allocator); err != nil {
		return nil, err
	}
	switch logger.Format(c.Log.Format) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return &c, nil
}
