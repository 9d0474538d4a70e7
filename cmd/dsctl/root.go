package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dskit/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string

	// cfg is loaded before every command runs.
	cfg = defaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "dsctl",
	Short: "Probe allocators and run ownership scenarios",
	Long: `dsctl drives the dskit allocators and ownership wrappers.
It can probe an allocator with arbitrary request sizes, run the built-in
Unique/Shared/Persistent scenarios against a counting allocator, and call the
filesystem wrapper directly.

Settings are read from flags, DSCTL_* environment variables and an optional
config file (--config).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd.Flags(), configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		initLogging(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("allocator", defaultAllocator, "Allocator: heap, heap-nt, mmap or bump")
	rootCmd.PersistentFlags().Uint64("limit", 0, "Live-byte budget for the allocator (0 = unlimited)")
	rootCmd.PersistentFlags().String("log-level", "", "Log allocator calls at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", string(logger.FormatText), "Log format: text or json")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogging enables the module logger when a level is configured, or at
// debug level with --verbose.
func initLogging(c *Config) {
	level := c.Log.Level
	if level == "" && verbose {
		level = "debug"
	}
	if level == "" {
		logger.Init(logger.Options{})
		return
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	logger.Init(logger.Options{
		Enabled: true,
		Format:  logger.Format(c.Log.Format),
		Level:   l,
		Prefix:  "dsctl",
	})
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
