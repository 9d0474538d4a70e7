package main

import (
	"maps"
	"runtime"
	"runtime/debug"
	"slices"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dskit/internal/mmap"
	"github.com/joshuapare/dskit/mem"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Long: `The version command prints the dsctl release, the toolchain and module
versions it was built with, and the platform facts the allocators rely on.

Example:
  dsctl version
  dsctl version --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	}
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version      string            `json:"version"`
	Commit       string            `json:"commit"`
	Date         string            `json:"date"`
	GoVersion    string            `json:"go_version"`
	Module       string            `json:"module,omitempty"`
	Platform     string            `json:"platform"`
	PageSize     int               `json:"page_size"`
	DefaultAlign int               `json:"default_align"`
	Deps         map[string]string `json:"deps,omitempty"`
}

func buildVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:      version,
		Commit:       commit,
		Date:         date,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		PageSize:     mmap.PageSize,
		DefaultAlign: int(mem.DefaultAlign),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Module = bi.Main.Path
	if version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	if len(bi.Deps) > 0 {
		info.Deps = make(map[string]string, len(bi.Deps))
		for _, d := range bi.Deps {
			if d.Replace != nil {
				d = d.Replace
			}
			info.Deps[d.Path] = d.Version
		}
	}
	return info
}

func runVersion() error {
	info := buildVersionInfo()
	if jsonOut {
		return printJSON(info)
	}

	printInfo("dsctl %s\n", info.Version)
	printInfo("  commit: %s\n", info.Commit)
	printInfo("  built: %s\n", info.Date)
	printInfo("  go: %s %s\n", info.GoVersion, info.Platform)
	printInfo("  page size: %d, default align: %d\n", info.PageSize, info.DefaultAlign)
	if info.Module != "" {
		printVerbose("  module: %s\n", info.Module)
	}
	for _, path := range slices.Sorted(maps.Keys(info.Deps)) {
		printVerbose("  dep: %s %s\n", path, info.Deps[path])
	}
	return nil
}
