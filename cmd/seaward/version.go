package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildInfo holds the version information printed by the version command.
type buildInfo struct {
	version string
	commit  string
	date    string
}

// readBuildInfo collects version information.
// Priority for every field: ldflags > debug.ReadBuildInfo > fallback
func readBuildInfo() buildInfo {
	info := buildInfo{version: version, commit: commit, date: date}

	bi, ok := debug.ReadBuildInfo()
	if ok {
		if info.version == "" {
			info.version = bi.Main.Version
		}
		for _, setting := range bi.Settings {
			switch {
			case setting.Key == "vcs.revision" && info.commit == "":
				info.commit = setting.Value
				if len(info.commit) > 7 {
					info.commit = info.commit[:7]
				}
			case setting.Key == "vcs.time" && info.date == "":
				info.date = setting.Value
			}
		}
	}

	if info.version == "" {
		info.version = "(devel)"
	}
	if info.commit == "" {
		info.commit = "unknown"
	}
	if info.date == "" {
		info.date = "unknown"
	}
	return info
}

// getVersion returns the version string.
func getVersion() string {
	return readBuildInfo().version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of seaward.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := readBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "seaward version %s\n", info.version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", info.commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", info.date)
		},
	}
}
