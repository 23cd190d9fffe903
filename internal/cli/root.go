// Package cli provides the command-line interface for audiencepan.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

const defaultConfigDir = ".audiencepan"

var (
	configDir string
	noColor   bool
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "audiencepan",
	Short: "Browse and save subreddit audiences from the terminal",
	Long: "audiencepan loads posts for a set of subreddits one at a time at a fixed pace, " +
		"searches and filters audiences, and saves audiences back to the audiences server.",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "audiencepan %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", envOr("AUDIENCEPAN_HOME", defaultConfigDir), "config directory")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
