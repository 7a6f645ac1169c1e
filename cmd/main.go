package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const appName = "WorkTick"

var (
	workDir     string
	trackGlobal bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "worktick",
	Short: "WorkTick tracks active editing time per workspace",
	Long: `WorkTick watches a workspace directory, counts the time you actively spend
editing it, and keeps a cumulative per-workspace total across sessions.
Tracking pauses automatically after a window with no activity.

Run without a subcommand to start the system tray application.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTray()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "d", "", "workspace directory (defaults to the current directory)")
	rootCmd.PersistentFlags().BoolVar(&trackGlobal, "global", false, "track the global identity instead of a workspace directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
