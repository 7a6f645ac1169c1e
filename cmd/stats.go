package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"worktick/internal/core/tracker"
	"worktick/internal/storage"
)

var statsAll bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded time for the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats()
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "list every tracked workspace")
}

func runStats() error {
	settings, err := storage.LoadSettings(appName)
	if err != nil {
		newLogger().Warn("load settings, falling back to defaults", "error", err)
	}
	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	if statsAll {
		return printAllStats(store)
	}

	workspaceIdentity, err := resolveIdentity()
	if err != nil {
		return err
	}
	stats, err := store.Get(workspaceIdentity.Key)
	if err != nil {
		return err
	}
	runs, err := store.History(workspaceIdentity.Key, startOfDay(time.Now()))
	if err != nil {
		return err
	}

	var today time.Duration
	for _, run := range runs {
		today += run.Duration
	}

	fmt.Printf("Workspace: %s\n", workspaceIdentity.Label)
	fmt.Printf("Total time: %s\n", tracker.FormatDuration(stats.TotalTime))
	fmt.Printf("Today: %s in %d runs\n", tracker.FormatDuration(today), len(runs))
	if !stats.LastSaveAt.IsZero() {
		fmt.Printf("Last saved: %s\n", stats.LastSaveAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func printAllStats(store *storage.DB) error {
	records, err := store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No workspaces tracked yet.")
		return nil
	}
	for _, record := range records {
		label := record.Label
		if label == "" {
			label = record.Key
		}
		fmt.Printf("%-28s %s\n", label, tracker.FormatDuration(record.TotalTime))
	}
	return nil
}
