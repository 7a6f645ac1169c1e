package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"worktick/internal/core/model"
	"worktick/internal/storage"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all recorded time for the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset()
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
}

func runReset() error {
	workspaceIdentity, err := resolveIdentity()
	if err != nil {
		return err
	}

	if !resetYes {
		fmt.Printf("Forget all recorded time for %s? [y/N] ", workspaceIdentity.Label)
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(answer, "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		newLogger().Warn("load settings, falling back to defaults", "error", err)
	}
	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	cleared := model.WorkspaceStats{
		Key:        workspaceIdentity.Key,
		Label:      workspaceIdentity.Label,
		LastSaveAt: time.Now(),
	}
	if err := store.Put(cleared); err != nil {
		return err
	}

	fmt.Printf("Statistics for %s reset.\n", workspaceIdentity.Label)
	return nil
}
