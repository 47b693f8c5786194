/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nakachan-ing/pitch-cli/internal/store"
	"github.com/nakachan-ing/pitch-cli/internal/util"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Open an exported application in your editor and check it afterwards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		path := args[0]
		if _, err := os.Stat(path); os.IsNotExist(err) && filepath.Base(path) == path {
			// Bare names are looked up in the export directory.
			path = filepath.Join(config.ExportDir, path)
		}

		release, err := util.CreateLockFile(path)
		if err != nil {
			return fmt.Errorf("❌ Cannot edit %s: %w", path, err)
		}
		defer release()

		if err := util.OpenEditor(path, config.Editor); err != nil {
			return err
		}

		project, err := store.LoadProject(path)
		if err != nil {
			return fmt.Errorf("%w\n⚠️ The file was saved but is not a valid application", err)
		}

		wz := wizard.NewFrom(project, nil)
		fmt.Printf("✅ %s is valid, %.0f%% complete\n", path, wz.TotalCompletion())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
