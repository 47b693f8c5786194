/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/store"
	"github.com/spf13/cobra"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := store.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}

		if _, err := os.Stat(configPath); err == nil && !initForce {
			fmt.Println("📄 Config file already exists at:", configPath)
			fmt.Println("   Use --force to overwrite it with the defaults.")
			return nil
		}

		if err := store.SaveConfig(model.DefaultConfig()); err != nil {
			return fmt.Errorf("❌ Failed to create config file: %w", err)
		}

		fmt.Println("✅ pitch initialized successfully!")
		fmt.Println("📄 Config file created at:", configPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
