/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/nakachan-ing/pitch-cli/internal/util"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize exported applications with S3",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload new and changed applications to S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadSyncRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := SyncWithS3(cmd.Context(), rt, util.Push); err != nil {
			return fmt.Errorf("❌ Sync failed: %w", err)
		}
		fmt.Println("✅ `pitch sync push` completed successfully.")
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download applications that are newer on S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadSyncRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := SyncWithS3(cmd.Context(), rt, util.Pull); err != nil {
			return fmt.Errorf("❌ Sync failed: %w", err)
		}
		fmt.Println("✅ `pitch sync pull` completed successfully.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show differences between local and S3 applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadSyncRuntime()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		return ShowSyncStatus(cmd.Context(), rt)
	},
}

func loadSyncRuntime() (*runtimeEnv, error) {
	rt, err := loadRuntime(false)
	if err != nil {
		return nil, err
	}
	if !rt.config.Sync.Enable {
		return nil, fmt.Errorf("❌ Sync is disabled; set sync.enable and sync.bucket with `pitch config`")
	}
	return rt, nil
}

func init() {
	syncCmd.AddCommand(syncPushCmd, syncPullCmd, syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}
