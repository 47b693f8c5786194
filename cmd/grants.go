/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/nakachan-ing/pitch-cli/internal/render"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/spf13/cobra"
)

// grantsCmd represents the grants command
var grantsCmd = &cobra.Command{
	Use:   "grants <file>",
	Short: "Submit an exported application and list matching micro-grants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		client := rt.analyzer()
		wz, err := submitFile(cmd.Context(), args[0], client, rt.logger)
		if err != nil {
			return err
		}

		fmt.Println("🔄 " + render.FetchingGrantsMessage)
		if err := wz.FetchGrants(cmd.Context(), client); err != nil {
			return fmt.Errorf("❌ %s: %w", wizard.GrantFailureMessage, err)
		}

		grants := wz.Grants().Grants
		if len(grants) == 0 {
			fmt.Println(render.NoGrantsMessage)
			return nil
		}

		nameStyle := color.New(color.FgCyan, color.Bold).SprintFunc()
		for i, g := range grants {
			fmt.Printf("%d. %s\n", i+1, nameStyle(g.Name))
			if g.Why != "" {
				fmt.Printf("   %s\n", g.Why)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grantsCmd)
}
