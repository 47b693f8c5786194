/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var wizardFrom string

// wizardCmd represents the wizard command
var wizardCmd = &cobra.Command{
	Use:     "wizard",
	Aliases: []string{"new", "w"},
	Short:   "Fill in the application interactively and submit it for analysis",
	Long: `Opens the five-section application form. Move between sections with
tab/shift+tab or 1-5, edit a field with enter. Once the application is at
least 50% complete, press s on the last section to submit it. Results can
be scrolled; press g to look for micro-grants and b to go back and edit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(true)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		wz, err := loadWizard(wizardFrom, rt.logger)
		if err != nil {
			return err
		}

		rt.logger.Info("wizard started",
			zap.String("from", wizardFrom),
			zap.String("api", rt.config.API.BaseURL))

		m := newWizardModel(wz, rt.analyzer(), rt.config.ExportDir, rt.logger)
		if err := runWizard(m); err != nil {
			return err
		}

		if err := wz.LastError(); err != nil && wz.Phase() == wizard.Editing {
			fmt.Println("⚠️ Last submission failed:", err)
			fmt.Println("📄 Details in", rt.config.Log.File)
		}
		return nil
	},
}

func init() {
	wizardCmd.Flags().StringVarP(&wizardFrom, "from", "f", "", "start from a previously exported application file")
	rootCmd.AddCommand(wizardCmd)
}
