/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/store"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	exportFrom   string
	exportSets   []string
	exportOutput string
	exportStdout bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an application file from flags or an existing export",
	Example: `  pitch export --set overview.projectName=Acme --set overview.stage=mvp
  pitch export --from Acme-application.json --set team.teamSize=4 --stdout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		wz, err := loadWizard(exportFrom, nil)
		if err != nil {
			return err
		}
		if err := applySets(wz, exportSets); err != nil {
			return err
		}

		snap, err := wz.ExportSnapshot()
		if err != nil {
			return err
		}

		switch {
		case exportStdout:
			_, err := os.Stdout.Write(snap.Data)
			return err
		case exportOutput != "":
			if err := store.WriteFile(exportOutput, snap.Data); err != nil {
				return err
			}
			fmt.Println("✅ Exported to", exportOutput)
		default:
			path, err := store.WriteExport(config.ExportDir, snap.Filename, snap.Data)
			if err != nil {
				return err
			}
			fmt.Println("✅ Exported to", path)
		}
		fmt.Printf("📄 %.0f%% complete\n", wz.TotalCompletion())
		return nil
	},
}

// applySets applies "section.field=value" assignments in order.
func applySets(wz *wizard.Wizard, sets []string) error {
	for _, set := range sets {
		path, value, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("❌ Invalid --set %q: expected section.field=value", set)
		}
		field, err := model.ParseFieldPath(path)
		if err != nil {
			return fmt.Errorf("❌ Invalid --set %q: %w", set, err)
		}
		if err := wz.UpdateField(field.Section(), field, value); err != nil {
			return fmt.Errorf("❌ Invalid --set %q: %w", set, err)
		}
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportFrom, "from", "f", "", "start from a previously exported application file")
	exportCmd.Flags().StringArrayVarP(&exportSets, "set", "s", nil, "set a field, e.g. overview.projectName=Acme (repeatable)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this path instead of the export directory")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "print the document instead of writing a file")
	exportCmd.MarkFlagsMutuallyExclusive("output", "stdout")
	rootCmd.AddCommand(exportCmd)
}
