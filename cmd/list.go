/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/pitch-cli/internal/store"
	"github.com/nakachan-ing/pitch-cli/internal/util"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/spf13/cobra"
)

var listFilter util.ProjectFilter

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exported applications with their completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := store.LoadConfig()
		if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		files, err := store.ListExports(config.ExportDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No applications exported to", config.ExportDir)
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleDouble)
		t.Style().Options.SeparateRows = false

		t.AppendHeader(table.Row{
			text.FgGreen.Sprintf("File"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Project")),
			text.FgGreen.Sprintf("Stage"), text.FgGreen.Sprintf("Completion"),
		})

		shown := 0
		for _, name := range files {
			project, err := store.LoadProject(filepath.Join(config.ExportDir, name))
			if err != nil {
				if listFilter == (util.ProjectFilter{}) {
					t.AppendRow(table.Row{name, text.FgHiRed.Sprintf("unreadable"), "", ""})
					shown++
				}
				continue
			}
			if !listFilter.Match(project) {
				continue
			}
			shown++

			wz := wizard.NewFrom(project, nil)
			completion := fmt.Sprintf("%.0f%%", wz.TotalCompletion())
			if wz.CanSubmit() {
				completion = text.FgHiGreen.Sprintf("%s", completion)
			} else {
				completion = text.FgHiYellow.Sprintf("%s", completion)
			}
			t.AppendRow(table.Row{name, project.Overview.ProjectName, project.Overview.Stage, completion})
		}
		if shown == 0 {
			fmt.Println("No applications match the filter")
			return nil
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listFilter.Query, "query", "q", "", "Only show applications containing this text")
	listCmd.Flags().StringVar(&listFilter.Category, "category", "", "Only show applications in this category")
	listCmd.Flags().StringVar(&listFilter.Stage, "stage", "", "Only show applications at this stage")
}
