/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/render"
	"github.com/nakachan-ing/pitch-cli/internal/store"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/spf13/cobra"
)

var statusMissing bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <file>",
	Short: "Show how complete an exported application is",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := store.LoadProject(args[0])
		if err != nil {
			return err
		}
		wz := wizard.NewFrom(project, nil)

		titleStyle := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("%s\n\n", titleStyle(projectLabel(project)))

		render.CompletionTable(os.Stdout, wz)

		if wz.CanSubmit() {
			color.Green("✅ Ready to submit (%.0f%% complete)", wz.TotalCompletion())
		} else {
			color.Yellow("⚠️ %.0f%% complete, at least %.0f%% is needed to submit", wz.TotalCompletion(), wizard.SubmitThreshold)
		}

		if statusMissing {
			printMissing(project)
		}
		return nil
	},
}

func printMissing(project model.ProjectData) {
	missingStyle := color.New(color.FgHiBlack).SprintFunc()
	fmt.Println("\n📌 Empty fields:")
	for _, s := range model.AllSections() {
		for _, f := range s.Fields() {
			if model.IsBlank(project.Get(f)) {
				fmt.Printf("   - %s %s\n", f.Path(), missingStyle("("+f.Label()+")"))
			}
		}
	}
}

func init() {
	statusCmd.Flags().BoolVarP(&statusMissing, "missing", "m", false, "list the fields that are still empty")
	rootCmd.AddCommand(statusCmd)
}
