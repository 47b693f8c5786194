/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/render"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeTable    bool
	analyzeGrants   bool
	analyzeMarkdown bool
	analyzeJSON     bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Submit an exported application and show similar startups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		wz, err := submitFile(cmd.Context(), args[0], rt.analyzer(), rt.logger)
		if err != nil {
			return err
		}

		if analyzeGrants {
			if err := wz.FetchGrants(cmd.Context(), rt.analyzer()); err != nil {
				rt.logger.Warn("continuing without grant suggestions", zap.Error(err))
			}
		}

		switch {
		case analyzeJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysisOutput{Result: wz.Result(), Grants: loadedGrants(wz.Grants())})
		case analyzeTable:
			render.AnalogTable(os.Stdout, wz.Result())
			return nil
		}

		md := render.Markdown(render.Input{
			Project:    wz.Data(),
			Result:     wz.Result(),
			Grants:     wz.Grants(),
			HideGrants: !analyzeGrants,
		})
		if analyzeMarkdown {
			fmt.Print(md)
			return nil
		}
		out, err := render.Terminal(md, 100)
		if err != nil {
			rt.logger.Warn("markdown rendering failed, printing plain text", zap.Error(err))
			out = md
		}
		fmt.Print(out)
		return nil
	},
}

type analysisOutput struct {
	Result *model.AnalysisResult  `json:"result"`
	Grants []model.GrantSuggestion `json:"grants,omitempty"`
}

func loadedGrants(g wizard.GrantState) []model.GrantSuggestion {
	if g.Phase != wizard.GrantsLoaded {
		return nil
	}
	return g.Grants
}

// submitFile loads an exported application and runs a submission against a,
// the same way the wizard does from its last section.
func submitFile(ctx context.Context, path string, a wizard.Analyzer, l *zap.Logger) (*wizard.Wizard, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	wz, err := loadWizard(path, l)
	if err != nil {
		return nil, err
	}
	wz.GoToSection(model.SectionCount - 1)

	if err := wz.Submit(ctx, a); err != nil {
		if errors.Is(err, wizard.ErrIncomplete) {
			return nil, fmt.Errorf("❌ %s is only %.0f%% complete: %w (see `pitch status --missing %s`)",
				path, wz.TotalCompletion(), err, path)
		}
		return nil, fmt.Errorf("❌ Analysis failed: %w", err)
	}
	return wz, nil
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeTable, "table", "t", false, "show analogs as a compact table")
	analyzeCmd.Flags().BoolVarP(&analyzeGrants, "grants", "g", false, "also look for matching micro-grants")
	analyzeCmd.Flags().BoolVar(&analyzeMarkdown, "markdown", false, "print raw markdown instead of rendering it")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the service response as JSON")
	analyzeCmd.MarkFlagsMutuallyExclusive("table", "markdown", "json")
	rootCmd.AddCommand(analyzeCmd)
}
