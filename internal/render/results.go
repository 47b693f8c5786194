// Package render turns a submitted project and its analysis into text for the
// terminal.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
)

const (
	NoAnalogsMessage         = "No similar startups found."
	NoRecommendationsMessage = "No next-step recommendations found."
	NoGrantsMessage          = "No suitable grants found."
	FetchingGrantsMessage    = "Searching for grants..."
	GrantsHint               = "Press g to look for micro-grants that fit this project."

	barWidth = 20
)

// Input is everything the results view depends on.
type Input struct {
	Project model.ProjectData
	Result  *model.AnalysisResult
	Grants  wizard.GrantState
	// HideGrants drops the grant section, for output that can not fetch them.
	HideGrants bool
}

// Markdown renders the results document. It is a pure function of in.
func Markdown(in Input) string {
	var b strings.Builder

	writeProject(&b, in.Project)

	if in.Result == nil {
		b.WriteString("_No analysis available._\n")
		return b.String()
	}

	writeAnalogs(&b, in.Result.Analogs)
	writeRecommendations(&b, in.Result.Recommendations)
	if !in.HideGrants {
		writeGrants(&b, in.Grants)
	}
	if in.Result.AnalysisTimestamp != "" {
		fmt.Fprintf(&b, "\n---\n\n_Analysed at %s, %d analogs considered._\n",
			in.Result.AnalysisTimestamp, in.Result.TotalAnalogs)
	}
	return b.String()
}

func writeProject(b *strings.Builder, p model.ProjectData) {
	name := p.Overview.ProjectName
	if model.IsBlank(name) {
		name = "Untitled project"
	}
	fmt.Fprintf(b, "# %s\n\n", name)

	for _, f := range []model.FieldID{model.FieldCategory, model.FieldStage} {
		if v := p.Get(f); !model.IsBlank(v) {
			fmt.Fprintf(b, "- **%s:** %s\n", f.Label(), v)
		}
	}
	b.WriteString("\n")

	for _, f := range []model.FieldID{model.FieldDescription, model.FieldRevenueStreams, model.FieldTargetMarket} {
		if v := p.Get(f); !model.IsBlank(v) {
			fmt.Fprintf(b, "**%s**\n\n%s\n\n", f.Label(), v)
		}
	}
}

func writeAnalogs(b *strings.Builder, analogs []model.Analog) {
	b.WriteString("## Similar startups\n\n")
	if len(analogs) == 0 {
		b.WriteString(NoAnalogsMessage + "\n\n")
		return
	}

	for i, a := range analogs {
		fmt.Fprintf(b, "### %d. %s\n\n", i+1, a.Name)
		fmt.Fprintf(b, "`%s` %s match\n\n", SimilarityBar(a.Similarity, barWidth), FormatSimilarity(a.Similarity))
		if a.Description != "" {
			fmt.Fprintf(b, "%s\n\n", a.Description)
		}

		for _, kv := range [][2]string{
			{"Business model", a.BusinessModel},
			{"Funding", a.Funding},
			{"Stage", a.Stage},
			{"Market position", a.MarketPosition},
		} {
			if kv[1] != "" {
				fmt.Fprintf(b, "- **%s:** %s\n", kv[0], kv[1])
			}
		}
		b.WriteString("\n")

		writeList(b, "Strengths", a.Strengths)
		writeList(b, "Challenges", a.Weaknesses)
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// Recommendations alternate between plain and emphasised lines.
func writeRecommendations(b *strings.Builder, recs []string) {
	b.WriteString("## Next steps\n\n")
	if len(recs) == 0 {
		b.WriteString(NoRecommendationsMessage + "\n\n")
		return
	}
	for i, rec := range recs {
		if i%2 == 0 {
			fmt.Fprintf(b, "%d. %s\n", i+1, rec)
		} else {
			fmt.Fprintf(b, "%d. _%s_\n", i+1, rec)
		}
	}
	b.WriteString("\n")
}

func writeGrants(b *strings.Builder, g wizard.GrantState) {
	b.WriteString("## Micro-grants\n\n")
	switch g.Phase {
	case wizard.GrantsNotRequested:
		b.WriteString(GrantsHint + "\n")
	case wizard.GrantsFetching:
		b.WriteString(FetchingGrantsMessage + "\n")
	case wizard.GrantsFailed:
		b.WriteString(g.Message + "\n")
	case wizard.GrantsLoaded:
		if len(g.Grants) == 0 {
			b.WriteString(NoGrantsMessage + "\n")
			return
		}
		for _, grant := range g.Grants {
			if grant.Why == "" {
				fmt.Fprintf(b, "- **%s**\n", grant.Name)
				continue
			}
			fmt.Fprintf(b, "- **%s**: %s\n", grant.Name, grant.Why)
		}
	}
}

func clampSimilarity(sim float64) float64 {
	if math.IsNaN(sim) {
		return 0
	}
	return math.Max(0, math.Min(100, sim))
}

// FormatSimilarity prints the similarity as received, without trailing zeros.
func FormatSimilarity(sim float64) string {
	return fmt.Sprintf("%s%%", strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", sim), "0"), "."))
}

// SimilarityBar draws sim (0-100, clamped) as a bar of width cells.
func SimilarityBar(sim float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(clampSimilarity(sim) / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Terminal renders markdown for a terminal of the given width.
func Terminal(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
