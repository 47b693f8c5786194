package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
)

// AnalogTable writes a compact table of the analogs in received order.
func AnalogTable(w io.Writer, res *model.AnalysisResult) {
	if res == nil || len(res.Analogs) == 0 {
		fmt.Fprintln(w, NoAnalogsMessage)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("#"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Name")),
		text.FgGreen.Sprintf("Match"), text.FgGreen.Sprintf("Stage"),
		text.FgGreen.Sprintf("Funding"), text.FgGreen.Sprintf("Business model"),
	})
	for i, a := range res.Analogs {
		t.AppendRow(table.Row{
			i + 1,
			a.Name,
			similarityColor(a.Similarity).Sprintf("%s %s", SimilarityBar(a.Similarity, 10), FormatSimilarity(a.Similarity)),
			a.Stage,
			a.Funding,
			text.WrapSoft(a.BusinessModel, 40),
		})
	}
	t.Render()
}

func similarityColor(sim float64) text.Colors {
	switch {
	case sim >= 75:
		return text.Colors{text.FgHiGreen}
	case sim >= 40:
		return text.Colors{text.FgHiYellow}
	}
	return text.Colors{text.FgHiBlack}
}

// CompletionTable writes one row per section with its completion.
func CompletionTable(w io.Writer, wz *wizard.Wizard) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("#"), text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Section")),
		text.FgGreen.Sprintf("Filled"), text.FgGreen.Sprintf("Completion"),
	})

	data := wz.Data()
	for i, id := range model.AllSections() {
		fields := id.Fields()
		filled := 0
		for _, f := range fields {
			if !model.IsBlank(data.Get(f)) {
				filled++
			}
		}
		pct := wz.Completion(id)
		t.AppendRow(table.Row{
			i + 1,
			id.Title(),
			fmt.Sprintf("%d/%d", filled, len(fields)),
			completionColor(pct).Sprintf("%s %3.0f%%", SimilarityBar(pct, 10), pct),
		})
	}

	total := wz.TotalCompletion()
	t.AppendFooter(table.Row{"", "Total", "", completionColor(total).Sprintf("%.0f%%", total)})
	t.Render()
}

func completionColor(pct float64) text.Colors {
	switch {
	case pct >= 100:
		return text.Colors{text.FgHiGreen}
	case pct >= wizard.SubmitThreshold:
		return text.Colors{text.FgHiYellow}
	}
	return text.Colors{text.FgHiRed}
}
