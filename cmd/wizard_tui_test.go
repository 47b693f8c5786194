package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/render"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubAnalyzer struct {
	result    *model.AnalysisResult
	err       error
	grants    []model.GrantSuggestion
	grantsErr error
	calls     int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ model.ProjectData) (*model.AnalysisResult, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubAnalyzer) MicroGrants(_ context.Context, _ model.ProjectData) ([]model.GrantSuggestion, error) {
	return s.grants, s.grantsErr
}

func fullProject() model.ProjectData {
	var p model.ProjectData
	for _, s := range model.AllSections() {
		for _, f := range s.Fields() {
			p.Set(f, "some "+f.Label())
		}
	}
	p.Overview.ProjectName = "Acme"
	return p
}

func newTestWizardModel(t *testing.T, wz *wizard.Wizard, a wizard.Analyzer) *wizardModel {
	t.Helper()
	m := newWizardModel(wz, a, t.TempDir(), zaptest.NewLogger(t))
	m.renderMarkdown = func(md string, _ int) (string, error) { return md, nil }
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 300})
	return m
}

func press(m *wizardModel, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
)

// collect runs cmd and returns the messages it produces, flattening batches
// and dropping spinner ticks.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	switch msg.(type) {
	case analysisDoneMsg, grantsDoneMsg, exportDoneMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func single(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	msgs := collect(t, cmd)
	require.Len(t, msgs, 1)
	return msgs[0]
}

func TestWizardTUIEditsTextField(t *testing.T) {
	wz := wizard.New(nil)
	m := newTestWizardModel(t, wz, &stubAnalyzer{})

	press(m, keyEnter, runes("Acme"), keyEnter)
	assert.Equal(t, "Acme", wz.Data().Overview.ProjectName)
	assert.False(t, m.editing)

	press(m, keyEnter, runes(" Corp"), keyEsc)
	assert.Equal(t, "Acme", wz.Data().Overview.ProjectName)
	assert.Contains(t, m.View(), "Acme")
}

func TestWizardTUIKeepsLongLoadedValues(t *testing.T) {
	var p model.ProjectData
	p.Overview.ProjectName = strings.Repeat("n", 700)
	rows := make([]string, 150)
	for i := range rows {
		rows[i] = fmt.Sprintf("row %d", i)
	}
	p.Overview.Description = strings.Join(rows, "\n")

	wz := wizard.NewFrom(p, nil)
	m := newTestWizardModel(t, wz, &stubAnalyzer{})

	press(m, keyEnter, keyEnter)
	assert.Equal(t, p.Overview.ProjectName, wz.Data().Overview.ProjectName)

	press(m, keyDown, keyEnter, keyCtrlS)
	assert.Equal(t, p.Overview.Description, wz.Data().Overview.Description)
	assert.Equal(t, p, wz.Data())
}

func TestWizardTUICyclesChoices(t *testing.T) {
	wz := wizard.New(nil)
	m := newTestWizardModel(t, wz, &stubAnalyzer{})

	press(m, keyDown, keyDown, keyEnter)
	require.Equal(t, model.FieldCategory, m.currentField())
	assert.Contains(t, m.View(), "tab cycle fintech/")

	press(m, keyTab, keyTab, keyEnter)
	assert.Equal(t, model.CategoryChoices[1], wz.Data().Overview.Category)
}

func TestWizardTUIEditsMultilineField(t *testing.T) {
	wz := wizard.New(nil)
	m := newTestWizardModel(t, wz, &stubAnalyzer{})

	press(m, keyDown, keyEnter, runes("line one"), keyEnter, runes("line two"), keyCtrlS)
	assert.Equal(t, "line one\nline two", wz.Data().Overview.Description)
	assert.False(t, m.editing)
}

func TestWizardTUINavigation(t *testing.T) {
	wz := wizard.New(nil)
	m := newTestWizardModel(t, wz, &stubAnalyzer{})

	press(m, keyTab, keyTab)
	assert.Equal(t, model.SectionCompetitors, wz.Current())
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, model.SectionBusinessModel, wz.Current())
	press(m, runes("5"), keyTab)
	assert.Equal(t, model.SectionFinancials, wz.Current())
	press(m, runes("1"))
	assert.Equal(t, model.SectionOverview, wz.Current())
}

func TestWizardTUISubmitBlockedBelowThreshold(t *testing.T) {
	a := &stubAnalyzer{}
	wz := wizard.New(nil)
	m := newTestWizardModel(t, wz, a)

	press(m, runes("5"))
	cmd := press(m, runes("s"))
	assert.Nil(t, cmd)
	assert.Equal(t, wizard.Editing, wz.Phase())
	assert.Zero(t, a.calls)
	assert.Contains(t, m.View(), "at least 50% complete")
}

func TestWizardTUISubmitOnlyFromLastSection(t *testing.T) {
	wz := wizard.NewFrom(fullProject(), nil)
	m := newTestWizardModel(t, wz, &stubAnalyzer{})

	assert.Nil(t, press(m, runes("s")))
	assert.Contains(t, m.View(), wizard.ErrNotFinalSection.Error())
}

func TestWizardTUIResultsAndGrants(t *testing.T) {
	a := &stubAnalyzer{
		result: &model.AnalysisResult{
			Analogs:         []model.Analog{{Name: "Stripe", Similarity: 91}},
			Recommendations: []string{"Talk to bakeries"},
		},
		grants: []model.GrantSuggestion{{Name: "Seed Fund", Why: "fits fintech"}},
	}
	project := fullProject()
	wz := wizard.NewFrom(project, nil)
	m := newTestWizardModel(t, wz, a)

	cmd := press(m, runes("5"), runes("s"))
	assert.Equal(t, wizard.Submitting, wz.Phase())
	assert.Contains(t, m.View(), "Analysing Acme")

	// A second submit while in flight is ignored.
	assert.Nil(t, press(m, runes("s")))

	m.Update(single(t, cmd))
	require.Equal(t, wizard.ResultsShown, wz.Phase())
	assert.Equal(t, 1, a.calls)
	view := m.View()
	assert.Contains(t, view, "Stripe")
	assert.Contains(t, view, "91% match")
	assert.Contains(t, view, "g find grants")

	cmd = press(m, runes("g"))
	assert.Equal(t, wizard.GrantsFetching, wz.Grants().Phase)
	assert.Contains(t, m.View(), render.FetchingGrantsMessage)
	assert.Nil(t, press(m, runes("g")))

	m.Update(single(t, cmd))
	assert.Equal(t, wizard.GrantsLoaded, wz.Grants().Phase)
	assert.Contains(t, m.View(), "Seed Fund")
	assert.NotContains(t, m.View(), "g find grants")

	press(m, runes("b"))
	assert.Equal(t, wizard.Editing, wz.Phase())
	assert.Equal(t, project, wz.Data())
}

func TestWizardTUIEmptyAnalogs(t *testing.T) {
	a := &stubAnalyzer{result: &model.AnalysisResult{
		Analogs: []model.Analog{}, Recommendations: []string{}, AnalysisTimestamp: "t",
	}}
	wz := wizard.NewFrom(fullProject(), nil)
	m := newTestWizardModel(t, wz, a)

	m.Update(single(t, press(m, runes("5"), runes("s"))))
	assert.Equal(t, wizard.ResultsShown, wz.Phase())
	assert.Contains(t, m.View(), render.NoAnalogsMessage)
}

func TestWizardTUISubmitFailureIsVisible(t *testing.T) {
	a := &stubAnalyzer{err: errors.New("connection refused")}
	wz := wizard.NewFrom(fullProject(), nil)
	m := newTestWizardModel(t, wz, a)

	m.Update(single(t, press(m, runes("5"), runes("s"))))
	assert.Equal(t, wizard.Editing, wz.Phase())
	assert.Nil(t, wz.Result())
	assert.Contains(t, m.View(), "Analysis failed: connection refused")

	// The form is usable again and a retry goes through.
	a.err = nil
	a.result = &model.AnalysisResult{}
	m.Update(single(t, press(m, runes("s"))))
	assert.Equal(t, wizard.ResultsShown, wz.Phase())
	assert.Equal(t, 2, a.calls)
}

func TestWizardTUIGrantFailure(t *testing.T) {
	a := &stubAnalyzer{result: &model.AnalysisResult{}, grantsErr: errors.New("timeout")}
	wz := wizard.NewFrom(fullProject(), nil)
	m := newTestWizardModel(t, wz, a)

	m.Update(single(t, press(m, runes("5"), runes("s"))))
	m.Update(single(t, press(m, runes("g"))))

	assert.Equal(t, wizard.GrantsFailed, wz.Grants().Phase)
	assert.Contains(t, m.View(), wizard.GrantFailureMessage)
	assert.Nil(t, press(m, runes("g")))
}

func TestWizardTUIStaleGrantsIgnored(t *testing.T) {
	a := &stubAnalyzer{result: &model.AnalysisResult{}, grants: []model.GrantSuggestion{{Name: "Late"}}}
	wz := wizard.NewFrom(fullProject(), nil)
	m := newTestWizardModel(t, wz, a)

	m.Update(single(t, press(m, runes("5"), runes("s"))))
	late := single(t, press(m, runes("g")))
	press(m, runes("b"))

	m.Update(single(t, press(m, runes("s"))))
	m.Update(late)
	assert.Equal(t, wizard.GrantsNotRequested, wz.Grants().Phase)
	assert.NotContains(t, m.View(), "Late")
}

func TestWizardTUIExport(t *testing.T) {
	wz := wizard.NewFrom(fullProject(), nil)
	m := newTestWizardModel(t, wz, &stubAnalyzer{})

	var gotDir, gotName string
	var gotData []byte
	m.writeExport = func(dir, name string, data []byte) (string, error) {
		gotDir, gotName, gotData = dir, name, data
		return dir + "/" + name, nil
	}

	m.Update(single(t, press(m, runes("e"))))
	assert.Equal(t, m.exportDir, gotDir)
	assert.Equal(t, "Acme-application.json", gotName)

	decoded, err := model.DecodeProjectData(gotData)
	require.NoError(t, err)
	assert.Equal(t, wz.Data(), decoded)
	assert.Contains(t, m.View(), "Exported to")

	m.writeExport = func(string, string, []byte) (string, error) { return "", errors.New("disk full") }
	m.Update(single(t, press(m, runes("e"))))
	assert.Contains(t, m.View(), "Export failed: disk full")
}
