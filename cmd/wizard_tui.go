package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/render"
	"github.com/nakachan-ing/pitch-cli/internal/store"
	"github.com/nakachan-ing/pitch-cli/internal/wizard"
	"go.uber.org/zap"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTab     = tabStyle.Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
)

type analysisDoneMsg struct {
	result *model.AnalysisResult
	err    error
}

type grantsDoneMsg struct {
	ticket wizard.Ticket
	grants []model.GrantSuggestion
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

type wizardModel struct {
	wz       *wizard.Wizard
	analyzer wizard.Analyzer
	logger   *zap.Logger

	exportDir string
	// writeExport and renderMarkdown are swapped out in tests.
	writeExport    func(dir, name string, data []byte) (string, error)
	renderMarkdown func(md string, width int) (string, error)

	cursor   int
	editing  bool
	input    textinput.Model
	area     textarea.Model
	choiceAt int

	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model

	status    string
	statusErr bool
	width     int
	height    int
}

func newWizardModel(wz *wizard.Wizard, analyzer wizard.Analyzer, exportDir string, logger *zap.Logger) *wizardModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = "│ "
	ti.CharLimit = 0
	ti.Width = 72

	ta := textarea.New()
	ta.SetWidth(76)
	ta.SetHeight(6)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyle

	return &wizardModel{
		wz:             wz,
		analyzer:       analyzer,
		logger:         logger,
		exportDir:      exportDir,
		writeExport:    store.WriteExport,
		renderMarkdown: render.Terminal,
		input:          ti,
		area:           ta,
		spinner:        sp,
		progress:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		viewport:       viewport.New(80, 20),
		width:          80,
		height:         24,
	}
}

func (m *wizardModel) Init() tea.Cmd {
	return nil
}

func (m *wizardModel) currentField() model.FieldID {
	fields := m.wz.Current().Fields()
	if m.cursor >= len(fields) {
		m.cursor = len(fields) - 1
	}
	return fields[m.cursor]
}

func (m *wizardModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 5)
		m.progress.Width = min(max(msg.Width-30, 10), 60)
		if m.wz.Phase() == wizard.ResultsShown {
			m.refreshResults()
		}
		return m, nil

	case spinner.TickMsg:
		if m.wz.Phase() != wizard.Submitting && m.wz.Grants().Phase != wizard.GrantsFetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisDoneMsg:
		return m.onAnalysisDone(msg)

	case grantsDoneMsg:
		m.onGrantsDone(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Error("export failed", zap.Error(msg.err))
			m.setStatus("❌ Export failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("✅ Exported to "+msg.path, false)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.wz.Phase() {
		case wizard.Editing:
			if m.editing {
				return m.updateEditor(msg)
			}
			return m.updateForm(msg)
		case wizard.ResultsShown:
			return m.updateResults(msg)
		}
	}
	return m, nil
}

func (m *wizardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.wz.Current().Fields())-1 {
			m.cursor++
		}
	case "tab", "right", "l":
		m.wz.Next()
		m.cursor = 0
	case "shift+tab", "left", "h":
		m.wz.Prev()
		m.cursor = 0
	case "1", "2", "3", "4", "5":
		m.wz.GoToSection(int(key[0] - '1'))
		m.cursor = 0
	case "enter":
		return m, m.startEditing()
	case "s", "ctrl+s":
		return m, m.submit()
	case "e":
		return m, m.export()
	}
	return m, nil
}

func (m *wizardModel) startEditing() tea.Cmd {
	field := m.currentField()
	data := m.wz.Data()
	value := data.Get(field)
	m.editing = true
	m.choiceAt = -1

	if field.Multiline() {
		m.area.Placeholder = field.Placeholder()
		m.area.SetValue(value)
		return m.area.Focus()
	}
	m.input.Placeholder = field.Placeholder()
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *wizardModel) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.area.Blur()
}

func (m *wizardModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.currentField()

	switch msg.String() {
	case "esc":
		m.stopEditing()
		return m, nil
	case "ctrl+s":
		return m, m.commitEdit(field)
	case "enter":
		if !field.Multiline() {
			return m, m.commitEdit(field)
		}
	case "tab":
		if choices := field.Choices(); len(choices) > 0 {
			m.choiceAt = (m.choiceAt + 1) % len(choices)
			m.input.SetValue(choices[m.choiceAt])
			m.input.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if field.Multiline() {
		m.area, cmd = m.area.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *wizardModel) commitEdit(field model.FieldID) tea.Cmd {
	value := m.input.Value()
	if field.Multiline() {
		value = m.area.Value()
	}
	m.stopEditing()

	if err := m.wz.UpdateField(field.Section(), field, value); err != nil {
		m.setStatus("❌ "+err.Error(), true)
		return nil
	}
	m.setStatus("", false)
	return nil
}

func (m *wizardModel) submit() tea.Cmd {
	data, err := m.wz.BeginSubmit()
	if err != nil {
		m.setStatus("⚠️ "+err.Error(), true)
		return nil
	}
	m.setStatus("", false)

	analyzer := m.analyzer
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := analyzer.Analyze(context.Background(), data)
		return analysisDoneMsg{result: result, err: err}
	})
}

func (m *wizardModel) onAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if err := m.wz.FailSubmit(msg.err); err != nil {
			m.logger.Warn("analysis result without submission", zap.Error(err))
			return m, nil
		}
		m.setStatus("❌ Analysis failed: "+msg.err.Error()+" (press s to try again)", true)
		return m, nil
	}

	if err := m.wz.CompleteSubmit(msg.result); err != nil {
		m.logger.Warn("analysis result without submission", zap.Error(err))
		return m, nil
	}
	m.setStatus("", false)
	m.refreshResults()
	m.viewport.GotoTop()
	return m, nil
}

func (m *wizardModel) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "b", "esc":
		if err := m.wz.Back(); err == nil {
			m.setStatus("", false)
		}
		return m, nil
	case "g":
		return m, m.fetchGrants()
	case "e":
		return m, m.export()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *wizardModel) fetchGrants() tea.Cmd {
	data, ticket, err := m.wz.BeginGrantFetch()
	if err != nil {
		// Fetching, loaded and failed all hide the action.
		return nil
	}
	m.refreshResults()

	analyzer := m.analyzer
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		grants, err := analyzer.MicroGrants(context.Background(), data)
		return grantsDoneMsg{ticket: ticket, grants: grants, err: err}
	})
}

func (m *wizardModel) onGrantsDone(msg grantsDoneMsg) {
	var applied bool
	if msg.err != nil {
		applied = m.wz.FailGrants(msg.ticket, msg.err)
	} else {
		applied = m.wz.ResolveGrants(msg.ticket, msg.grants)
	}
	if applied {
		m.refreshResults()
	}
}

func (m *wizardModel) export() tea.Cmd {
	snap, err := m.wz.ExportSnapshot()
	if err != nil {
		m.setStatus("❌ "+err.Error(), true)
		return nil
	}
	dir, write := m.exportDir, m.writeExport
	return func() tea.Msg {
		path, err := write(dir, snap.Filename, snap.Data)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *wizardModel) refreshResults() {
	md := render.Markdown(render.Input{
		Project: m.wz.Data(),
		Result:  m.wz.Result(),
		Grants:  m.wz.Grants(),
	})
	out, err := m.renderMarkdown(md, m.width-2)
	if err != nil {
		m.logger.Warn("markdown rendering failed, showing plain text", zap.Error(err))
		out = md
	}
	m.viewport.SetContent(out)
}

func (m *wizardModel) View() string {
	switch m.wz.Phase() {
	case wizard.Submitting:
		return fmt.Sprintf("\n %s Analysing %s...\n\n%s\n",
			m.spinner.View(), projectLabel(m.wz.Data()), helpStyle.Render(" ctrl+c quit"))
	case wizard.ResultsShown:
		return m.resultsView()
	}
	return m.formView()
}

func projectLabel(p model.ProjectData) string {
	if model.IsBlank(p.Overview.ProjectName) {
		return "your project"
	}
	return p.Overview.ProjectName
}

func (m *wizardModel) formView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🚀 Startup application") + "\n\n")

	tabs := make([]string, 0, model.SectionCount)
	for i, id := range model.AllSections() {
		label := fmt.Sprintf("%d %s %3.0f%%", i+1, id.Title(), m.wz.Completion(id))
		if i == m.wz.CurrentIndex() {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")

	total := m.wz.TotalCompletion()
	s.WriteString(fmt.Sprintf("%s %3.0f%% complete\n\n", m.progress.ViewAs(total/100), total))

	section := m.wz.Current()
	s.WriteString(labelStyle.Render(section.Title()) + "\n\n")

	data := m.wz.Data()
	for i, f := range section.Fields() {
		cursor := "  "
		if i == m.cursor {
			cursor = "👉"
		}
		value := data.Get(f)
		shown := emptyStyle.Render(f.Placeholder())
		if !model.IsBlank(value) {
			shown = strings.ReplaceAll(value, "\n", " ⏎ ")
		}
		s.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, labelStyle.Render(f.Label()), shown))
	}

	if m.editing {
		f := m.currentField()
		s.WriteString("\n✏️  Editing: " + f.Label() + "\n")
		if f.Multiline() {
			s.WriteString(m.area.View() + "\n")
			s.WriteString(helpStyle.Render("ctrl+s save • esc cancel") + "\n")
		} else {
			s.WriteString(m.input.View() + "\n")
			hint := "enter save • esc cancel"
			if choices := f.Choices(); len(choices) > 0 {
				hint = "tab cycle " + strings.Join(choices, "/") + " • " + hint
			}
			s.WriteString(helpStyle.Render(hint) + "\n")
		}
	} else {
		submit := "s submit"
		if !m.wz.IsFinalSection() || !m.wz.CanSubmit() {
			submit = disabledStyle.Render(submit)
		}
		s.WriteString("\n" + helpStyle.Render("↑/↓ field • enter edit • tab/⇧tab section • 1-5 jump • e export • ") +
			submit + helpStyle.Render(" • q quit") + "\n")
	}

	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		s.WriteString("\n" + style.Render(m.status) + "\n")
	}
	return s.String()
}

func (m *wizardModel) resultsView() string {
	var s strings.Builder
	s.WriteString(m.viewport.View() + "\n")

	help := "↑/↓ scroll • b back • e export • q quit"
	switch m.wz.Grants().Phase {
	case wizard.GrantsNotRequested:
		help = "g find grants • " + help
	case wizard.GrantsFetching:
		s.WriteString(m.spinner.View() + " " + render.FetchingGrantsMessage + "\n")
	}
	s.WriteString(helpStyle.Render(help) + "\n")

	if m.status != "" {
		s.WriteString(statusStyle.Render(m.status) + "\n")
	}
	return s.String()
}

// runWizard runs the TUI until the user quits.
func runWizard(m *wizardModel) error {
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("❌ Error running TUI: %w", err)
	}
	return nil
}
