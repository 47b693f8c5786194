/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/nakachan-ing/pitch-cli/internal/store"
	"github.com/spf13/cobra"
)

const saveAndExit = "Save & Exit"

type configModel struct {
	cursor    int
	fields    []string
	config    model.Config
	textInput textinput.Model
	editMode  bool
	message   string
	saved     bool
	save      func(model.Config) error
}

func newConfigModel(config model.Config) *configModel {
	return &configModel{
		fields:    configFieldList(),
		config:    config,
		textInput: textinput.New(),
		save:      store.SaveConfig,
	}
}

func configFieldList() []string {
	return []string{
		"API.BaseURL", "API.TimeoutSeconds", "API.MaxRetries",
		"ExportDir", "Editor",
		"Log.Level", "Log.Format", "Log.File",
		"Sync.Enable", "Sync.Bucket", "Sync.Prefix", "Sync.AWSProfile", "Sync.AWSRegion",
		saveAndExit,
	}
}

func (m *configModel) Init() tea.Cmd {
	return nil
}

func (m *configModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editMode {
		switch key.String() {
		case "enter":
			if err := m.updateConfig(); err != nil {
				m.message = "⚠️ " + err.Error()
			} else {
				m.message = ""
			}
			m.editMode = false
			m.textInput.Blur()
		case "esc":
			m.editMode = false
			m.textInput.Blur()
		default:
			m.textInput, _ = m.textInput.Update(msg)
		}
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter":
		if m.fields[m.cursor] == saveAndExit {
			if err := m.config.Validate(); err != nil {
				m.message = "⚠️ " + err.Error()
				return m, nil
			}
			if err := m.save(m.config); err != nil {
				m.message = "⚠️ Failed to save config file: " + err.Error()
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		}
		m.editMode = true
		m.textInput.SetValue(m.getFieldValue(m.fields[m.cursor]))
		m.textInput.CursorEnd()
		m.textInput.Focus()
	}
	return m, nil
}

func (m *configModel) View() string {
	var s strings.Builder
	s.WriteString("📄 Configure pitch\n\n")

	for i, field := range m.fields {
		cursor := "  "
		if m.cursor == i {
			cursor = "👉"
		}
		if field == saveAndExit {
			s.WriteString(fmt.Sprintf("\n%s %s\n", cursor, field))
			continue
		}
		s.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, field, m.getFieldValue(field)))
	}

	if m.editMode {
		s.WriteString("\n✏️  Editing: " + m.fields[m.cursor] + "\n")
		s.WriteString(m.textInput.View() + "\n")
		s.WriteString("(Enter to apply, ESC to cancel)\n")
	} else {
		s.WriteString("\n↑/↓ to move, Enter to edit, q to quit without saving\n")
	}
	if m.message != "" {
		s.WriteString("\n" + m.message + "\n")
	}
	return s.String()
}

func (m *configModel) getFieldValue(field string) string {
	switch field {
	case "API.BaseURL":
		return m.config.API.BaseURL
	case "API.TimeoutSeconds":
		return strconv.Itoa(m.config.API.TimeoutSeconds)
	case "API.MaxRetries":
		return strconv.Itoa(m.config.API.MaxRetries)
	case "ExportDir":
		return m.config.ExportDir
	case "Editor":
		return m.config.Editor
	case "Log.Level":
		return m.config.Log.Level
	case "Log.Format":
		return m.config.Log.Format
	case "Log.File":
		return m.config.Log.File
	case "Sync.Enable":
		return strconv.FormatBool(m.config.Sync.Enable)
	case "Sync.Bucket":
		return m.config.Sync.Bucket
	case "Sync.Prefix":
		return m.config.Sync.Prefix
	case "Sync.AWSProfile":
		return m.config.Sync.AWSProfile
	case "Sync.AWSRegion":
		return m.config.Sync.AWSRegion
	default:
		return "UNKNOWN"
	}
}

func (m *configModel) updateConfig() error {
	newValue := strings.TrimSpace(m.textInput.Value())

	switch field := m.fields[m.cursor]; field {
	case "API.BaseURL":
		m.config.API.BaseURL = newValue
	case "API.TimeoutSeconds", "API.MaxRetries":
		n, err := strconv.Atoi(newValue)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if field == "API.TimeoutSeconds" {
			m.config.API.TimeoutSeconds = n
		} else {
			m.config.API.MaxRetries = n
		}
	case "ExportDir":
		m.config.ExportDir = newValue
	case "Editor":
		m.config.Editor = newValue
	case "Log.Level":
		m.config.Log.Level = newValue
	case "Log.Format":
		m.config.Log.Format = newValue
	case "Log.File":
		m.config.Log.File = newValue
	case "Sync.Enable":
		b, err := strconv.ParseBool(newValue)
		if err != nil {
			return fmt.Errorf("%s must be true or false", field)
		}
		m.config.Sync.Enable = b
	case "Sync.Bucket":
		m.config.Sync.Bucket = newValue
	case "Sync.Prefix":
		m.config.Sync.Prefix = newValue
	case "Sync.AWSProfile":
		m.config.Sync.AWSProfile = newValue
	case "Sync.AWSRegion":
		m.config.Sync.AWSRegion = newValue
	}
	return nil
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure config.yaml interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := store.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		fmt.Println(configPath)

		config, err := store.LoadConfig()
		if err != nil {
			return err
		}

		m := newConfigModel(*config)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			return fmt.Errorf("❌ Error running TUI: %w", err)
		}
		if m.saved {
			fmt.Println("✅ Config saved:", configPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
