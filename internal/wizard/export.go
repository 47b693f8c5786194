package wizard

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

const defaultExportName = "project"

// Snapshot is an exported copy of the project data.
type Snapshot struct {
	Filename string
	Data     []byte
}

// ExportSnapshot serializes the project data as indented JSON. It works in
// any phase.
func (w *Wizard) ExportSnapshot() (Snapshot, error) {
	data, err := json.MarshalIndent(w.data, "", "  ")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode project data: %w", err)
	}
	return Snapshot{
		Filename: ExportFilename(w.data.Overview.ProjectName),
		Data:     append(data, '\n'),
	}, nil
}

// ExportFilename derives "<name>-application.json" from the project name.
// Characters that are unsafe in file names become '-'; an empty name falls
// back to "project".
func ExportFilename(projectName string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			return '-'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(projectName))

	name = strings.Trim(name, ". ")
	if name == "" {
		name = defaultExportName
	}
	return name + "-application.json"
}
