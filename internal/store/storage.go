package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nakachan-ing/pitch-cli/internal/model"
)

// ExportSuffix ends every exported application file name.
const ExportSuffix = "-application.json"

// LoadProject reads an exported application document.
func LoadProject(filePath string) (model.ProjectData, error) {
	jsonBytes, err := os.ReadFile(expandHomeDir(filePath))
	if err != nil {
		return model.ProjectData{}, fmt.Errorf("❌ Failed to read JSON file: %w", err)
	}

	project, err := model.DecodeProjectData(jsonBytes)
	if err != nil {
		return model.ProjectData{}, fmt.Errorf("❌ Failed to parse %s: %w", filePath, err)
	}
	return project, nil
}

// WriteExport writes data as name inside dir and returns the full path.
// name must be a bare file name.
func WriteExport(dir, name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("❌ Invalid export file name: %q", name)
	}

	dir = expandHomeDir(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("❌ Failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile writes data to path, creating the parent directory.
func WriteFile(path string, data []byte) error {
	path = expandHomeDir(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("❌ Failed to create directory: %w", err)
	}
	return writeFile(path, data)
}

// writeFile replaces path through a temp file so a crash never leaves half a
// document behind.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pitch-*.tmp")
	if err != nil {
		return fmt.Errorf("❌ Failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("❌ Failed to write JSON file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("❌ Failed to write JSON file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("❌ Failed to set file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("❌ Failed to write JSON file: %w", err)
	}
	return nil
}

// ListExports returns the exported application files in dir, sorted by name.
// A missing directory yields an empty list.
func ListExports(dir string) ([]string, error) {
	entries, err := os.ReadDir(expandHomeDir(dir))
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("❌ Failed to read export directory: %w", err)
	}

	files := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ExportSuffix) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}
