package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PITCH_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("PITCH_API_URL", "")
	t.Setenv("PITCH_LOG_LEVEL", "")
	t.Setenv("PITCH_EXPORT_DIR", "")
	t.Setenv("PITCH_TIMEOUT_SECONDS", "")
	return dir
}

func TestGetConfigPathFromEnv(t *testing.T) {
	dir := isolate(t)
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	isolate(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, filepath.Join(home, "pitch"), cfg.ExportDir)
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := isolate(t)

	cfg := model.DefaultConfig()
	cfg.API.BaseURL = "https://pitch.example.com"
	cfg.API.MaxRetries = 3
	cfg.ExportDir = filepath.Join(dir, "exports")
	cfg.Log.File = filepath.Join(dir, "pitch.log")
	require.NoError(t, SaveConfig(cfg))

	got, err := LoadConfig()
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, *got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	isolate(t)
	require.NoError(t, SaveConfig(model.DefaultConfig()))
	t.Setenv("PITCH_API_URL", "https://api.example.org")
	t.Setenv("PITCH_LOG_LEVEL", "debug")
	t.Setenv("PITCH_TIMEOUT_SECONDS", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 15, cfg.API.TimeoutSeconds)

	t.Setenv("PITCH_TIMEOUT_SECONDS", "soon")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api:\n  base_url: \"not a url\"\n"), 0644))

	_, err := LoadConfig()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: [\n"), 0644))
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestExpandHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "pitch"), expandHomeDir("~/pitch"))
	assert.Equal(t, "/tmp/pitch", expandHomeDir("/tmp/pitch"))
	assert.Equal(t, "~user/pitch", expandHomeDir("~user/pitch"))
}

func TestWriteExportAndLoadProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	var p model.ProjectData
	p.Overview.ProjectName = "Acme"
	p.Team.Founders = "Ada, Grace"
	data := []byte(`{"overview":{"projectName":"Acme"},"team":{"founders":"Ada, Grace"}}`)

	path, err := WriteExport(dir, "Acme-application.json", data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Acme-application.json"), path)

	got, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	files, err := ListExports(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme-application.json"}, files)
}

func TestWriteExportRejectsPaths(t *testing.T) {
	_, err := WriteExport(t.TempDir(), "../escape-application.json", []byte("{}"))
	assert.Error(t, err)
	_, err = WriteExport(t.TempDir(), "", []byte("{}"))
	assert.Error(t, err)
}

func TestLoadProjectRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"overview":{"projectNam":"typo"}}`), 0644))

	_, err := LoadProject(path)
	assert.Error(t, err)
}

func TestListExportsMissingDir(t *testing.T) {
	files, err := ListExports(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")
	require.NoError(t, WriteFile(path, []byte("{}\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))

	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
