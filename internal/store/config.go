package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"gopkg.in/yaml.v3"
)

const appDirName = "pitch-cli"

func GetConfigPath() (string, error) {
	// Check if the environment variable `PITCH_CONFIG` is set
	if customConfig := os.Getenv("PITCH_CONFIG"); customConfig != "" {
		return customConfig, nil
	}

	var configPath string

	switch runtime.GOOS {
	case "windows":
		// Use `APPDATA\pitch-cli\config.yaml` if available
		appData := os.Getenv("APPDATA")
		if appData != "" {
			configPath = filepath.Join(appData, appDirName, "config.yaml")
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", err)
			}
			configPath = filepath.Join(homeDir, "AppData", "Roaming", appDirName, "config.yaml")
		}

	default: // macOS / Linux
		configDir, err := os.UserConfigDir()
		if err != nil {
			// Fallback to `~/.pitch-cli/config.yaml` if `os.UserConfigDir()` fails
			homeDir, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return "", fmt.Errorf("failed to determine home directory: %w", homeErr)
			}
			configPath = filepath.Join(homeDir, "."+appDirName, "config.yaml")
			fmt.Fprintf(os.Stderr, "⚠️ Failed to get user config directory, using fallback: %s\n", configPath)
		} else {
			configPath = filepath.Join(configDir, appDirName, "config.yaml")
		}
	}

	return configPath, nil
}

// Expand `~` to the home directory (Windows included)
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠️ Failed to get home directory: %v\n", err)
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// LoadConfig reads the config file, falling back to defaults when it does not
// exist yet. A `.env` in the working directory and PITCH_* variables override
// the file.
func LoadConfig() (*model.Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	config := model.DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// `pitch init` has not been run; defaults are enough to work.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file (%s): %w", configPath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	// Expand `~` in paths
	config.ExportDir = expandHomeDir(config.ExportDir)
	config.Log.File = expandHomeDir(config.Log.File)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config (%s): %w", configPath, err)
	}
	return &config, nil
}

func applyEnv(config *model.Config) error {
	if v := os.Getenv("PITCH_API_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv("PITCH_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("PITCH_EXPORT_DIR"); v != "" {
		config.ExportDir = v
	}
	if v := os.Getenv("PITCH_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PITCH_TIMEOUT_SECONDS must be a number: %w", err)
		}
		config.API.TimeoutSeconds = n
	}
	return nil
}

// SaveConfig writes config to the config path, creating the directory.
func SaveConfig(config model.Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
