package model

import (
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

type Config struct {
	API       APIConfig  `yaml:"api"`
	ExportDir string     `yaml:"export_dir"`
	Editor    string     `yaml:"editor"`
	Log       LogConfig  `yaml:"log"`
	Sync      SyncConfig `yaml:"sync"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
	File   string `yaml:"file"`   // used by the interactive wizard
}

type SyncConfig struct {
	Enable     bool   `yaml:"enable"`
	Bucket     string `yaml:"bucket"`
	Prefix     string `yaml:"prefix"`
	AWSProfile string `yaml:"aws_profile"`
	AWSRegion  string `yaml:"aws_region"`
}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 120,
			MaxRetries:     1,
		},
		ExportDir: "~/pitch",
		Editor:    "vim",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   "~/.config/pitch-cli/pitch.log",
		},
		Sync: SyncConfig{
			Prefix: "applications",
		},
	}
}

// Timeout is the per-request timeout for the analysis service.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c Config) Validate() error {
	if !govalidator.IsURL(c.API.BaseURL) {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", c.API.MaxRetries)
	}
	if c.Sync.Enable && c.Sync.Bucket == "" {
		return fmt.Errorf("sync.bucket is required when sync is enabled")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
