// Package config loads brieflink settings.
//
// Precedence (highest to lowest):
//  1. Environment variables (BRIEFLINK_STORAGE_DIR, BRIEFLINK_LOG_LEVEL, ...)
//  2. YAML config file (~/.brieflink/config.yaml or $BRIEFLINK_CONFIG)
//  3. Defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"brieflink/internal/worktrail"
)

const envPrefix = "BRIEFLINK_"

const maxConfigFileSize = 1024 * 1024 // 1MB

type Config struct {
	Storage StorageConfig `koanf:"storage" json:"storage"`
	Log     LogConfig     `koanf:"log" json:"log"`
	Tasks   TasksConfig   `koanf:"tasks" json:"tasks"`
	Context ContextConfig `koanf:"context" json:"context"`
	Trail   TrailConfig   `koanf:"trail" json:"trail"`

	// Path is the config file that was considered (it may not exist).
	Path string `koanf:"-" json:"path"`
}

type StorageConfig struct {
	Dir     string `koanf:"dir" json:"dir"`
	Backend string `koanf:"backend" json:"backend"`
}

type LogConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
}

type TasksConfig struct {
	Retention time.Duration `koanf:"retention" json:"retention"`
}

type ContextConfig struct {
	ResumeWindow time.Duration `koanf:"resume_window" json:"resumeWindow"`
	AutoDismiss  time.Duration `koanf:"auto_dismiss" json:"autoDismiss"`
	ReplayStep   time.Duration `koanf:"replay_step" json:"replayStep"`
}

type TrailConfig struct {
	Max int `koanf:"max" json:"max"`
}

func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{Backend: "sqlite"},
		Log:     LogConfig{Level: "warn", Format: "console"},
		Tasks:   TasksConfig{Retention: 24 * time.Hour},
		Context: ContextConfig{
			ResumeWindow: 24 * time.Hour,
			AutoDismiss:  10 * time.Second,
			ReplayStep:   50 * time.Millisecond,
		},
		Trail: TrailConfig{Max: 10},
	}
}

// DefaultPath returns $BRIEFLINK_CONFIG or ~/.brieflink/config.yaml.
func DefaultPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv("BRIEFLINK_CONFIG")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".brieflink", "config.yaml"), nil
}

// Load reads configuration from path (default path when empty) and the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := Defaults()
	cfg.Path = path

	k := koanf.New(".")
	if st, err := os.Stat(path); err == nil {
		if st.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	// BRIEFLINK_CONTEXT_RESUME_WINDOW -> context.resume_window
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Storage.Backend)) {
	case "", "sqlite", "json", "memory":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Tasks.Retention < 0 {
		return errors.New("tasks.retention must not be negative")
	}
	if c.Context.ResumeWindow < 0 {
		return errors.New("context.resume_window must not be negative")
	}
	if c.Trail.Max < 0 || c.Trail.Max > worktrail.DefaultMaxCrumbs {
		return fmt.Errorf("trail.max must be between 0 and %d; got %d", worktrail.DefaultMaxCrumbs, c.Trail.Max)
	}
	return nil
}
