package devcollabconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL    = "http://127.0.0.1:8080"
	DefaultOutput       = "text"
	DefaultDragDistance = 8
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

type Config struct {
	ServerURL string        `yaml:"server_url"`
	Backend   BackendConfig `yaml:"backend"`
	CLI       CLIConfig     `yaml:"cli"`
	UI        UIConfig      `yaml:"ui"`
	Log       LogConfig     `yaml:"log"`
}

type BackendConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type CLIConfig struct {
	Output string `yaml:"output"`
	// Board is the default board for commands that accept -b. Zero means none.
	Board int64 `yaml:"board,omitempty"`
}

type UIConfig struct {
	DragDistance int `yaml:"drag_distance"`
	// Notify gates the completion bell. Nil means the default (on).
	Notify *bool `yaml:"notify"`
}

func (u UIConfig) NotifyEnabled() bool {
	return u.Notify == nil || *u.Notify
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default(home string) Config {
	stateDir := filepath.Join(home, ".local", "state", "devcollab")
	notify := true

	return Config{
		ServerURL: DefaultServerURL,
		Backend: BackendConfig{
			SQLitePath: filepath.Join(stateDir, "devcollab.db"),
		},
		CLI: CLIConfig{
			Output: DefaultOutput,
		},
		UI: UIConfig{
			DragDistance: DefaultDragDistance,
			Notify:       &notify,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

func ConfigPath(home string) string {
	return filepath.Join(home, ".config", "devcollab", "config.yaml")
}

// LoadOrInit reads the config file, creating it with defaults on first run and backfilling
// fields that older files lack.
func LoadOrInit(home string) (Config, error) {
	path := ConfigPath(home)
	defaults := Default(home)

	cfg, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := SaveFile(path, defaults); err != nil {
				return Config{}, err
			}
			return defaults, nil
		}
		return Config{}, err
	}

	merged := Merge(defaults, cfg)
	changed, err := differs(merged, cfg)
	if err != nil {
		return Config{}, err
	}
	if changed {
		if err := SaveFile(path, merged); err != nil {
			return Config{}, err
		}
	}

	return merged, nil
}

func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return normalize(cfg), nil
}

func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(normalize(cfg))
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Merge overlays the non-empty fields of user onto defaults.
func Merge(defaults Config, user Config) Config {
	out := normalize(defaults)
	in := normalize(user)

	if in.ServerURL != "" {
		out.ServerURL = in.ServerURL
	}
	if in.Backend.SQLitePath != "" {
		out.Backend.SQLitePath = in.Backend.SQLitePath
	}
	if in.CLI.Output != "" {
		out.CLI.Output = in.CLI.Output
	}
	if in.CLI.Board != 0 {
		out.CLI.Board = in.CLI.Board
	}
	if in.UI.DragDistance > 0 {
		out.UI.DragDistance = in.UI.DragDistance
	}
	if in.UI.Notify != nil {
		notify := *in.UI.Notify
		out.UI.Notify = &notify
	}
	if in.Log.Level != "" {
		out.Log.Level = in.Log.Level
	}
	if in.Log.Format != "" {
		out.Log.Format = in.Log.Format
	}

	return out
}

func normalize(cfg Config) Config {
	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	cfg.Backend.SQLitePath = strings.TrimSpace(cfg.Backend.SQLitePath)
	cfg.CLI.Output = strings.ToLower(strings.TrimSpace(cfg.CLI.Output))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	return cfg
}

func differs(a, b Config) (bool, error) {
	left, err := yaml.Marshal(a)
	if err != nil {
		return false, err
	}
	right, err := yaml.Marshal(b)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(left, right), nil
}
