package devcollab

import (
	"strconv"
	"strings"

	"github.com/agnel18/DevCollab/pkg/devcollabconfig"
)

type Config struct {
	ServerURL    string
	Output       Output
	SQLitePath   string
	Board        int64
	DragDistance int
	Notify       *bool
	LogLevel     string
	LogFormat    string
	// ConfigFile is served to clients by the backend's /client-config endpoint.
	ConfigFile   string
}

func (c Config) NotifyEnabled() bool {
	return c.Notify == nil || *c.Notify
}

func DefaultConfig(home string) Config {
	cfg := mapShared(devcollabconfig.Default(home))
	cfg.ConfigFile = devcollabconfig.ConfigPath(home)
	return cfg
}

// ParseEnvConfig reads DEVCOLLAB_* overrides. Malformed values are ignored.
func ParseEnvConfig(env []string) Config {
	cfg := Config{}

	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "DEVCOLLAB_SERVER_URL":
			cfg.ServerURL = value
		case "DEVCOLLAB_OUTPUT":
			if isValidOutput(value) {
				cfg.Output = Output(value)
			}
		case "DEVCOLLAB_SQLITE_PATH":
			cfg.SQLitePath = value
		case "DEVCOLLAB_BOARD":
			if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
				cfg.Board = id
			}
		case "DEVCOLLAB_DRAG_DISTANCE":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				cfg.DragDistance = n
			}
		case "DEVCOLLAB_NOTIFY":
			if b, err := strconv.ParseBool(value); err == nil {
				cfg.Notify = &b
			}
		case "DEVCOLLAB_LOG_LEVEL":
			cfg.LogLevel = value
		case "DEVCOLLAB_LOG_FORMAT":
			cfg.LogFormat = value
		}
	}

	return cfg
}

func MergeConfig(defaults, fileCfg, envCfg, flagCfg Config) Config {
	out := defaults
	applyConfig(&out, fileCfg)
	applyConfig(&out, envCfg)
	applyConfig(&out, flagCfg)
	return out
}

func applyConfig(dst *Config, src Config) {
	if value := strings.TrimSpace(src.ServerURL); value != "" {
		dst.ServerURL = value
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if value := strings.TrimSpace(src.SQLitePath); value != "" {
		dst.SQLitePath = value
	}
	if src.Board > 0 {
		dst.Board = src.Board
	}
	if src.DragDistance > 0 {
		dst.DragDistance = src.DragDistance
	}
	if src.Notify != nil {
		notify := *src.Notify
		dst.Notify = &notify
	}
	if value := strings.TrimSpace(src.LogLevel); value != "" {
		dst.LogLevel = value
	}
	if value := strings.TrimSpace(src.LogFormat); value != "" {
		dst.LogFormat = value
	}
	if value := strings.TrimSpace(src.ConfigFile); value != "" {
		dst.ConfigFile = value
	}
}

func LoadOrInitConfig(home string) (Config, error) {
	shared, err := devcollabconfig.LoadOrInit(home)
	if err != nil {
		return Config{}, err
	}
	return mapShared(shared), nil
}

func ConfigPath(home string) string {
	return devcollabconfig.ConfigPath(home)
}

func LoadConfigFile(path string) (Config, error) {
	shared, err := devcollabconfig.LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	return mapShared(shared), nil
}

func mapShared(shared devcollabconfig.Config) Config {
	cfg := Config{
		ServerURL:    strings.TrimSpace(shared.ServerURL),
		Output:       Output(strings.TrimSpace(shared.CLI.Output)),
		SQLitePath:   strings.TrimSpace(shared.Backend.SQLitePath),
		Board:        shared.CLI.Board,
		DragDistance: shared.UI.DragDistance,
		LogLevel:     strings.TrimSpace(shared.Log.Level),
		LogFormat:    strings.TrimSpace(shared.Log.Format),
	}
	if shared.UI.Notify != nil {
		notify := *shared.UI.Notify
		cfg.Notify = &notify
	}
	if cfg.Output != "" && !isValidOutput(string(cfg.Output)) {
		cfg.Output = ""
	}
	return cfg
}
