package server

import (
	"context"
	"errors"
	"os"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/pkg/devcollabconfig"
)

type paletteEntry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type clientConfigOutput struct {
	Body struct {
		ServerURL                 string         `json:"server_url"`
		DragDistance              int            `json:"drag_distance"`
		Palette                   []paletteEntry `json:"palette"`
		DefaultPomodoroMinutes    int            `json:"default_pomodoro_minutes"`
		DefaultBreakMinutes       int            `json:"default_break_minutes"`
		DefaultEstimatedPomodoros int            `json:"default_estimated_pomodoros"`
	}
}

// clientConfig tells clients where the server lives and which presets it uses. A missing or
// unreadable config file falls back to defaults.
func (s *Server) clientConfig(_ context.Context, _ *struct{}) (*clientConfigOutput, error) {
	out := &clientConfigOutput{}
	out.Body.DragDistance = devcollabconfig.DefaultDragDistance
	out.Body.DefaultPomodoroMinutes = model.DefaultPomodoroMinutes
	out.Body.DefaultBreakMinutes = model.DefaultBreakMinutes
	out.Body.DefaultEstimatedPomodoros = model.DefaultEstimatedPomodoros
	for _, name := range model.PaletteOrder {
		out.Body.Palette = append(out.Body.Palette, paletteEntry{Name: name, Hex: model.Palette[name]})
	}
	if s.configPath == "" {
		return out, nil
	}

	cfg, err := devcollabconfig.LoadFile(s.configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("client config unreadable", "path", s.configPath, "error", err)
		}
		return out, nil
	}
	out.Body.ServerURL = cfg.ServerURL
	if cfg.UI.DragDistance > 0 {
		out.Body.DragDistance = cfg.UI.DragDistance
	}
	return out, nil
}
