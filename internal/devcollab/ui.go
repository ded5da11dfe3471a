package devcollab

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/agnel18/DevCollab/internal/board"
	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/pomodoro"
	"github.com/agnel18/DevCollab/internal/tui"
	"github.com/spf13/cobra"
)

var runUIFn = tui.Run

func newUICommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ui",
		Aliases: []string{"board-ui", "tui"},
		Short:   "Open the interactive board.",
		Long: strings.TrimSpace(`Shows one board with live pomodoro timers. Cards can be dragged between columns
with the mouse or moved with [ and ]. Press ? for all key bindings.`),
		Example: strings.TrimSpace(`devcollab ui -b 1
devcollab ui --drag-distance 4 --no-sound`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			boardID, _ := cmd.Flags().GetInt64("board")
			if !cmd.Flags().Changed("board") {
				boardID = cfg.Board
			}
			if boardID < 0 {
				return &cliError{status: http.StatusBadRequest, message: "--board must be positive"}
			}
			distance, _ := cmd.Flags().GetInt("drag-distance")
			if !cmd.Flags().Changed("drag-distance") {
				distance = cfg.DragDistance
			}
			noSound, _ := cmd.Flags().GetBool("no-sound")

			logger, closeLog, err := uiLogger(cfg)
			if err != nil {
				return &cliError{status: http.StatusInternalServerError, message: err.Error()}
			}
			defer closeLog()

			api, err := client.New(cfg.ServerURL, client.WithLogger(logger))
			if err != nil {
				return &cliError{status: http.StatusBadRequest, message: err.Error()}
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			settings := pomodoro.DefaultSettings()
			if remote, err := api.ClientConfig(ctx); err != nil {
				logger.Warn("client config unavailable", "err", err)
			} else if slices.Contains(pomodoro.WorkOptions, remote.DefaultPomodoroMinutes) {
				settings.WorkMinutes = remote.DefaultPomodoroMinutes
			}
			settings.Sound = cfg.NotifyEnabled() && !noSound

			err = runUIFn(ctx, tui.Options{
				Coordinator:  board.New(api, logger),
				BoardID:      boardID,
				Watch:        api.WatchEvents,
				DragDistance: distance,
				Settings:     settings,
				Logger:       logger,
			})
			if err != nil {
				return toCLIError(cfg.Output, err)
			}
			return nil
		},
	}

	cmd.Flags().Int64P("board", "b", 0, "Board to show (defaults to cli.board from config)")
	cmd.Flags().Int("drag-distance", 0, "Cells the pointer must travel before a drag starts")
	cmd.Flags().Bool("no-sound", false, "Disable the completion bell")
	return cmd
}

// uiLogger writes next to the database since the terminal belongs to the board.
func uiLogger(cfg *Config) (*slog.Logger, func(), error) {
	dir := filepath.Dir(cfg.SQLitePath)
	if strings.TrimSpace(cfg.SQLitePath) == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "ui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open ui log: %w", err)
	}
	logger, err := NewLogger(f, cfg.LogLevel, "logfmt")
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() { _ = f.Close() }, nil
}
