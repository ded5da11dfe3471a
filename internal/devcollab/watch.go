package devcollab

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/spf13/cobra"
)

func newWatchCommand(cfg *Config, rt *commandRuntime, stdout io.Writer) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"events", "stream"},
		Short:   "Stream change-feed events over websocket.",
		Long:    "Connect to the backend websocket and print every change notification until interrupted.",
		Example: strings.TrimSpace(`devcollab watch
devcollab watch --board 1
devcollab events -b 1 --output json`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			boardID, _ := cmd.Flags().GetInt64("board")
			if boardID < 0 {
				return &cliError{status: http.StatusBadRequest, message: "--board must be positive"}
			}
			api, err := newAPIClient(rt)
			if err != nil {
				return &cliError{status: http.StatusBadRequest, message: err.Error()}
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = api.WatchEvents(ctx, boardID, func(event model.Event) error {
				line, err := FormatWatchLine(cfg.Output, event)
				if err != nil {
					return &cliError{status: http.StatusInternalServerError, message: err.Error()}
				}
				if _, err := fmt.Fprintln(stdout, line); err != nil {
					return &cliError{status: http.StatusInternalServerError, message: err.Error()}
				}
				return nil
			})
			if err != nil {
				return toCLIError(cfg.Output, err)
			}
			return nil
		},
	}

	watchCmd.Flags().Int64P("board", "b", 0, "Only show events for this board")
	return watchCmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
