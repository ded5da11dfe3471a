package timercmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agnel18/DevCollab/internal/board"
	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/devcollab/commands/common"
	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/timefmt"
	"github.com/spf13/cobra"
)

func New(runtime common.Runtime, stdout io.Writer, handle common.HandleFunc, wrapErr common.WrapErrorFunc) *cobra.Command {
	timerCmd := &cobra.Command{
		Use:     "timer",
		Aliases: []string{"pomodoro", "pomo"},
		Short:   "Start, pause and stop project timers.",
		Long: strings.TrimSpace(`Only one timer runs at a time. Starting a project pauses whichever other project
is running and moves the started project to DOING.`),
	}

	intent := func(use, short string, run func(*board.Coordinator, context.Context, int64) (model.Card, error)) *cobra.Command {
		cmd := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				id, _ := cmd.Flags().GetInt64("id")
				ctx := context.Background()
				api, err := common.NewClient(runtime)
				if err != nil {
					return wrapErr(http.StatusBadRequest, err.Error())
				}
				coord, err := common.CoordinatorFor(ctx, runtime, api, id)
				if err != nil {
					return handle(runtime.Output(), stdout, nil, "", err)
				}
				card, err := run(coord, ctx, id)
				return handle(runtime.Output(), stdout, card, common.CardLine(card, time.Now()), err)
			},
		}
		cmd.Flags().Int64P("id", "i", 0, "Project id")
		_ = cmd.MarkFlagRequired("id")
		return cmd
	}

	startCmd := intent("start", "Start or resume a project timer.", (*board.Coordinator).StartPomodoro)
	pauseCmd := intent("pause", "Pause a running timer.", (*board.Coordinator).PausePomodoro)
	stopCmd := intent("stop", "Stop a timer and record the time spent.", (*board.Coordinator).StopPomodoro)

	sessionsCmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"log"},
		Short:   "List recorded timer sessions, newest first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetInt64("id")
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			sessions, err := api.ListSessions(context.Background(), id)
			return handle(runtime.Output(), stdout, map[string]any{"sessions": sessions}, sessionLines(sessions), err)
		},
	}
	sessionsCmd.Flags().Int64P("id", "i", 0, "Project id")
	_ = sessionsCmd.MarkFlagRequired("id")

	reportCmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"stats"},
		Short:   "Summarize recorded work per day, last seven days by default.",
		Long: strings.TrimSpace(`Totals work and break time and completed pomodoros for one board (-b), one
project (-p) or everything. --from and --to take YYYY-MM-DD or RFC 3339 and bound
the window on session start; --to is exclusive.`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var query client.ReportQuery
			query.BoardID, _ = cmd.Flags().GetInt64("board")
			query.ProjectID, _ = cmd.Flags().GetInt64("project")
			query.From, _ = cmd.Flags().GetString("from")
			query.To, _ = cmd.Flags().GetString("to")
			api, err := common.NewClient(runtime)
			if err != nil {
				return wrapErr(http.StatusBadRequest, err.Error())
			}
			report, err := api.PomodoroReport(context.Background(), query)
			return handle(runtime.Output(), stdout, report, reportLines(report), err)
		},
	}
	reportCmd.Flags().Int64P("board", "b", 0, "Board id")
	reportCmd.Flags().Int64P("project", "p", 0, "Project id")
	reportCmd.Flags().String("from", "", "Window start")
	reportCmd.Flags().String("to", "", "Window end")
	reportCmd.MarkFlagsMutuallyExclusive("board", "project")

	timerCmd.AddCommand(startCmd, pauseCmd, stopCmd, sessionsCmd, reportCmd)
	return timerCmd
}

func sessionLines(sessions []model.Session) string {
	if len(sessions) == 0 {
		return "no sessions"
	}
	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		phase := "work"
		if s.IsBreak {
			phase = "break"
		}
		line := fmt.Sprintf("%s %s %s %s", s.StartedAt.Local().Format(time.DateTime), phase, timefmt.FormatTimeHuman(s.Seconds), s.Kind)
		if s.Completed {
			line += " completed"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func reportLines(r model.Report) string {
	lines := make([]string, 0, len(r.Days)+3)
	lines = append(lines, fmt.Sprintf("%s to %s", r.From.Local().Format(time.DateTime), r.To.Local().Format(time.DateTime)))
	for _, day := range r.Days {
		lines = append(lines, fmt.Sprintf("%s %d sessions %s work %d completed",
			day.Date, day.Sessions, timefmt.FormatTimeHuman(day.WorkSeconds), day.CompletedPomodoros))
	}
	lines = append(lines,
		fmt.Sprintf("total %d sessions %s work %s break %d completed",
			r.Sessions, timefmt.FormatTimeHuman(r.WorkSeconds), timefmt.FormatTimeHuman(r.BreakSeconds), r.CompletedPomodoros),
		fmt.Sprintf("estimate %d/%d pomodoros", r.Estimate.Completed, r.Estimate.Estimated),
	)
	return strings.Join(lines, "\n")
}
