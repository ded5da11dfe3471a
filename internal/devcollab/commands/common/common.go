package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/agnel18/DevCollab/internal/board"
	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/pomodoro"
	"github.com/dustin/go-humanize"
)

type Runtime interface {
	ServerURL() string
	Output() string
	Logger() *slog.Logger
	DefaultBoard() int64
}

// HandleFunc renders a command result (value as JSON, text otherwise) or turns err into a CLI error.
type HandleFunc func(output string, stdout io.Writer, value any, text string, err error) error

type WrapErrorFunc func(status int, message string) error

func NewClient(runtime Runtime) (*client.Client, error) {
	return client.New(runtime.ServerURL(), client.WithLogger(runtime.Logger()))
}

// CoordinatorFor loads the board a project lives on so board-level intents can run against it.
func CoordinatorFor(ctx context.Context, runtime Runtime, api *client.Client, projectID int64) (*board.Coordinator, error) {
	card, err := api.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	coord := board.New(api, runtime.Logger())
	if err := coord.LoadProjectsByBoard(ctx, card.BoardID); err != nil {
		return nil, err
	}
	return coord, nil
}

// CardLine is the one-line text rendering of a project.
func CardLine(card model.Card, now time.Time) string {
	d := pomodoro.Compute(card, now)
	timer := "idle"
	switch {
	case d.Running:
		timer = "running " + d.Clock
	case d.Paused:
		timer = "paused " + d.Clock
	}
	parts := []string{
		fmt.Sprintf("#%d", card.ID),
		fmt.Sprintf("[%s]", card.Status),
		card.Name,
		fmt.Sprintf("(%s, %d/%d pomodoros, total %s)", timer, card.CompletedPomodoros, card.EstimatedPomodoros, d.Total),
	}
	if !card.CreatedAt.IsZero() {
		parts = append(parts, "created "+humanize.RelTime(card.CreatedAt, now, "ago", "from now"))
	}
	return strings.Join(parts, " ")
}

func CardLines(cards []model.Card, now time.Time) string {
	if len(cards) == 0 {
		return "no projects"
	}
	lines := make([]string, 0, len(cards))
	for _, card := range cards {
		lines = append(lines, CardLine(card, now))
	}
	return strings.Join(lines, "\n")
}

func BoardLine(b model.Board) string {
	names := make([]string, 0, len(b.Columns))
	for _, column := range b.Columns {
		names = append(names, fmt.Sprintf("%s#%d", column.Name, column.ID))
	}
	line := fmt.Sprintf("#%d %s %s", b.ID, b.Name, b.Color)
	if len(names) > 0 {
		line += " columns: " + strings.Join(names, ", ")
	}
	return line
}

func Deleted(kind string, id int64) string {
	return fmt.Sprintf("deleted %s %d", kind, id)
}

func Trimmed(s string) *string {
	value := strings.TrimSpace(s)
	return &value
}
