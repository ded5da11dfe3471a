package common

import (
	"testing"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCardLineShowsTimerState(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	started := now.Add(-90 * time.Second)
	card := model.Card{
		ID:                 4,
		Name:               "Landing page",
		Status:             model.StatusDoing,
		EstimatedPomodoros: 3,
		CompletedPomodoros: 1,
		PomodoroDuration:   25,
		BreakDuration:      5,
		TimerStartedAt:     &started,
		CreatedAt:          now.Add(-2 * time.Hour),
	}

	line := CardLine(card, now)
	require.Contains(t, line, "#4 [DOING] Landing page")
	require.Contains(t, line, "running 23:30")
	require.Contains(t, line, "1/3 pomodoros")
	require.Contains(t, line, "created 2 hours ago")

	card.TimerStartedAt = nil
	card.PausedElapsedSeconds = 60
	require.Contains(t, CardLine(card, now), "paused 24:00")

	card.PausedElapsedSeconds = 0
	require.Contains(t, CardLine(card, now), "(idle,")
}

func TestListAndBoardLines(t *testing.T) {
	t.Parallel()

	require.Equal(t, "no projects", CardLines(nil, time.Now()))
	require.Equal(t, "#2 Ops #3B82F6 columns: To Do#5, Done#6", BoardLine(model.Board{
		ID:    2,
		Name:  "Ops",
		Color: "#3B82F6",
		Columns: []model.Column{
			{ID: 5, Name: "To Do"},
			{ID: 6, Name: "Done"},
		},
	}))
	require.Equal(t, "deleted task 9", Deleted("task", 9))
	require.Equal(t, "x", *Trimmed("  x "))
}
