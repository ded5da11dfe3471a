// Package pomodoro derives the timer display of a card from its persisted start timestamp
// and carries the widget state that sits between a rendered card and the board coordinator.
package pomodoro

import (
	"time"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/timefmt"
)

func Target(card model.Card) int64 {
	return card.TargetSeconds()
}

// Elapsed is derived from now and the start timestamp only, so computing it twice with the
// same inputs gives the same answer and a rebuilt widget shows the same clock.
// A paused card reports the elapsed time captured at pause.
func Elapsed(card model.Card, now time.Time) int64 {
	return card.ElapsedSeconds(now)
}

func Remaining(card model.Card, now time.Time) int64 {
	remaining := Target(card) - Elapsed(card, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Progress is elapsed over target clamped to [0,1].
func Progress(card model.Card, now time.Time) float64 {
	target := Target(card)
	if target <= 0 {
		return 0
	}
	p := float64(Elapsed(card, now)) / float64(target)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

type Display struct {
	CardID    int64
	Running   bool
	Paused    bool
	Break     bool
	Cycle     int
	Elapsed   int64
	Remaining int64
	Progress  float64
	Clock     string
	Total     string
	// Completed is true only on the tick where the countdown first reached zero.
	Completed bool
}

func Compute(card model.Card, now time.Time) Display {
	remaining := Remaining(card, now)
	return Display{
		CardID:    card.ID,
		Running:   card.IsRunning(),
		Paused:    !card.IsRunning() && card.PausedElapsedSeconds > 0,
		Break:     card.IsBreak,
		Cycle:     card.CurrentCycle,
		Elapsed:   Elapsed(card, now),
		Remaining: remaining,
		Progress:  Progress(card, now),
		Clock:     timefmt.FormatPomodoroTime(remaining),
		Total:     timefmt.FormatTimeHuman(card.TotalSecondsSpent),
	}
}
