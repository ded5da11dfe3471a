package service

import (
	"context"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/store"
)

// TimerSwitch is the outcome of a start: the started card and any cards that were paused to
// keep a single timer running.
type TimerSwitch struct {
	Card   model.Card
	Paused []model.Card
}

// StartPomodoro pauses every other running timer, then starts or resumes the card's timer and
// moves it to DOING, all in one transaction. Starting a card that is already running is a no-op.
func (s *Service) StartPomodoro(ctx context.Context, id int64) (TimerSwitch, error) {
	var result TimerSwitch
	var statusChanged bool
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		card, err := q.GetCard(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()

		running, err := q.RunningCards(ctx)
		if err != nil {
			return err
		}
		for _, other := range running {
			if other.ID == id {
				continue
			}
			session, ok := other.PauseTimer(now, model.SessionSwitch)
			if !ok {
				continue
			}
			if err := q.UpdateCard(ctx, other); err != nil {
				return err
			}
			if _, err := q.InsertSession(ctx, session); err != nil {
				return err
			}
			result.Paused = append(result.Paused, other)
		}

		if card.IsRunning() {
			result.Card = card
			return nil
		}
		previous := card.Status
		card.StartTimer(now)
		if card.Status != previous {
			statusChanged = true
			columns, err := q.ListColumns(ctx, card.BoardID)
			if err != nil {
				return err
			}
			if columnID := columnForStatus(columns, card.Status); columnID != nil {
				card.ColumnID = columnID
			}
		}
		if err := q.UpdateCard(ctx, card); err != nil {
			return err
		}
		result.Card = card
		return nil
	})
	if err != nil {
		return TimerSwitch{}, storeError(err, "project not found", "start timer failed")
	}

	for _, paused := range result.Paused {
		s.logger.Info("timer paused", "project_id", paused.ID, "reason", "switch", "elapsed_seconds", paused.PausedElapsedSeconds)
		s.publish(model.NewEvent(model.EventTypeTimerPaused, paused.BoardID, paused.ID))
	}
	s.logger.Info("timer started", "project_id", result.Card.ID, "is_break", result.Card.IsBreak, "paused_others", len(result.Paused))
	s.publish(model.NewEvent(model.EventTypeTimerStarted, result.Card.BoardID, result.Card.ID))
	if statusChanged {
		s.publish(model.NewEvent(model.EventTypeProjectMoved, result.Card.BoardID, result.Card.ID))
	}
	return result, nil
}

// PausePomodoro freezes a running timer. Pausing a card without a running timer returns it unchanged.
func (s *Service) PausePomodoro(ctx context.Context, id int64) (model.Card, error) {
	var (
		card   model.Card
		paused bool
	)
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		current, err := q.GetCard(ctx, id)
		if err != nil {
			return err
		}
		session, ok := current.PauseTimer(s.now(), model.SessionPause)
		card = current
		if !ok {
			return nil
		}
		paused = true
		if err := q.UpdateCard(ctx, current); err != nil {
			return err
		}
		_, err = q.InsertSession(ctx, session)
		return err
	})
	if err != nil {
		return model.Card{}, storeError(err, "project not found", "pause timer failed")
	}
	if paused {
		s.logger.Info("timer paused", "project_id", card.ID, "elapsed_seconds", card.PausedElapsedSeconds)
		s.publish(model.NewEvent(model.EventTypeTimerPaused, card.BoardID, card.ID))
	}
	return card, nil
}

// StopPomodoro ends the current interval and folds its time into the card total.
func (s *Service) StopPomodoro(ctx context.Context, id int64) (model.Card, error) {
	var (
		card    model.Card
		stopped bool
	)
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		current, err := q.GetCard(ctx, id)
		if err != nil {
			return err
		}
		hadTimer := current.IsRunning() || current.PausedElapsedSeconds > 0
		session, recorded := current.StopTimer(s.now())
		card = current
		if !hadTimer {
			return nil
		}
		stopped = true
		if err := q.UpdateCard(ctx, current); err != nil {
			return err
		}
		if recorded {
			_, err = q.InsertSession(ctx, session)
		}
		return err
	})
	if err != nil {
		return model.Card{}, storeError(err, "project not found", "stop timer failed")
	}
	if stopped {
		s.logger.Info("timer stopped",
			"project_id", card.ID,
			"total_seconds", card.TotalSecondsSpent,
			"completed_pomodoros", card.CompletedPomodoros,
			"is_break", card.IsBreak,
		)
		s.publish(model.NewEvent(model.EventTypeTimerStopped, card.BoardID, card.ID))
	}
	return card, nil
}

func (s *Service) ListSessions(ctx context.Context, id int64) ([]model.Session, error) {
	if _, err := s.store.GetCard(ctx, id); err != nil {
		return nil, storeError(err, "project not found", "get project failed")
	}
	sessions, err := s.store.ListSessions(ctx, id)
	if err != nil {
		return nil, newError(CodeInternal, "list sessions failed", err)
	}
	return sessions, nil
}
