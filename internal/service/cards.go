package service

import (
	"context"
	"strings"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/store"
)

const maxDurationMinutes = 180

type CardInput struct {
	BoardID            int64
	ColumnID           *int64
	Name               string
	Description        string
	Status             model.Status
	EstimatedPomodoros int
	PomodoroDuration   int
	BreakDuration      int
}

// CardPatch holds the fields a PATCH may change. Nil means unchanged.
type CardPatch struct {
	Name               *string
	Description        *string
	Status             *model.Status
	ColumnID           *int64
	EstimatedPomodoros *int
	PomodoroDuration   *int
	BreakDuration      *int
}

func (s *Service) ListCards(ctx context.Context, boardID int64) ([]model.Card, error) {
	if boardID != 0 {
		if _, err := s.store.GetBoard(ctx, boardID); err != nil {
			return nil, storeError(err, "board not found", "get board failed")
		}
	}
	cards, err := s.store.ListCards(ctx, boardID)
	if err != nil {
		return nil, newError(CodeInternal, "list projects failed", err)
	}
	return cards, nil
}

func (s *Service) GetCard(ctx context.Context, id int64) (model.Card, error) {
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return model.Card{}, storeError(err, "project not found", "get project failed")
	}
	return card, nil
}

// CreateCard adds a card to a board. Without an explicit column the card lands in the column
// whose name matches its status, if the board has one.
func (s *Service) CreateCard(ctx context.Context, in CardInput) (model.Card, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Card{}, validationf("project name is required")
	}
	if in.Status != "" {
		if _, ok := model.AllowedStatus[in.Status]; !ok {
			return model.Card{}, validationf("invalid status %q", in.Status)
		}
	}
	if err := validateDurations(in.PomodoroDuration, in.BreakDuration, in.EstimatedPomodoros); err != nil {
		return model.Card{}, err
	}

	now := s.now()
	card := model.Card{
		BoardID:            in.BoardID,
		ColumnID:           in.ColumnID,
		Name:               name,
		Description:        strings.TrimSpace(in.Description),
		Status:             in.Status,
		EstimatedPomodoros: in.EstimatedPomodoros,
		PomodoroDuration:   in.PomodoroDuration,
		BreakDuration:      in.BreakDuration,
		CreatedAt:          now,
	}.ApplyDefaults()
	if card.Status == model.StatusDone {
		card.SetStatus(model.StatusDone, now)
	}

	err := s.store.InTx(ctx, func(q *store.Queries) error {
		board, err := q.GetBoard(ctx, in.BoardID)
		if err != nil {
			return validationf("board %d does not exist", in.BoardID)
		}
		if card.ColumnID != nil {
			if _, err := q.GetColumn(ctx, board.ID, *card.ColumnID); err != nil {
				return validationf("column %d does not belong to board %d", *card.ColumnID, board.ID)
			}
		} else {
			card.ColumnID = columnForStatus(board.Columns, card.Status)
		}
		created, err := q.CreateCard(ctx, card)
		card = created
		return err
	})
	if err != nil {
		return model.Card{}, storeError(err, "board not found", "create project failed")
	}
	s.logger.Info("project created", "project_id", card.ID, "board_id", card.BoardID, "status", card.Status)
	s.publish(model.NewEvent(model.EventTypeProjectCreated, card.BoardID, card.ID))
	return card, nil
}

// UpdateCard applies a partial update. Column and status follow each other when a column is
// named after a status: moving into "Done" marks the card DONE, and setting DOING moves it into
// "Doing". An explicit value in the patch always wins.
func (s *Service) UpdateCard(ctx context.Context, id int64, patch CardPatch) (model.Card, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return model.Card{}, validationf("project name cannot be empty")
	}
	if patch.Status != nil {
		if _, ok := model.AllowedStatus[*patch.Status]; !ok {
			return model.Card{}, validationf("invalid status %q", *patch.Status)
		}
	}
	for _, v := range []*int{patch.PomodoroDuration, patch.BreakDuration, patch.EstimatedPomodoros} {
		if v != nil && *v < 1 {
			return model.Card{}, validationf("durations and estimates must be at least 1")
		}
	}
	if err := validateDurations(deref(patch.PomodoroDuration), deref(patch.BreakDuration), deref(patch.EstimatedPomodoros)); err != nil {
		return model.Card{}, err
	}

	var (
		card  model.Card
		moved bool
	)
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		current, err := q.GetCard(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		next := current
		if patch.Name != nil {
			next.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			next.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.ColumnID != nil && !current.InColumn(*patch.ColumnID) {
			column, err := q.GetColumn(ctx, current.BoardID, *patch.ColumnID)
			if err != nil {
				return validationf("column %d does not belong to board %d", *patch.ColumnID, current.BoardID)
			}
			columnID := column.ID
			next.ColumnID = &columnID
			if status, err := model.ParseStatus(column.Name); err == nil && patch.Status == nil {
				next.SetStatus(status, now)
			}
			moved = true
		}
		if patch.Status != nil && *patch.Status != current.Status {
			next.SetStatus(*patch.Status, now)
			moved = true
			if patch.ColumnID == nil {
				columns, err := q.ListColumns(ctx, current.BoardID)
				if err != nil {
					return err
				}
				if columnID := columnForStatus(columns, *patch.Status); columnID != nil {
					next.ColumnID = columnID
				}
			}
		}
		if patch.EstimatedPomodoros != nil {
			next.EstimatedPomodoros = *patch.EstimatedPomodoros
		}
		if patch.PomodoroDuration != nil {
			next.PomodoroDuration = *patch.PomodoroDuration
		}
		if patch.BreakDuration != nil {
			next.BreakDuration = *patch.BreakDuration
		}
		if err := q.UpdateCard(ctx, next); err != nil {
			return err
		}
		card = next
		return nil
	})
	if err != nil {
		return model.Card{}, storeError(err, "project not found", "update project failed")
	}

	eventType := model.EventTypeProjectUpdated
	if moved {
		eventType = model.EventTypeProjectMoved
		s.logger.Info("project moved", "project_id", card.ID, "status", card.Status, "column_id", derefID(card.ColumnID))
	} else {
		s.logger.Info("project updated", "project_id", card.ID)
	}
	s.publish(model.NewEvent(eventType, card.BoardID, card.ID))
	return card, nil
}

func (s *Service) DeleteCard(ctx context.Context, id int64) error {
	var boardID int64
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		card, err := q.GetCard(ctx, id)
		if err != nil {
			return err
		}
		boardID = card.BoardID
		return q.DeleteCard(ctx, id)
	})
	if err != nil {
		return storeError(err, "project not found", "delete project failed")
	}
	s.logger.Info("project deleted", "project_id", id, "board_id", boardID)
	s.publish(model.NewEvent(model.EventTypeProjectDeleted, boardID, id))
	return nil
}

func columnForStatus(columns []model.Column, status model.Status) *int64 {
	for _, c := range columns {
		if parsed, err := model.ParseStatus(c.Name); err == nil && parsed == status {
			id := c.ID
			return &id
		}
	}
	return nil
}

// validateDurations treats zero as "not provided".
func validateDurations(work, brk, estimated int) error {
	if work < 0 || work > maxDurationMinutes {
		return validationf("pomodoro duration must be between 1 and %d minutes", maxDurationMinutes)
	}
	if brk < 0 || brk > maxDurationMinutes {
		return validationf("break duration must be between 1 and %d minutes", maxDurationMinutes)
	}
	if estimated < 0 {
		return validationf("estimated pomodoros cannot be negative")
	}
	return nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefID(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
