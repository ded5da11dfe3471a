package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/store"
)

type Publisher interface {
	Publish(event model.Event)
}

type Service struct {
	store     *store.SQLiteStore
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func New(st *store.SQLiteStore, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     st,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type BoardInput struct {
	Name        string
	Description string
	Color       string
}

type BoardPatch struct {
	Name        *string
	Description *string
	Color       *string
}

func (s *Service) ListBoards(ctx context.Context) ([]model.Board, error) {
	boards, err := s.store.ListBoards(ctx)
	if err != nil {
		return nil, newError(CodeInternal, "list boards failed", err)
	}
	return boards, nil
}

func (s *Service) GetBoard(ctx context.Context, id int64) (model.Board, error) {
	board, err := s.store.GetBoard(ctx, id)
	if err != nil {
		return model.Board{}, storeError(err, "board not found", "get board failed")
	}
	return board, nil
}

// CreateBoard creates a board together with the default To Do, Doing and Done columns.
func (s *Service) CreateBoard(ctx context.Context, in BoardInput) (model.Board, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Board{}, validationf("board name is required")
	}
	color, err := model.NormalizeColor(in.Color, model.DefaultBoardColor)
	if err != nil {
		return model.Board{}, newError(CodeValidation, err.Error(), err)
	}

	var board model.Board
	err = s.store.InTx(ctx, func(q *store.Queries) error {
		created, err := q.CreateBoard(ctx, model.Board{
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			Color:       color,
			CreatedAt:   s.now(),
		})
		if err != nil {
			return err
		}
		for i, def := range model.DefaultColumns {
			column, err := q.CreateColumn(ctx, model.Column{BoardID: created.ID, Name: def.Name, Position: i, Color: def.Color})
			if err != nil {
				return err
			}
			created.Columns = append(created.Columns, column)
		}
		board = created
		return nil
	})
	if err != nil {
		return model.Board{}, newError(CodeInternal, "create board failed", err)
	}
	s.logger.Info("board created", "board_id", board.ID, "name", board.Name)
	s.publish(model.NewEvent(model.EventTypeBoardCreated, board.ID, 0))
	return board, nil
}

func (s *Service) UpdateBoard(ctx context.Context, id int64, patch BoardPatch) (model.Board, error) {
	board, err := s.store.GetBoard(ctx, id)
	if err != nil {
		return model.Board{}, storeError(err, "board not found", "get board failed")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Board{}, validationf("board name cannot be empty")
		}
		board.Name = name
	}
	if patch.Description != nil {
		board.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Color != nil {
		color, err := model.NormalizeColor(*patch.Color, board.Color)
		if err != nil {
			return model.Board{}, newError(CodeValidation, err.Error(), err)
		}
		board.Color = color
	}
	if err := s.store.UpdateBoard(ctx, board); err != nil {
		return model.Board{}, storeError(err, "board not found", "update board failed")
	}
	s.logger.Info("board updated", "board_id", board.ID)
	s.publish(model.NewEvent(model.EventTypeBoardUpdated, board.ID, 0))
	return board, nil
}

func (s *Service) DeleteBoard(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		return q.DeleteBoard(ctx, id)
	})
	if err != nil {
		return storeError(err, "board not found", "delete board failed")
	}
	s.logger.Info("board deleted", "board_id", id)
	s.publish(model.NewEvent(model.EventTypeBoardDeleted, id, 0))
	return nil
}

type ColumnInput struct {
	Name     string
	Color    string
	Position *int
}

type ColumnPatch struct {
	Name     *string
	Color    *string
	Position *int
}

func (s *Service) ListColumns(ctx context.Context, boardID int64) ([]model.Column, error) {
	if _, err := s.store.GetBoard(ctx, boardID); err != nil {
		return nil, storeError(err, "board not found", "get board failed")
	}
	columns, err := s.store.ListColumns(ctx, boardID)
	if err != nil {
		return nil, newError(CodeInternal, "list columns failed", err)
	}
	return columns, nil
}

// CreateColumn appends a column after the last one unless a position is given.
func (s *Service) CreateColumn(ctx context.Context, boardID int64, in ColumnInput) (model.Column, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Column{}, validationf("column name is required")
	}
	color, err := model.NormalizeColor(in.Color, model.DefaultColumnColor)
	if err != nil {
		return model.Column{}, newError(CodeValidation, err.Error(), err)
	}
	if in.Position != nil && *in.Position < 0 {
		return model.Column{}, validationf("column position cannot be negative")
	}

	var column model.Column
	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetBoard(ctx, boardID); err != nil {
			return err
		}
		position := 0
		if in.Position != nil {
			position = *in.Position
		} else {
			next, err := q.NextColumnPosition(ctx, boardID)
			if err != nil {
				return err
			}
			position = next
		}
		created, err := q.CreateColumn(ctx, model.Column{BoardID: boardID, Name: name, Position: position, Color: color})
		column = created
		return err
	})
	if err != nil {
		return model.Column{}, storeError(err, "board not found", "create column failed")
	}
	s.logger.Info("column created", "board_id", boardID, "column_id", column.ID, "position", column.Position)
	s.publish(model.NewEvent(model.EventTypeColumnCreated, boardID, 0))
	return column, nil
}

func (s *Service) UpdateColumn(ctx context.Context, boardID, columnID int64, patch ColumnPatch) (model.Column, error) {
	column, err := s.store.GetColumn(ctx, boardID, columnID)
	if err != nil {
		return model.Column{}, storeError(err, "column not found", "get column failed")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Column{}, validationf("column name cannot be empty")
		}
		column.Name = name
	}
	if patch.Color != nil {
		color, err := model.NormalizeColor(*patch.Color, column.Color)
		if err != nil {
			return model.Column{}, newError(CodeValidation, err.Error(), err)
		}
		column.Color = color
	}
	if patch.Position != nil {
		if *patch.Position < 0 {
			return model.Column{}, validationf("column position cannot be negative")
		}
		column.Position = *patch.Position
	}
	if err := s.store.UpdateColumn(ctx, column); err != nil {
		return model.Column{}, storeError(err, "column not found", "update column failed")
	}
	s.logger.Info("column updated", "board_id", boardID, "column_id", columnID)
	s.publish(model.NewEvent(model.EventTypeColumnUpdated, boardID, 0))
	return column, nil
}

type ColumnDeletion struct {
	ColumnID     int64
	ReassignedTo *int64
	CardsMoved   int64
}

// DeleteColumn removes a column. Its cards move to the first remaining column of the board,
// taking that column's status when its name spells one, or are detached when no column remains.
func (s *Service) DeleteColumn(ctx context.Context, boardID, columnID int64) (ColumnDeletion, error) {
	result := ColumnDeletion{ColumnID: columnID}
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if err := q.DeleteColumn(ctx, boardID, columnID); err != nil {
			return err
		}
		remaining, err := q.ListColumns(ctx, boardID)
		if err != nil {
			return err
		}
		var status model.Status
		if len(remaining) > 0 {
			target := remaining[0].ID
			result.ReassignedTo = &target
			if parsed, err := model.ParseStatus(remaining[0].Name); err == nil {
				status = parsed
			}
		}
		result.CardsMoved, err = q.ReassignColumn(ctx, columnID, result.ReassignedTo, status, s.now())
		return err
	})
	if err != nil {
		return ColumnDeletion{}, storeError(err, "column not found", "delete column failed")
	}
	s.logger.Info("column deleted", "board_id", boardID, "column_id", columnID, "cards_moved", result.CardsMoved)
	s.publish(model.NewEvent(model.EventTypeColumnDeleted, boardID, 0))
	return result, nil
}

func (s *Service) publish(event model.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}
