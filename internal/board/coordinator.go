// Package board coordinates card and timer intents against the backend and keeps the local
// view of a board consistent with the server's answers.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/dnd"
	"github.com/agnel18/DevCollab/internal/model"
)

var (
	ErrInFlight             = errors.New("request already in flight")
	ErrConfirmationRequired = errors.New("deleting a finished project needs confirmation")
	ErrPartialFailure       = errors.New("timer switch partially failed")
	ErrNotLoaded            = errors.New("board not loaded")
	ErrUnknownCard          = errors.New("project not on board")
)

// Gateway is the slice of the REST client the coordinator drives. *client.Client satisfies it.
type Gateway interface {
	GetBoard(ctx context.Context, id int64) (model.Board, error)
	ListProjects(ctx context.Context) ([]model.Card, error)
	ListProjectsByBoard(ctx context.Context, boardID int64) ([]model.Card, error)
	UpdateProject(ctx context.Context, id int64, body client.UpdateProjectRequest) (model.Card, error)
	DeleteProject(ctx context.Context, id int64) (client.Deletion, error)
	DeleteColumn(ctx context.Context, boardID, columnID int64) (client.ColumnDeletion, error)
	StartPomodoro(ctx context.Context, id int64) (client.StartResult, error)
	PausePomodoro(ctx context.Context, id int64) (model.Card, error)
	StopPomodoro(ctx context.Context, id int64) (model.Card, error)
}

type action string

const (
	actionStart  action = "start"
	actionPause  action = "pause"
	actionStop   action = "stop"
	actionMove   action = "move"
	actionDelete action = "delete"
)

func pendingKey(a action, id int64) string {
	return fmt.Sprintf("%s:%d", a, id)
}

type Coordinator struct {
	gateway Gateway
	logger  *slog.Logger

	mu    sync.Mutex
	state State
}

func New(gateway Gateway, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		gateway: gateway,
		logger:  logger,
		state:   State{Pending: map[string]bool{}},
	}
}

// Snapshot returns a copy of the current state that callers may keep.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// LoadProjects loads every project across boards.
func (c *Coordinator) LoadProjects(ctx context.Context) error {
	cards, err := c.gateway.ListProjects(ctx)
	if err != nil {
		return c.fail("load projects", err)
	}
	c.update(func(s State) State { return s.Loaded(model.Board{}, cards) })
	return nil
}

// LoadProjectsByBoard loads a board with its columns and projects.
func (c *Coordinator) LoadProjectsByBoard(ctx context.Context, boardID int64) error {
	b, err := c.gateway.GetBoard(ctx, boardID)
	if err != nil {
		return c.fail("load board", err, "board_id", boardID)
	}
	cards, err := c.gateway.ListProjectsByBoard(ctx, boardID)
	if err != nil {
		return c.fail("load projects", err, "board_id", boardID)
	}
	c.update(func(s State) State { return s.Loaded(b, cards) })
	return nil
}

// Reload repeats the last load, scoped to the loaded board if there is one.
func (c *Coordinator) Reload(ctx context.Context) error {
	boardID := c.Snapshot().BoardID
	if boardID > 0 {
		return c.LoadProjectsByBoard(ctx, boardID)
	}
	return c.LoadProjects(ctx)
}

// StartPomodoro pauses whichever other card runs, then starts id and moves it to DOING.
// When the pause fails but the start goes through, the board is reloaded and the returned
// error wraps ErrPartialFailure.
func (c *Coordinator) StartPomodoro(ctx context.Context, id int64) (model.Card, error) {
	snapshot, err := c.begin(actionStart, id)
	if err != nil {
		return model.Card{}, err
	}
	defer c.end(actionStart, id)

	var pauseErr error
	if other := otherRunning(snapshot, id); other != 0 {
		paused, err := c.gateway.PausePomodoro(ctx, other)
		if err != nil {
			pauseErr = fmt.Errorf("pause project %d: %w", other, err)
			c.logger.Warn("pause before start failed", "project_id", other, "err", err)
		} else {
			c.update(func(s State) State { return s.ReplaceCard(paused) })
		}
	}

	result, err := c.gateway.StartPomodoro(ctx, id)
	if err != nil {
		if pauseErr != nil {
			err = errors.Join(pauseErr, err)
		}
		return model.Card{}, c.fail("start pomodoro", err, "project_id", id)
	}
	card := result.Project
	staleOthers := false
	c.update(func(s State) State {
		for _, pausedID := range result.PausedIDs {
			if local, ok := s.Card(pausedID); ok && local.IsRunning() {
				staleOthers = true
			}
		}
		s = s.ReplaceCard(card)
		s.ActiveTimerID = id
		return s
	})
	c.logger.Info("timer started", "project_id", id, "paused", result.PausedIDs)

	if card.Status != model.StatusDoing {
		doing := model.StatusDoing
		updated, err := c.gateway.UpdateProject(ctx, id, client.UpdateProjectRequest{Status: &doing})
		if err != nil {
			return card, c.fail("move started project to DOING", err, "project_id", id)
		}
		card = updated
		c.update(func(s State) State { return s.ReplaceCard(card) })
	}

	if pauseErr != nil || staleOthers {
		if err := c.Reload(ctx); err != nil {
			c.logger.Warn("reload after timer switch failed", "err", err)
		}
	}
	if pauseErr != nil {
		return card, fmt.Errorf("%w: %w", ErrPartialFailure, pauseErr)
	}
	return card, nil
}

func (c *Coordinator) PausePomodoro(ctx context.Context, id int64) (model.Card, error) {
	return c.timerCall(ctx, actionPause, id, "timer paused", c.gateway.PausePomodoro)
}

func (c *Coordinator) StopPomodoro(ctx context.Context, id int64) (model.Card, error) {
	return c.timerCall(ctx, actionStop, id, "timer stopped", c.gateway.StopPomodoro)
}

func (c *Coordinator) timerCall(ctx context.Context, a action, id int64, done string, call func(context.Context, int64) (model.Card, error)) (model.Card, error) {
	if _, err := c.begin(a, id); err != nil {
		return model.Card{}, err
	}
	defer c.end(a, id)

	card, err := call(ctx, id)
	if err != nil {
		return model.Card{}, c.fail(string(a)+" pomodoro", err, "project_id", id)
	}
	c.update(func(s State) State {
		s = s.ReplaceCard(card)
		if s.ActiveTimerID == id {
			s.ActiveTimerID = 0
		}
		return s
	})
	c.logger.Info(done, "project_id", id)
	return card, nil
}

// HandleDragEnd moves a card optimistically, then persists the move. A failed update reloads
// the board so the local view returns to the server's truth.
func (c *Coordinator) HandleDragEnd(ctx context.Context, cardID int64, target dnd.Container) error {
	snapshot, err := c.begin(actionMove, cardID)
	if err != nil {
		return err
	}
	defer c.end(actionMove, cardID)

	card, ok := snapshot.Card(cardID)
	if !ok {
		return ErrUnknownCard
	}
	if dnd.Holds(card, target) {
		return nil
	}

	req := client.UpdateProjectRequest{}
	if target.IsColumn() {
		columnID := target.ColumnID
		req.ColumnID = &columnID
	} else {
		status := target.Status
		req.Status = &status
	}
	c.update(func(s State) State { return s.MoveCard(cardID, target.ColumnID, target.Status) })

	updated, err := c.gateway.UpdateProject(ctx, cardID, req)
	if err != nil {
		failure := c.fail("move project", err, "project_id", cardID, "target", target.String())
		if reloadErr := c.Reload(ctx); reloadErr != nil {
			c.logger.Warn("reload after failed move failed", "err", reloadErr)
		}
		return failure
	}
	c.update(func(s State) State { return s.ReplaceCard(updated) })
	c.logger.Info("project moved", "project_id", cardID, "target", target.String())
	return nil
}

// DeleteCard removes a card once the backend confirms. Finished cards need confirm.
func (c *Coordinator) DeleteCard(ctx context.Context, id int64, confirm bool) error {
	snapshot, err := c.begin(actionDelete, id)
	if err != nil {
		return err
	}
	defer c.end(actionDelete, id)

	if card, ok := snapshot.Card(id); ok && card.Status == model.StatusDone && !confirm {
		return ErrConfirmationRequired
	}
	if _, err := c.gateway.DeleteProject(ctx, id); err != nil {
		return c.fail("delete project", err, "project_id", id)
	}
	c.update(func(s State) State { return s.RemoveCard(id) })
	c.logger.Info("project deleted", "project_id", id)
	return nil
}

// DeleteColumn deletes a column of the loaded board. Cards the backend reassigned elsewhere
// come back with a reload.
func (c *Coordinator) DeleteColumn(ctx context.Context, columnID int64) error {
	snapshot := c.Snapshot()
	if snapshot.Phase != PhaseLoaded || snapshot.BoardID == 0 {
		return ErrNotLoaded
	}
	result, err := c.gateway.DeleteColumn(ctx, snapshot.BoardID, columnID)
	if err != nil {
		return c.fail("delete column", err, "column_id", columnID)
	}
	c.update(func(s State) State { return s.RemoveColumn(columnID) })
	c.logger.Info("column deleted", "column_id", columnID, "projects_moved", result.ProjectsMoved)
	if result.ProjectsMoved > 0 {
		return c.Reload(ctx)
	}
	return nil
}

func (c *Coordinator) begin(a action, id int64) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseLoaded {
		return State{}, ErrNotLoaded
	}
	key := pendingKey(a, id)
	if c.state.Pending[key] {
		return State{}, fmt.Errorf("%s project %d: %w", a, id, ErrInFlight)
	}
	c.state.Pending[key] = true
	return c.state.clone(), nil
}

func (c *Coordinator) end(a action, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.state.Pending, pendingKey(a, id))
}

func (c *Coordinator) update(fn func(State) State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := c.state.Pending
	c.state = fn(c.state)
	c.state.Pending = pending
}

func (c *Coordinator) fail(op string, err error, attrs ...any) error {
	c.logger.Error(op+" failed", append(attrs, "err", err)...)
	message := err.Error()
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		message = apiErr.Message
	}
	c.mu.Lock()
	c.state.LastError = message
	c.mu.Unlock()
	return fmt.Errorf("%s: %w", op, err)
}

func otherRunning(s State, id int64) int64 {
	if s.ActiveTimerID != 0 && s.ActiveTimerID != id {
		return s.ActiveTimerID
	}
	for _, card := range s.Cards {
		if card.ID != id && card.IsRunning() {
			return card.ID
		}
	}
	return 0
}
