package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/dnd"
	"github.com/agnel18/DevCollab/internal/model"
	"github.com/stretchr/testify/require"
)

type gatewayStub struct {
	mu    sync.Mutex
	calls []string

	getBoard            func(context.Context, int64) (model.Board, error)
	listProjects        func(context.Context) ([]model.Card, error)
	listProjectsByBoard func(context.Context, int64) ([]model.Card, error)
	updateProject       func(context.Context, int64, client.UpdateProjectRequest) (model.Card, error)
	deleteProject       func(context.Context, int64) (client.Deletion, error)
	deleteColumn        func(context.Context, int64, int64) (client.ColumnDeletion, error)
	startPomodoro       func(context.Context, int64) (client.StartResult, error)
	pausePomodoro       func(context.Context, int64) (model.Card, error)
	stopPomodoro        func(context.Context, int64) (model.Card, error)
}

func (g *gatewayStub) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *gatewayStub) recorded() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *gatewayStub) GetBoard(ctx context.Context, id int64) (model.Board, error) {
	g.record("getBoard")
	if g.getBoard == nil {
		return model.Board{}, errors.New("unexpected getBoard")
	}
	return g.getBoard(ctx, id)
}

func (g *gatewayStub) ListProjects(ctx context.Context) ([]model.Card, error) {
	g.record("listProjects")
	if g.listProjects == nil {
		return nil, errors.New("unexpected listProjects")
	}
	return g.listProjects(ctx)
}

func (g *gatewayStub) ListProjectsByBoard(ctx context.Context, boardID int64) ([]model.Card, error) {
	g.record("listProjectsByBoard")
	if g.listProjectsByBoard == nil {
		return nil, errors.New("unexpected listProjectsByBoard")
	}
	return g.listProjectsByBoard(ctx, boardID)
}

func (g *gatewayStub) UpdateProject(ctx context.Context, id int64, body client.UpdateProjectRequest) (model.Card, error) {
	g.record("updateProject")
	if g.updateProject == nil {
		return model.Card{}, errors.New("unexpected updateProject")
	}
	return g.updateProject(ctx, id, body)
}

func (g *gatewayStub) DeleteProject(ctx context.Context, id int64) (client.Deletion, error) {
	g.record("deleteProject")
	if g.deleteProject == nil {
		return client.Deletion{}, errors.New("unexpected deleteProject")
	}
	return g.deleteProject(ctx, id)
}

func (g *gatewayStub) DeleteColumn(ctx context.Context, boardID, columnID int64) (client.ColumnDeletion, error) {
	g.record("deleteColumn")
	if g.deleteColumn == nil {
		return client.ColumnDeletion{}, errors.New("unexpected deleteColumn")
	}
	return g.deleteColumn(ctx, boardID, columnID)
}

func (g *gatewayStub) StartPomodoro(ctx context.Context, id int64) (client.StartResult, error) {
	g.record("start")
	if g.startPomodoro == nil {
		return client.StartResult{}, errors.New("unexpected start")
	}
	return g.startPomodoro(ctx, id)
}

func (g *gatewayStub) PausePomodoro(ctx context.Context, id int64) (model.Card, error) {
	g.record("pause")
	if g.pausePomodoro == nil {
		return model.Card{}, errors.New("unexpected pause")
	}
	return g.pausePomodoro(ctx, id)
}

func (g *gatewayStub) StopPomodoro(ctx context.Context, id int64) (model.Card, error) {
	g.record("stop")
	if g.stopPomodoro == nil {
		return model.Card{}, errors.New("unexpected stop")
	}
	return g.stopPomodoro(ctx, id)
}

var startedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func columnPtr(id int64) *int64 {
	return &id
}

func testBoard() model.Board {
	return model.Board{ID: 1, Name: "Work", Columns: []model.Column{
		{ID: 10, BoardID: 1, Name: "To Do", Position: 0},
		{ID: 11, BoardID: 1, Name: "Doing", Position: 1},
		{ID: 12, BoardID: 1, Name: "Done", Position: 2},
	}}
}

func card(id int64, status model.Status, column int64, running bool) model.Card {
	c := model.Card{ID: id, Name: "card", Status: status, BoardID: 1, ColumnID: columnPtr(column), PomodoroDuration: 25, BreakDuration: 5}
	if running {
		ts := startedAt
		c.TimerStartedAt = &ts
	}
	return c
}

func paused(c model.Card) model.Card {
	c.TimerStartedAt = nil
	c.PausedElapsedSeconds = 60
	return c
}

func running(c model.Card, status model.Status, column int64) model.Card {
	ts := startedAt
	c.TimerStartedAt = &ts
	c.Status = status
	c.ColumnID = columnPtr(column)
	return c
}

func newLoaded(t *testing.T, g *gatewayStub, cards ...model.Card) *Coordinator {
	t.Helper()
	server := append([]model.Card(nil), cards...)
	if g.getBoard == nil {
		g.getBoard = func(context.Context, int64) (model.Board, error) { return testBoard(), nil }
	}
	if g.listProjectsByBoard == nil {
		g.listProjectsByBoard = func(context.Context, int64) ([]model.Card, error) { return server, nil }
	}
	c := New(g, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, c.LoadProjectsByBoard(context.Background(), 1))
	g.mu.Lock()
	g.calls = nil
	g.mu.Unlock()
	return c
}

func TestLoadDerivesActiveTimer(t *testing.T) {
	t.Parallel()
	c := newLoaded(t, &gatewayStub{}, card(1, model.StatusTodo, 10, false), card(2, model.StatusDoing, 11, true))

	s := c.Snapshot()
	require.Equal(t, PhaseLoaded, s.Phase)
	require.Equal(t, int64(1), s.BoardID)
	require.Equal(t, int64(2), s.ActiveTimerID)
	require.Len(t, s.Board.Columns, 3)
}

func TestLoadProjectsAcrossBoards(t *testing.T) {
	t.Parallel()
	g := &gatewayStub{listProjects: func(context.Context) ([]model.Card, error) {
		return []model.Card{card(4, model.StatusTodo, 10, false)}, nil
	}}
	c := New(g, nil)

	require.NoError(t, c.LoadProjects(context.Background()))
	s := c.Snapshot()
	require.Zero(t, s.BoardID)
	require.Len(t, s.Cards, 1)
}

func TestIntentsBeforeLoadFail(t *testing.T) {
	t.Parallel()
	g := &gatewayStub{}
	c := New(g, nil)

	_, err := c.StartPomodoro(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotLoaded)
	require.ErrorIs(t, c.DeleteColumn(context.Background(), 10), ErrNotLoaded)
	require.Empty(t, g.recorded())
}

func TestStartTodoCardMovesToDoing(t *testing.T) {
	t.Parallel()
	todo := card(1, model.StatusTodo, 10, false)
	var patched client.UpdateProjectRequest
	g := &gatewayStub{
		startPomodoro: func(_ context.Context, id int64) (client.StartResult, error) {
			require.Equal(t, int64(1), id)
			started := todo
			ts := startedAt
			started.TimerStartedAt = &ts
			return client.StartResult{Project: started}, nil
		},
		updateProject: func(_ context.Context, id int64, body client.UpdateProjectRequest) (model.Card, error) {
			patched = body
			return running(todo, model.StatusDoing, 11), nil
		},
	}
	c := newLoaded(t, g, todo)

	got, err := c.StartPomodoro(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, model.StatusDoing, got.Status)
	require.NotNil(t, patched.Status)
	require.Equal(t, model.StatusDoing, *patched.Status)
	require.Equal(t, []string{"start", "updateProject"}, g.recorded())

	s := c.Snapshot()
	require.Equal(t, int64(1), s.ActiveTimerID)
	stored, _ := s.Card(1)
	require.True(t, stored.InColumn(11))
}

func TestStartPausesOtherRunningCardFirst(t *testing.T) {
	t.Parallel()
	a := card(1, model.StatusDoing, 11, false)
	b := card(2, model.StatusDoing, 11, true)
	g := &gatewayStub{
		pausePomodoro: func(_ context.Context, id int64) (model.Card, error) {
			require.Equal(t, int64(2), id)
			return paused(b), nil
		},
		startPomodoro: func(_ context.Context, id int64) (client.StartResult, error) {
			return client.StartResult{Project: running(a, model.StatusDoing, 11)}, nil
		},
	}
	c := newLoaded(t, g, a, b)

	_, err := c.StartPomodoro(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []string{"pause", "start"}, g.recorded())

	s := c.Snapshot()
	require.Equal(t, int64(1), s.ActiveTimerID)
	other, _ := s.Card(2)
	require.False(t, other.IsRunning())
	require.Equal(t, int64(60), other.PausedElapsedSeconds)
}

func TestStartWithFailedPauseReloadsAndReportsPartialFailure(t *testing.T) {
	t.Parallel()
	a := card(1, model.StatusDoing, 11, false)
	b := card(2, model.StatusDoing, 11, true)
	server := []model.Card{running(a, model.StatusDoing, 11), paused(b)}
	loads := 0
	g := &gatewayStub{
		pausePomodoro: func(context.Context, int64) (model.Card, error) {
			return model.Card{}, &client.APIError{Status: 500, Message: "boom"}
		},
		startPomodoro: func(context.Context, int64) (client.StartResult, error) {
			return client.StartResult{Project: server[0], PausedIDs: []int64{2}}, nil
		},
	}
	g.listProjectsByBoard = func(context.Context, int64) ([]model.Card, error) {
		loads++
		if loads == 1 {
			return []model.Card{a, b}, nil
		}
		return server, nil
	}
	c := newLoaded(t, g)

	_, err := c.StartPomodoro(context.Background(), 1)
	require.ErrorIs(t, err, ErrPartialFailure)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, []string{"pause", "start", "getBoard", "listProjectsByBoard"}, g.recorded())

	s := c.Snapshot()
	require.Equal(t, int64(1), s.ActiveTimerID)
	other, _ := s.Card(2)
	require.False(t, other.IsRunning())
}

func TestStartFailureKeepsLastGoodState(t *testing.T) {
	t.Parallel()
	a := card(1, model.StatusTodo, 10, false)
	g := &gatewayStub{startPomodoro: func(context.Context, int64) (client.StartResult, error) {
		return client.StartResult{}, &client.APIError{Status: 404, Message: "project not found"}
	}}
	c := newLoaded(t, g, a)
	before := c.Snapshot()

	_, err := c.StartPomodoro(context.Background(), 1)
	require.Error(t, err)
	after := c.Snapshot()
	require.Equal(t, before.Cards, after.Cards)
	require.Zero(t, after.ActiveTimerID)
	require.Equal(t, "project not found", after.LastError)
}

func TestDoublePressWhileStartPendingIsRejected(t *testing.T) {
	t.Parallel()
	a := card(1, model.StatusDoing, 11, false)
	entered := make(chan struct{})
	release := make(chan struct{})
	g := &gatewayStub{startPomodoro: func(context.Context, int64) (client.StartResult, error) {
		close(entered)
		<-release
		return client.StartResult{Project: running(a, model.StatusDoing, 11)}, nil
	}}
	c := newLoaded(t, g, a)

	done := make(chan error, 1)
	go func() {
		_, err := c.StartPomodoro(context.Background(), 1)
		done <- err
	}()
	<-entered

	_, err := c.StartPomodoro(context.Background(), 1)
	require.ErrorIs(t, err, ErrInFlight)
	require.True(t, c.Snapshot().Pending["start:1"])

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, []string{"start"}, g.recorded())
	require.Empty(t, c.Snapshot().Pending)
}

func TestPauseAndStopClearActiveTimer(t *testing.T) {
	t.Parallel()
	a := card(1, model.StatusDoing, 11, true)
	g := &gatewayStub{
		pausePomodoro: func(context.Context, int64) (model.Card, error) { return paused(a), nil },
		stopPomodoro: func(context.Context, int64) (model.Card, error) {
			stopped := a
			stopped.TimerStartedAt = nil
			stopped.TotalSecondsSpent = 60
			return stopped, nil
		},
	}
	c := newLoaded(t, g, a)

	_, err := c.PausePomodoro(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, c.Snapshot().ActiveTimerID)

	got, err := c.StopPomodoro(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(60), got.TotalSecondsSpent)
}

func TestDragIntoSameContainerMakesNoCall(t *testing.T) {
	t.Parallel()
	g := &gatewayStub{}
	c := newLoaded(t, g, card(1, model.StatusTodo, 10, false))

	require.NoError(t, c.HandleDragEnd(context.Background(), 1, dnd.ColumnContainer(10)))
	require.Empty(t, g.recorded())
}

func TestDropIntoOwnStatusBucketMakesNoCall(t *testing.T) {
	t.Parallel()
	g := &gatewayStub{listProjects: func(context.Context) ([]model.Card, error) {
		return []model.Card{card(1, model.StatusDoing, 11, false)}, nil
	}}
	c := New(g, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, c.LoadProjects(context.Background()))

	require.NoError(t, c.HandleDragEnd(context.Background(), 1, dnd.StatusContainer(model.StatusDoing)))
	require.Equal(t, []string{"listProjects"}, g.recorded())
	kept, _ := c.Snapshot().Card(1)
	require.True(t, kept.InColumn(11))
}

func TestDropIntoOtherStatusBucketPatchesStatusOnly(t *testing.T) {
	t.Parallel()
	doing := card(1, model.StatusDoing, 11, false)
	var seen client.UpdateProjectRequest
	g := &gatewayStub{
		listProjects: func(context.Context) ([]model.Card, error) { return []model.Card{doing}, nil },
		updateProject: func(_ context.Context, _ int64, body client.UpdateProjectRequest) (model.Card, error) {
			seen = body
			moved := doing
			moved.Status = model.StatusDone
			moved.ColumnID = columnPtr(12)
			return moved, nil
		},
	}
	c := New(g, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, c.LoadProjects(context.Background()))

	require.NoError(t, c.HandleDragEnd(context.Background(), 1, dnd.StatusContainer(model.StatusDone)))
	require.Nil(t, seen.ColumnID)
	require.Equal(t, model.StatusDone, *seen.Status)
	moved, _ := c.Snapshot().Card(1)
	require.True(t, moved.InColumn(12))
}

func TestDragMovesCardAndPersists(t *testing.T) {
	t.Parallel()
	todo := card(1, model.StatusTodo, 10, false)
	var seen client.UpdateProjectRequest
	g := &gatewayStub{updateProject: func(_ context.Context, _ int64, body client.UpdateProjectRequest) (model.Card, error) {
		seen = body
		moved := todo
		moved.ColumnID = columnPtr(12)
		moved.Status = model.StatusDone
		return moved, nil
	}}
	c := newLoaded(t, g, todo)

	require.NoError(t, c.HandleDragEnd(context.Background(), 1, dnd.ColumnContainer(12)))
	require.Equal(t, int64(12), *seen.ColumnID)
	require.Nil(t, seen.Status)
	moved, _ := c.Snapshot().Card(1)
	require.Equal(t, model.StatusDone, moved.Status)
	require.True(t, moved.InColumn(12))
}

func TestFailedDragRevertsToServerTruth(t *testing.T) {
	t.Parallel()
	todo := card(1, model.StatusTodo, 10, false)
	g := &gatewayStub{updateProject: func(context.Context, int64, client.UpdateProjectRequest) (model.Card, error) {
		return model.Card{}, errors.New("connection refused")
	}}
	c := newLoaded(t, g, todo)

	err := c.HandleDragEnd(context.Background(), 1, dnd.StatusContainer(model.StatusDone))
	require.Error(t, err)
	require.Equal(t, []string{"updateProject", "getBoard", "listProjectsByBoard"}, g.recorded())
	restored, _ := c.Snapshot().Card(1)
	require.Equal(t, model.StatusTodo, restored.Status)
	require.True(t, restored.InColumn(10))
}

func TestDragUnknownCard(t *testing.T) {
	t.Parallel()
	c := newLoaded(t, &gatewayStub{})

	require.ErrorIs(t, c.HandleDragEnd(context.Background(), 99, dnd.ColumnContainer(10)), ErrUnknownCard)
}

func TestDeleteDoneCardNeedsConfirmation(t *testing.T) {
	t.Parallel()
	done := card(1, model.StatusDone, 12, false)
	g := &gatewayStub{deleteProject: func(_ context.Context, id int64) (client.Deletion, error) {
		return client.Deletion{ID: id, Deleted: true}, nil
	}}
	c := newLoaded(t, g, done)

	require.ErrorIs(t, c.DeleteCard(context.Background(), 1, false), ErrConfirmationRequired)
	require.Empty(t, g.recorded())

	require.NoError(t, c.DeleteCard(context.Background(), 1, true))
	require.Empty(t, c.Snapshot().Cards)
}

func TestDeleteCardKeptWhenBackendFails(t *testing.T) {
	t.Parallel()
	g := &gatewayStub{deleteProject: func(context.Context, int64) (client.Deletion, error) {
		return client.Deletion{}, &client.APIError{Status: 500, Message: "db locked"}
	}}
	c := newLoaded(t, g, card(1, model.StatusTodo, 10, false))

	require.Error(t, c.DeleteCard(context.Background(), 1, false))
	require.Len(t, c.Snapshot().Cards, 1)
}

func TestDeleteColumnFiltersCards(t *testing.T) {
	t.Parallel()
	g := &gatewayStub{deleteColumn: func(_ context.Context, boardID, columnID int64) (client.ColumnDeletion, error) {
		require.Equal(t, int64(1), boardID)
		return client.ColumnDeletion{ID: columnID, Deleted: true}, nil
	}}
	c := newLoaded(t, g, card(1, model.StatusDone, 12, false), card(2, model.StatusTodo, 10, false))

	require.NoError(t, c.DeleteColumn(context.Background(), 12))
	s := c.Snapshot()
	require.Len(t, s.Board.Columns, 2)
	require.Len(t, s.Cards, 1)
	require.Equal(t, int64(2), s.Cards[0].ID)
}

func TestStateTransitionsDoNotMutateReceiver(t *testing.T) {
	t.Parallel()
	s := State{}.Loaded(testBoard(), []model.Card{card(1, model.StatusTodo, 10, false)})

	moved := s.MoveCard(1, 0, model.StatusDoing)
	original, _ := s.Card(1)
	require.True(t, original.InColumn(10))
	next, _ := moved.Card(1)
	require.True(t, next.InColumn(10), "a status move leaves the column to the server")
	require.Equal(t, model.StatusDoing, next.Status)

	intoDone := s.MoveCard(1, 12, "")
	done, _ := intoDone.Card(1)
	require.Equal(t, model.StatusDone, done.Status)

	require.Len(t, s.RemoveCard(1).Cards, 0)
	require.Len(t, s.Cards, 1)
	require.Len(t, s.CardsIn(10, ""), 1)
	require.Len(t, moved.CardsIn(0, model.StatusDoing), 1)
}
