// Package tui renders a board in the terminal: columns of projects with their running
// Pomodoro clocks, keyboard and mouse moves, and live reloads from the change feed.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/agnel18/DevCollab/internal/board"
	"github.com/agnel18/DevCollab/internal/dnd"
	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/pomodoro"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = time.Second

// WatchFunc subscribes to change-feed events until ctx ends. client.Client.WatchEvents fits.
type WatchFunc func(ctx context.Context, boardID int64, fn func(model.Event) error) error

type Options struct {
	Coordinator  *board.Coordinator
	BoardID      int64
	Watch        WatchFunc
	DragDistance int
	Settings     pomodoro.Settings
	Logger       *slog.Logger
	Now          func() time.Time
}

type loadedMsg struct {
	err error
}

type actionDoneMsg struct {
	action pomodoro.Action
	cardID int64
	err    error
}

type moveDoneMsg struct {
	cardID int64
	err    error
}

type deleteDoneMsg struct {
	err error
}

type tickMsg struct {
	now time.Time
}

type feedMsg struct {
	event model.Event
}

type feedClosedMsg struct {
	err error
}

// intentQueue collects what widget and drag callbacks asked for during one Update.
type intentQueue struct {
	cmds    []tea.Cmd
	notices []string
}

func (q *intentQueue) drain() ([]tea.Cmd, []string) {
	cmds, notices := q.cmds, q.notices
	q.cmds, q.notices = nil, nil
	return cmds, notices
}

// Model is the board screen.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	coord    *board.Coordinator
	boardID  int64
	watch    WatchFunc
	logger   *slog.Logger
	now      func() time.Time
	settings pomodoro.Settings

	keys keyMap
	help help.Model

	state   board.State
	widgets map[int64]*pomodoro.Widget
	queue   *intentQueue
	drag    *dnd.Adapter
	sched   *pomodoro.Scheduler
	ticks   chan time.Time
	events  chan tea.Msg

	col, row      int
	confirmCard   int64
	confirmColumn int64
	reloading     bool
	notice        string
	err           string
	width, height int
	quitting      bool
}

func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	settings := opts.Settings
	if settings.Validate() != nil {
		settings = pomodoro.DefaultSettings()
	}
	ctx, cancel := context.WithCancel(context.Background())
	queue := &intentQueue{}
	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		coord:    opts.Coordinator,
		boardID:  opts.BoardID,
		watch:    opts.Watch,
		logger:   logger,
		now:      now,
		settings: settings,
		keys:     newKeyMap(),
		help:     help.New(),
		widgets:  map[int64]*pomodoro.Widget{},
		queue:    queue,
		ticks:    make(chan time.Time, 1),
		events:   make(chan tea.Msg, 16),
	}
	m.drag = dnd.NewAdapter(dnd.Sensor{Distance: float64(opts.DragDistance)}, func(intent dnd.MoveIntent) {
		queue.cmds = append(queue.cmds, m.moveCmd(intent))
	})
	m.sched = pomodoro.NewScheduler(tickInterval, func(now time.Time) {
		select {
		case m.ticks <- now:
		default:
		}
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd(), waitTick(m.ticks)}
	if m.watch != nil {
		cmds = append(cmds, m.watchCmd(), waitFeed(m.events))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case loadedMsg:
		m.reloading = false
		m.setErr(msg.err)
		m.refresh()
		return m, nil
	case actionDoneMsg:
		if w, ok := m.widgets[msg.cardID]; ok {
			w.Done(msg.action)
		}
		m.setErr(msg.err)
		m.refresh()
		return m, nil
	case moveDoneMsg:
		m.setErr(msg.err)
		m.refresh()
		return m, nil
	case deleteDoneMsg:
		m.setErr(msg.err)
		m.refresh()
		return m, nil
	case tickMsg:
		m.handleTick(msg.now)
		return m, waitTick(m.ticks)
	case feedMsg:
		return m, tea.Batch(m.reloadOnce(), waitFeed(m.events))
	case feedClosedMsg:
		if msg.err != nil {
			m.logger.Warn("change feed closed", "err", msg.err)
			m.err = "live updates stopped: " + msg.err.Error()
		}
		return m, nil
	}
	return m, nil
}

// Close detaches the clock and stops the change feed.
func (m *Model) Close() {
	m.sched.Close()
	m.cancel()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.quitting = true
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.cancel):
		m.confirmCard, m.confirmColumn = 0, 0
		m.drag.Cancel()
		m.notice = ""
	case key.Matches(msg, m.keys.reload):
		return m, m.reloadOnce()
	case key.Matches(msg, m.keys.left):
		m.focus(m.col-1, m.row)
	case key.Matches(msg, m.keys.right):
		m.focus(m.col+1, m.row)
	case key.Matches(msg, m.keys.up):
		m.focus(m.col, m.row-1)
	case key.Matches(msg, m.keys.down):
		m.focus(m.col, m.row+1)
	case key.Matches(msg, m.keys.start):
		return m, m.widgetAction(pomodoro.ActionStart)
	case key.Matches(msg, m.keys.pause):
		return m, m.widgetAction(pomodoro.ActionPause)
	case key.Matches(msg, m.keys.stop):
		return m, m.widgetAction(pomodoro.ActionStop)
	case key.Matches(msg, m.keys.moveLeft):
		return m, m.keyboardMove(-1)
	case key.Matches(msg, m.keys.moveRight):
		return m, m.keyboardMove(1)
	case key.Matches(msg, m.keys.deleteCard):
		return m, m.deleteSelected()
	case key.Matches(msg, m.keys.deleteColumn):
		return m, m.deleteFocusedColumn()
	}
	return m, nil
}

func (m *Model) widgetAction(action pomodoro.Action) tea.Cmd {
	card, ok := m.selected()
	if !ok {
		return nil
	}
	w := m.widgets[card.ID]
	var err error
	switch action {
	case pomodoro.ActionStart:
		err = w.Start()
		if errors.Is(err, pomodoro.ErrStartDisabled) {
			m.notice = w.StartHint()
			return nil
		}
	case pomodoro.ActionPause:
		err = w.Pause()
	case pomodoro.ActionStop:
		err = w.Stop()
	}
	if err != nil {
		m.notice = err.Error()
		return nil
	}
	return m.flush()
}

func (m *Model) keyboardMove(delta int) tea.Cmd {
	card, ok := m.selected()
	if !ok {
		return nil
	}
	containers := m.containers()
	target := m.col + delta
	if target < 0 || target >= len(containers) {
		return nil
	}
	m.drag.Drop(card.ID, m.sourceOf(card), containers[target])
	m.col = target
	return m.flush()
}

func (m *Model) deleteSelected() tea.Cmd {
	card, ok := m.selected()
	if !ok {
		return nil
	}
	confirm := card.Status != model.StatusDone || m.confirmCard == card.ID
	if !confirm {
		m.confirmCard = card.ID
		m.notice = fmt.Sprintf("%q is finished; press d again to delete it", card.Name)
		return nil
	}
	m.confirmCard = 0
	coord, ctx, id := m.coord, m.ctx, card.ID
	return func() tea.Msg {
		return deleteDoneMsg{err: coord.DeleteCard(ctx, id, true)}
	}
}

func (m *Model) deleteFocusedColumn() tea.Cmd {
	containers := m.containers()
	if m.col >= len(containers) || !containers[m.col].IsColumn() {
		return nil
	}
	columnID := containers[m.col].ColumnID
	if m.confirmColumn != columnID {
		m.confirmColumn = columnID
		m.notice = "press D again to delete this column; its projects move to the first column"
		return nil
	}
	m.confirmColumn = 0
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return deleteDoneMsg{err: coord.DeleteColumn(ctx, columnID)}
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		col, row, ok := m.hitCard(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.col, m.row = col, row
		card, _ := m.selected()
		m.drag.PointerDown(card.ID, m.sourceOf(card), dnd.Point{X: float64(msg.X), Y: float64(msg.Y)})
	case tea.MouseActionMotion:
		m.drag.PointerMove(dnd.Point{X: float64(msg.X), Y: float64(msg.Y)})
	case tea.MouseActionRelease:
		var over *dnd.Container
		if col, ok := m.hitColumn(msg.X, msg.Y); ok {
			target := m.containers()[col]
			over = &target
			m.col = col
		}
		m.drag.PointerUp(over)
		return m, m.flush()
	}
	return m, nil
}

func (m *Model) handleTick(now time.Time) {
	for _, w := range m.widgets {
		if w.IsRunning() {
			w.Tick(now)
		}
	}
	_, notices := m.queue.drain()
	if len(notices) > 0 {
		m.notice = notices[len(notices)-1]
	}
}

// flush turns queued intents into commands.
func (m *Model) flush() tea.Cmd {
	cmds, notices := m.queue.drain()
	if len(notices) > 0 {
		m.notice = notices[len(notices)-1]
	}
	return tea.Batch(cmds...)
}

// refresh pulls the coordinator snapshot and brings widgets, focus and the clock in line.
func (m *Model) refresh() {
	m.state = m.coord.Snapshot()
	seen := make(map[int64]bool, len(m.state.Cards))
	for _, card := range m.state.Cards {
		seen[card.ID] = true
		onlyActive := m.state.ActiveTimerID == 0 || m.state.ActiveTimerID == card.ID
		if w, ok := m.widgets[card.ID]; ok {
			w.SetCard(card)
			w.SetOnlyActive(onlyActive)
			continue
		}
		w := pomodoro.NewWidget(card, onlyActive, m.intents())
		_ = w.SetSettings(m.settings)
		m.widgets[card.ID] = w
	}
	for id := range m.widgets {
		if !seen[id] {
			delete(m.widgets, id)
		}
	}
	m.focus(m.col, m.row)
	m.sched.Sync(m.state.ActiveTimerID != 0 && !m.quitting)
}

func (m *Model) intents() pomodoro.Intents {
	coord, ctx, queue := m.coord, m.ctx, m.queue
	return pomodoro.Intents{
		Start: func(id int64) {
			queue.cmds = append(queue.cmds, func() tea.Msg {
				_, err := coord.StartPomodoro(ctx, id)
				return actionDoneMsg{action: pomodoro.ActionStart, cardID: id, err: err}
			})
		},
		Pause: func(id int64) {
			queue.cmds = append(queue.cmds, func() tea.Msg {
				_, err := coord.PausePomodoro(ctx, id)
				return actionDoneMsg{action: pomodoro.ActionPause, cardID: id, err: err}
			})
		},
		Stop: func(id int64) {
			queue.cmds = append(queue.cmds, func() tea.Msg {
				_, err := coord.StopPomodoro(ctx, id)
				return actionDoneMsg{action: pomodoro.ActionStop, cardID: id, err: err}
			})
		},
		Complete: func(card model.Card) {
			label := "pomodoro"
			if card.IsBreak {
				label = "break"
			}
			queue.notices = append(queue.notices, fmt.Sprintf("%s finished: %s", label, card.Name))
		},
	}
}

func (m *Model) moveCmd(intent dnd.MoveIntent) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return moveDoneMsg{cardID: intent.CardID, err: coord.HandleDragEnd(ctx, intent.CardID, intent.Target)}
	}
}

func (m *Model) loadCmd() tea.Cmd {
	coord, ctx, boardID := m.coord, m.ctx, m.boardID
	return func() tea.Msg {
		if boardID > 0 {
			return loadedMsg{err: coord.LoadProjectsByBoard(ctx, boardID)}
		}
		return loadedMsg{err: coord.LoadProjects(ctx)}
	}
}

// reloadOnce coalesces bursts of feed events into a single outstanding reload.
func (m *Model) reloadOnce() tea.Cmd {
	if m.reloading {
		return nil
	}
	m.reloading = true
	return m.loadCmd()
}

func (m *Model) watchCmd() tea.Cmd {
	watch, ctx, boardID, events := m.watch, m.ctx, m.boardID, m.events
	return func() tea.Msg {
		go func() {
			err := watch(ctx, boardID, func(event model.Event) error {
				select {
				case events <- feedMsg{event: event}:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			})
			if ctx.Err() != nil {
				return
			}
			select {
			case events <- feedClosedMsg{err: err}:
			case <-ctx.Done():
			}
		}()
		return nil
	}
}

func waitTick(ticks <-chan time.Time) tea.Cmd {
	return func() tea.Msg {
		return tickMsg{now: <-ticks}
	}
}

func waitFeed(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m *Model) setErr(err error) {
	if err == nil {
		m.err = ""
		return
	}
	m.logger.Warn("board action failed", "err", err)
	switch {
	case errors.Is(err, board.ErrInFlight):
		m.notice = "still working on the previous request"
	case errors.Is(err, board.ErrPartialFailure):
		m.err = "timer switch partly failed; board reloaded"
	default:
		m.err = err.Error()
	}
}

// containers lists the drop zones left to right: the board's columns, or status buckets when
// no single board is loaded.
func (m *Model) containers() []dnd.Container {
	if len(m.state.Board.Columns) > 0 {
		out := make([]dnd.Container, 0, len(m.state.Board.Columns))
		for _, column := range m.state.Board.Columns {
			out = append(out, dnd.ColumnContainer(column.ID))
		}
		return out
	}
	return []dnd.Container{
		dnd.StatusContainer(model.StatusTodo),
		dnd.StatusContainer(model.StatusDoing),
		dnd.StatusContainer(model.StatusDone),
	}
}

// sourceOf is the container a card is drawn in: its column on a board, its status bucket otherwise.
func (m *Model) sourceOf(card model.Card) dnd.Container {
	if len(m.state.Board.Columns) > 0 {
		return dnd.ContainerOf(card)
	}
	return dnd.StatusContainer(card.Status)
}

func (m *Model) cardsIn(c dnd.Container) []model.Card {
	if c.IsColumn() {
		return m.state.CardsIn(c.ColumnID, "")
	}
	var out []model.Card
	for _, card := range m.state.Cards {
		if card.Status == c.Status {
			out = append(out, card)
		}
	}
	return out
}

func (m *Model) focus(col, row int) {
	containers := m.containers()
	col = max(0, min(col, len(containers)-1))
	cards := m.cardsIn(containers[col])
	row = max(0, min(row, len(cards)-1))
	m.col, m.row = col, row
}

func (m *Model) selected() (model.Card, bool) {
	containers := m.containers()
	if m.col >= len(containers) {
		return model.Card{}, false
	}
	cards := m.cardsIn(containers[m.col])
	if m.row >= len(cards) {
		return model.Card{}, false
	}
	return cards[m.row], true
}
