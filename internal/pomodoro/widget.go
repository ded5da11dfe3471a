package pomodoro

import (
	"errors"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
)

var (
	ErrBusy          = errors.New("request already in flight")
	ErrStartDisabled = errors.New("start is disabled")
	ErrNotRunning    = errors.New("timer is not running")
)

const OtherTimerHint = "another timer is running; pause it first"

type Action string

const (
	ActionStart Action = "start"
	ActionPause Action = "pause"
	ActionStop  Action = "stop"
)

// Intents receive the user's timer actions for a card. The widget never talks to the backend.
type Intents struct {
	Start func(cardID int64)
	Pause func(cardID int64)
	Stop  func(cardID int64)
	// Complete is called once each time a running countdown reaches zero.
	Complete func(card model.Card)
}

// Widget holds the display-side timer state of one card. It is owned by a single event loop
// and is not safe for concurrent use.
type Widget struct {
	card       model.Card
	onlyActive bool
	intents    Intents
	settings   Settings
	busy       map[Action]bool
	// firedFor is the start timestamp whose zero crossing has already been announced.
	firedFor *time.Time
}

func NewWidget(card model.Card, onlyActive bool, intents Intents) *Widget {
	return &Widget{
		card:       card,
		onlyActive: onlyActive,
		intents:    intents,
		settings:   DefaultSettings(),
		busy:       map[Action]bool{},
	}
}

func (w *Widget) Card() model.Card {
	return w.card
}

// SetCard replaces the snapshot. A new start timestamp re-arms the completion notification.
func (w *Widget) SetCard(card model.Card) {
	if !sameInstant(card.TimerStartedAt, w.firedFor) {
		w.firedFor = nil
	}
	w.card = card
}

func (w *Widget) SetOnlyActive(onlyActive bool) {
	w.onlyActive = onlyActive
}

func (w *Widget) Settings() Settings {
	return w.settings
}

func (w *Widget) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	w.settings = s
	return nil
}

func (w *Widget) IsRunning() bool {
	return w.card.IsRunning()
}

func (w *Widget) StartEnabled() bool {
	return !w.card.IsRunning() && w.onlyActive && !w.busy[ActionStart]
}

// StartHint explains why Start is disabled, or returns "" when it is enabled.
func (w *Widget) StartHint() string {
	switch {
	case w.card.IsRunning():
		return "timer is already running"
	case !w.onlyActive:
		return OtherTimerHint
	case w.busy[ActionStart]:
		return "starting..."
	default:
		return ""
	}
}

func (w *Widget) Busy(action Action) bool {
	return w.busy[action]
}

func (w *Widget) Start() error {
	if w.busy[ActionStart] {
		return ErrBusy
	}
	if w.card.IsRunning() || !w.onlyActive {
		return ErrStartDisabled
	}
	return w.fire(ActionStart, w.intents.Start)
}

func (w *Widget) Pause() error {
	if w.busy[ActionPause] {
		return ErrBusy
	}
	if !w.card.IsRunning() {
		return ErrNotRunning
	}
	return w.fire(ActionPause, w.intents.Pause)
}

func (w *Widget) Stop() error {
	if w.busy[ActionStop] {
		return ErrBusy
	}
	if !w.card.IsRunning() && w.card.PausedElapsedSeconds == 0 {
		return ErrNotRunning
	}
	return w.fire(ActionStop, w.intents.Stop)
}

// Done re-enables a control once its request has settled, successfully or not.
func (w *Widget) Done(action Action) {
	delete(w.busy, action)
}

func (w *Widget) fire(action Action, fn func(int64)) error {
	w.busy[action] = true
	if fn != nil {
		fn(w.card.ID)
	}
	return nil
}

// Tick recomputes the display for now. The completion callback fires on the first tick where
// a running countdown is at zero and not again until the card gets a new start timestamp.
func (w *Widget) Tick(now time.Time) Display {
	d := Compute(w.card, now)
	if !d.Running || d.Remaining > 0 {
		return d
	}
	if w.firedFor != nil && sameInstant(w.firedFor, w.card.TimerStartedAt) {
		return d
	}
	started := *w.card.TimerStartedAt
	w.firedFor = &started
	d.Completed = true
	if w.settings.Sound && w.intents.Complete != nil {
		w.intents.Complete(w.card)
	}
	return d
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
