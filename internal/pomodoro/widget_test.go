package pomodoro

import (
	"sync"
	"testing"
	"time"

	"github.com/agnel18/DevCollab/internal/model"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func runningCard(startedAt time.Time) model.Card {
	card := model.Card{ID: 7, Name: "Review PR", Status: model.StatusDoing}.ApplyDefaults()
	card.TimerStartedAt = &startedAt
	return card
}

func TestRemainingIsPureFunctionOfTimestamp(t *testing.T) {
	t.Parallel()

	card := runningCard(t0)
	now := t0.Add(61 * time.Second)

	first := Remaining(card, now)
	second := Remaining(card, now)
	require.Equal(t, first, second)
	require.Equal(t, int64(25*60-61), first)

	rebuilt := NewWidget(card, true, Intents{})
	require.Equal(t, Compute(card, now), rebuilt.Tick(now))
	require.Equal(t, "23:59", rebuilt.Tick(now).Clock)
}

func TestRemainingFloorsAtZeroAndProgressClamps(t *testing.T) {
	t.Parallel()

	card := runningCard(t0)
	late := t0.Add(2 * time.Hour)
	require.Zero(t, Remaining(card, late))
	require.Equal(t, 1.0, Progress(card, late))
	require.Equal(t, 0.0, Progress(card, t0.Add(-time.Minute)))
	require.InDelta(t, 0.5, Progress(card, t0.Add(750*time.Second)), 1e-9)
}

func TestBreakUsesBreakDuration(t *testing.T) {
	t.Parallel()

	card := runningCard(t0)
	card.IsBreak = true
	require.Equal(t, int64(5*60), Target(card))
	require.Equal(t, "04:00", Compute(card, t0.Add(time.Minute)).Clock)
}

func TestIdleCardShowsFullCountdown(t *testing.T) {
	t.Parallel()

	card := model.Card{ID: 1}.ApplyDefaults()
	d := Compute(card, t0)
	require.False(t, d.Running)
	require.False(t, d.Paused)
	require.Equal(t, "25:00", d.Clock)
	require.Equal(t, "0s", d.Total)
}

func TestCompletionFiresOncePerZeroCrossing(t *testing.T) {
	t.Parallel()

	var fired int
	card := runningCard(t0)
	w := NewWidget(card, true, Intents{Complete: func(model.Card) { fired++ }})

	require.False(t, w.Tick(t0.Add(24*time.Minute)).Completed)
	require.True(t, w.Tick(t0.Add(25*time.Minute)).Completed)
	require.False(t, w.Tick(t0.Add(25*time.Minute+time.Second)).Completed)
	require.False(t, w.Tick(t0.Add(26*time.Minute)).Completed)
	require.Equal(t, 1, fired)

	// Same snapshot refreshed from the server must not re-arm.
	w.SetCard(runningCard(t0))
	w.Tick(t0.Add(27 * time.Minute))
	require.Equal(t, 1, fired)

	restart := t0.Add(time.Hour)
	w.SetCard(runningCard(restart))
	w.Tick(restart.Add(25 * time.Minute))
	require.Equal(t, 2, fired)
}

func TestCompletionNotificationRespectsSoundSetting(t *testing.T) {
	t.Parallel()

	var fired int
	w := NewWidget(runningCard(t0), true, Intents{Complete: func(model.Card) { fired++ }})
	settings := w.Settings()
	settings.Sound = false
	require.NoError(t, w.SetSettings(settings))

	require.True(t, w.Tick(t0.Add(30*time.Minute)).Completed)
	require.Zero(t, fired)
}

func TestStartDisabledWhileAnotherTimerRuns(t *testing.T) {
	t.Parallel()

	var started []int64
	card := model.Card{ID: 3}.ApplyDefaults()
	w := NewWidget(card, false, Intents{Start: func(id int64) { started = append(started, id) }})

	require.False(t, w.StartEnabled())
	require.Equal(t, OtherTimerHint, w.StartHint())
	require.ErrorIs(t, w.Start(), ErrStartDisabled)
	require.Empty(t, started)

	w.SetOnlyActive(true)
	require.True(t, w.StartEnabled())
	require.Empty(t, w.StartHint())
	require.NoError(t, w.Start())
	require.Equal(t, []int64{3}, started)
}

func TestDoublePressWhilePendingCallsOnce(t *testing.T) {
	t.Parallel()

	var pauses int
	w := NewWidget(runningCard(t0), true, Intents{Pause: func(int64) { pauses++ }})

	require.NoError(t, w.Pause())
	require.True(t, w.Busy(ActionPause))
	require.ErrorIs(t, w.Pause(), ErrBusy)
	require.Equal(t, 1, pauses)

	w.Done(ActionPause)
	require.NoError(t, w.Pause())
	require.Equal(t, 2, pauses)
}

func TestPauseAndStopRequireTimer(t *testing.T) {
	t.Parallel()

	w := NewWidget(model.Card{ID: 1}.ApplyDefaults(), true, Intents{})
	require.ErrorIs(t, w.Pause(), ErrNotRunning)
	require.ErrorIs(t, w.Stop(), ErrNotRunning)

	paused := model.Card{ID: 1, PausedElapsedSeconds: 30}.ApplyDefaults()
	w.SetCard(paused)
	require.NoError(t, w.Stop())
}

func TestSettingsValidationAndCycling(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	require.NoError(t, s.Validate())
	require.Equal(t, 45, s.NextWork().WorkMinutes)
	require.Equal(t, 15, s.NextWork().NextWork().NextWork().WorkMinutes)
	require.Equal(t, 10, s.NextShortBreak().ShortBreakMinutes)
	require.Equal(t, 20, s.NextLongBreak().LongBreakMinutes)

	s.WorkMinutes = 17
	require.Error(t, s.Validate())
}

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func TestSchedulerAttachesOnlyWhileRunning(t *testing.T) {
	t.Parallel()

	ticks := make(chan time.Time, 4)
	ticker := &fakeTicker{ch: make(chan time.Time, 4)}
	s := NewScheduler(time.Second, func(now time.Time) { ticks <- now })
	var created int
	s.newTicker = func(time.Duration) Ticker {
		created++
		return ticker
	}

	s.Sync(false)
	require.False(t, s.Attached())
	require.Zero(t, created)

	s.Sync(true)
	s.Sync(true)
	require.True(t, s.Attached())
	require.Equal(t, 1, created)

	ticker.ch <- t0
	select {
	case got := <-ticks:
		require.Equal(t, t0, got)
	case <-time.After(2 * time.Second):
		t.Fatal("tick was not delivered")
	}

	s.Sync(false)
	require.False(t, s.Attached())
	require.True(t, ticker.isStopped())

	ticker.ch <- t0.Add(time.Second)
	select {
	case <-ticks:
		t.Fatal("callback fired after detach")
	case <-time.After(50 * time.Millisecond):
	}

	s.Close()
	s.Close()
}
