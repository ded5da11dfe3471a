package model

import "time"

// ApplyDefaults fills zero-valued timer settings the way freshly created cards carry them.
func (c Card) ApplyDefaults() Card {
	if c.Status == "" {
		c.Status = StatusTodo
	}
	if c.EstimatedPomodoros <= 0 {
		c.EstimatedPomodoros = DefaultEstimatedPomodoros
	}
	if c.PomodoroDuration <= 0 {
		c.PomodoroDuration = DefaultPomodoroMinutes
	}
	if c.BreakDuration <= 0 {
		c.BreakDuration = DefaultBreakMinutes
	}
	if c.CurrentCycle <= 0 {
		c.CurrentCycle = 1
	}
	if c.Tasks == nil {
		c.Tasks = []Task{}
	}
	return c
}

// TargetSeconds is the length of the current interval: the break duration while on a break,
// the work duration otherwise.
func (c Card) TargetSeconds() int64 {
	if c.IsBreak {
		return int64(c.BreakDuration) * 60
	}
	return int64(c.PomodoroDuration) * 60
}

// ElapsedSeconds is the whole seconds spent in the current interval. A running card derives it
// from its start timestamp; a paused card reports the elapsed time captured at pause.
func (c Card) ElapsedSeconds(now time.Time) int64 {
	if c.TimerStartedAt == nil {
		return c.PausedElapsedSeconds
	}
	elapsed := int64(now.Sub(*c.TimerStartedAt) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// SetStatus changes the lifecycle status, stamping completedAt on entry into DONE
// and clearing it on the way out.
func (c *Card) SetStatus(status Status, now time.Time) {
	if status == StatusDone {
		if c.Status != StatusDone || c.CompletedAt == nil {
			ts := now.UTC()
			c.CompletedAt = &ts
		}
	} else {
		c.CompletedAt = nil
	}
	c.Status = status
}

// StartTimer starts or resumes the interval. Resuming backdates the start by the paused
// elapsed time so the countdown continues where it stopped. The card is moved to DOING.
// Starting a running card is a no-op.
func (c *Card) StartTimer(now time.Time) {
	if c.TimerStartedAt != nil {
		return
	}
	start := now.UTC().Add(-time.Duration(c.PausedElapsedSeconds) * time.Second)
	c.TimerStartedAt = &start
	if c.Status != StatusDoing {
		c.SetStatus(StatusDoing, now)
	}
}

// PauseTimer freezes the running interval. It reports false when no timer was running.
func (c *Card) PauseTimer(now time.Time, kind SessionKind) (Session, bool) {
	if c.TimerStartedAt == nil {
		return Session{}, false
	}
	elapsed := c.ElapsedSeconds(now)
	session := c.segment(now, elapsed, kind)
	c.PausedElapsedSeconds = elapsed
	c.TimerStartedAt = nil
	return session, true
}

// StopTimer ends the interval. Work time is folded into the cumulative total. A work interval
// that reached its target counts as a completed pomodoro and is followed by a break; stopping a
// break returns to work and advances the cycle. The returned session is only meaningful when
// ok is true, which happens when the timer was running at the time of the stop.
func (c *Card) StopTimer(now time.Time) (session Session, ok bool) {
	if c.TimerStartedAt == nil && c.PausedElapsedSeconds == 0 {
		return Session{}, false
	}
	elapsed := c.ElapsedSeconds(now)
	if c.TimerStartedAt != nil {
		session, ok = c.segment(now, elapsed, SessionStop), true
	}
	completed := elapsed >= c.TargetSeconds()
	if c.IsBreak {
		c.IsBreak = false
		c.CurrentCycle = NextCycle(c.CurrentCycle)
	} else {
		c.TotalSecondsSpent += elapsed
		if completed {
			c.CompletedPomodoros++
			c.IsBreak = true
		}
	}
	if ok {
		session.Completed = completed
	}
	c.PausedElapsedSeconds = 0
	c.TimerStartedAt = nil
	return session, ok
}

// segment describes the run since the last resume.
func (c Card) segment(now time.Time, elapsed int64, kind SessionKind) Session {
	resumed := c.TimerStartedAt.Add(time.Duration(c.PausedElapsedSeconds) * time.Second)
	seconds := elapsed - c.PausedElapsedSeconds
	if seconds < 0 {
		seconds = 0
	}
	return Session{
		ProjectID: c.ID,
		StartedAt: resumed.UTC(),
		EndedAt:   now.UTC(),
		Seconds:   seconds,
		Kind:      kind,
		IsBreak:   c.IsBreak,
	}
}

func NextCycle(cycle int) int {
	if cycle >= CyclesPerRound || cycle < 1 {
		return 1
	}
	return cycle + 1
}
