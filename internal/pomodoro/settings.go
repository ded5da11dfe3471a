package pomodoro

import (
	"fmt"
	"slices"
)

var (
	WorkOptions       = []int{15, 25, 45, 60}
	ShortBreakOptions = []int{5, 10, 15}
	LongBreakOptions  = []int{15, 20, 30}
)

// Settings are per-session preferences. They are never sent to the server: the countdown runs
// on the durations stored with the card. Sound gates the completion notification.
type Settings struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	Sound             bool
	AutoStartBreaks   bool
}

func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		Sound:             true,
	}
}

func (s Settings) Validate() error {
	if !slices.Contains(WorkOptions, s.WorkMinutes) {
		return fmt.Errorf("work duration must be one of %v", WorkOptions)
	}
	if !slices.Contains(ShortBreakOptions, s.ShortBreakMinutes) {
		return fmt.Errorf("short break must be one of %v", ShortBreakOptions)
	}
	if !slices.Contains(LongBreakOptions, s.LongBreakMinutes) {
		return fmt.Errorf("long break must be one of %v", LongBreakOptions)
	}
	return nil
}

// NextWork cycles to the following work option.
func (s Settings) NextWork() Settings {
	s.WorkMinutes = next(WorkOptions, s.WorkMinutes)
	return s
}

func (s Settings) NextShortBreak() Settings {
	s.ShortBreakMinutes = next(ShortBreakOptions, s.ShortBreakMinutes)
	return s
}

func (s Settings) NextLongBreak() Settings {
	s.LongBreakMinutes = next(LongBreakOptions, s.LongBreakMinutes)
	return s
}

func next(options []int, current int) int {
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	return options[(i+1)%len(options)]
}
