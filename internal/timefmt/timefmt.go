// Package timefmt renders second counts for the timer clock and for cumulative totals.
package timefmt

import "fmt"

// FormatPomodoroTime renders a countdown as zero-padded MM:SS. Negative input renders 00:00.
// Minutes are not capped, so 100 minutes renders as 100:00.
func FormatPomodoroTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatTimeHuman renders a cumulative duration: "45s" below a minute, "12m" below an hour,
// "1h 5m" from an hour up.
func FormatTimeHuman(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
