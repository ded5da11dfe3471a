package tui

import (
	"fmt"
	"strings"

	"github.com/agnel18/DevCollab/internal/board"
	"github.com/agnel18/DevCollab/internal/dnd"
	"github.com/agnel18/DevCollab/internal/model"
	"github.com/agnel18/DevCollab/internal/pomodoro"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Layout rows above the first card: title line, column border, column title.
const (
	cardsTop    = 3
	cardHeight  = 2
	minColWidth = 22
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state.Phase != board.PhaseLoaded {
		if m.err != "" {
			return errorStyle.Render("load failed: "+m.err) + "\n"
		}
		return "Loading board..."
	}

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n")

	containers := m.containers()
	width := m.columnWidth()
	columns := make([]string, 0, len(containers))
	for i, c := range containers {
		columns = append(columns, m.renderColumn(i, c, width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) titleLine() string {
	name := "All projects"
	if m.state.BoardID > 0 {
		name = m.state.Board.Name
	}
	line := titleStyle.Render(name)
	switch {
	case m.err != "":
		line += "  " + errorStyle.Render(m.err)
	case m.notice != "":
		line += "  " + noticeStyle.Render(m.notice)
	}
	return line
}

func (m *Model) renderColumn(index int, c dnd.Container, width int) string {
	title, color := m.columnHeader(c)
	cards := m.cardsIn(c)
	inner := width - 4
	overlay, dragging := m.drag.Overlay()

	lines := []string{columnTitleStyle.Render(truncate(fmt.Sprintf("%s (%d)", title, len(cards)), inner))}
	for row, card := range cards {
		style := cardStyle
		switch {
		case dragging && overlay.CardID == card.ID:
			style = draggedCardStyle
		case index == m.col && row == m.row:
			style = selectedCardStyle
		}
		lines = append(lines,
			style.Render(truncate(card.Name, inner)),
			m.timerLine(card, inner),
		)
	}
	return borderFor(color).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) columnHeader(c dnd.Container) (string, string) {
	if !c.IsColumn() {
		return string(c.Status), ""
	}
	for _, column := range m.state.Board.Columns {
		if column.ID == c.ColumnID {
			return column.Name, column.Color
		}
	}
	return c.String(), ""
}

func (m *Model) timerLine(card model.Card, width int) string {
	d := pomodoro.Compute(card, m.now())
	phase := "work"
	if d.Break {
		phase = "break"
	}
	switch {
	case d.Running:
		return runningStyle.Render(truncate(fmt.Sprintf("▶ %s %s", d.Clock, phase), width))
	case d.Paused:
		return pausedStyle.Render(truncate(fmt.Sprintf("⏸ %s %s", d.Clock, phase), width))
	default:
		return idleStyle.Render(truncate(fmt.Sprintf("· %s total %s", d.Clock, d.Total), width))
	}
}

// statusLine describes the selected project.
func (m *Model) statusLine() string {
	card, ok := m.selected()
	if !ok {
		return statusBarStyle.Render("no project selected")
	}
	d := pomodoro.Compute(card, m.now())
	parts := []string{
		card.Name,
		string(card.Status),
		fmt.Sprintf("%d/%d pomodoros", card.CompletedPomodoros, card.EstimatedPomodoros),
		"total " + d.Total,
		fmt.Sprintf("cycle %d", d.Cycle),
	}
	if !card.CreatedAt.IsZero() {
		parts = append(parts, "created "+humanize.RelTime(card.CreatedAt, m.now(), "ago", "from now"))
	}
	if w, ok := m.widgets[card.ID]; ok {
		if hint := w.StartHint(); hint != "" && !card.IsRunning() {
			parts = append(parts, hint)
		}
	}
	return statusBarStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) columnWidth() int {
	n := len(m.containers())
	if n == 0 || m.width == 0 {
		return minColWidth
	}
	return max(minColWidth, m.width/n)
}

// hitColumn maps screen coordinates to a container index.
func (m *Model) hitColumn(x, y int) (int, bool) {
	if y < 1 {
		return 0, false
	}
	col := x / m.columnWidth()
	if col < 0 || col >= len(m.containers()) {
		return 0, false
	}
	return col, true
}

// hitCard maps screen coordinates to a card position.
func (m *Model) hitCard(x, y int) (int, int, bool) {
	col, ok := m.hitColumn(x, y)
	if !ok || y < cardsTop {
		return 0, 0, false
	}
	row := (y - cardsTop) / cardHeight
	if row >= len(m.cardsIn(m.containers()[col])) {
		return 0, 0, false
	}
	return col, row, true
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
