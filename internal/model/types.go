package model

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusTodo  Status = "TODO"
	StatusDoing Status = "DOING"
	StatusDone  Status = "DONE"
)

var AllowedStatus = map[Status]struct{}{
	StatusTodo:  {},
	StatusDoing: {},
	StatusDone:  {},
}

// ParseStatus accepts the wire form and the lowercase/"To Do" spellings used in column names.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	status := Status(normalized)
	if _, ok := AllowedStatus[status]; !ok {
		return "", fmt.Errorf("invalid status %q (allowed: TODO, DOING, DONE)", raw)
	}
	return status, nil
}

const (
	DefaultPomodoroMinutes    = 25
	DefaultBreakMinutes       = 5
	DefaultEstimatedPomodoros = 1
	CyclesPerRound            = 4
)

type Board struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	Columns     []Column  `json:"columns"`
}

type Column struct {
	ID       int64  `json:"id"`
	BoardID  int64  `json:"boardId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Color    string `json:"color"`
}

// Card is a unit of work carrying its own Pomodoro timer. It travels as "project" on the wire.
type Card struct {
	ID                   int64      `json:"id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	Status               Status     `json:"status"`
	BoardID              int64      `json:"boardId"`
	ColumnID             *int64     `json:"columnId"`
	EstimatedPomodoros   int        `json:"estimatedPomodoros"`
	CompletedPomodoros   int        `json:"completedPomodoros"`
	TotalSecondsSpent    int64      `json:"totalSecondsSpent"`
	PausedElapsedSeconds int64      `json:"pausedElapsedSeconds"`
	TimerStartedAt       *time.Time `json:"pomodoroStart"`
	PomodoroDuration     int        `json:"pomodoroDuration"`
	BreakDuration        int        `json:"breakDuration"`
	IsBreak              bool       `json:"isBreak"`
	CurrentCycle         int        `json:"currentCycle"`
	CreatedAt            time.Time  `json:"createdAt"`
	CompletedAt          *time.Time `json:"completedAt"`
	Tasks                []Task     `json:"tasks"`
}

func (c Card) IsRunning() bool {
	return c.TimerStartedAt != nil
}

func (c Card) InColumn(columnID int64) bool {
	return c.ColumnID != nil && *c.ColumnID == columnID
}

type Task struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	Name      string    `json:"name"`
	Subtasks  []Subtask `json:"subtasks"`
}

type Subtask struct {
	ID                 int64  `json:"id"`
	TaskID             int64  `json:"taskId"`
	Name               string `json:"name"`
	EstimatedPomodoros int    `json:"estimatedPomodoros"`
	CompletedPomodoros int    `json:"completedPomodoros"`
	TotalSecondsSpent  int64  `json:"totalSecondsSpent"`
}

type SessionKind string

const (
	SessionPause  SessionKind = "pause"
	SessionStop   SessionKind = "stop"
	SessionSwitch SessionKind = "switch"
)

// Session is one closed timer interval, recorded whenever a running timer is paused or stopped.
type Session struct {
	ID        int64       `json:"id"`
	ProjectID int64       `json:"projectId"`
	StartedAt time.Time   `json:"startedAt"`
	EndedAt   time.Time   `json:"endedAt"`
	Seconds   int64       `json:"seconds"`
	Kind      SessionKind `json:"kind"`
	IsBreak   bool        `json:"isBreak"`
	Completed bool        `json:"completed"`
}

// Report summarizes the timer sessions that started inside [From, To).
type Report struct {
	BoardID            int64       `json:"boardId,omitempty"`
	ProjectID          int64       `json:"projectId,omitempty"`
	From               time.Time   `json:"from"`
	To                 time.Time   `json:"to"`
	Sessions           int         `json:"sessions"`
	WorkSeconds        int64       `json:"workSeconds"`
	BreakSeconds       int64       `json:"breakSeconds"`
	CompletedPomodoros int         `json:"completedPomodoros"`
	Days               []ReportDay `json:"days"`
	// Estimate compares estimated and completed pomodoros over every card in scope, regardless
	// of the window.
	Estimate Estimate `json:"estimate"`
}

// ReportDay is one UTC calendar day of a report. Days without sessions are omitted.
type ReportDay struct {
	Date               string `json:"date"`
	Sessions           int    `json:"sessions"`
	WorkSeconds        int64  `json:"workSeconds"`
	CompletedPomodoros int    `json:"completedPomodoros"`
}

type Estimate struct {
	Estimated int `json:"estimated"`
	Completed int `json:"completed"`
}

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	BoardID   int64     `json:"boardId,omitempty"`
	ProjectID int64     `json:"projectId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
