package model

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type EventType string

const (
	EventTypeBoardCreated   EventType = "board.created"
	EventTypeBoardUpdated   EventType = "board.updated"
	EventTypeBoardDeleted   EventType = "board.deleted"
	EventTypeColumnCreated  EventType = "column.created"
	EventTypeColumnUpdated  EventType = "column.updated"
	EventTypeColumnDeleted  EventType = "column.deleted"
	EventTypeProjectCreated EventType = "project.created"
	EventTypeProjectUpdated EventType = "project.updated"
	EventTypeProjectMoved   EventType = "project.moved"
	EventTypeProjectDeleted EventType = "project.deleted"
	EventTypeTimerStarted   EventType = "timer.started"
	EventTypeTimerPaused    EventType = "timer.paused"
	EventTypeTimerStopped   EventType = "timer.stopped"
	EventTypeSubtaskAdded   EventType = "subtask.added"
	EventTypeResyncRequired EventType = "resync.required"
)

var websocketEventTypes = []EventType{
	EventTypeBoardCreated,
	EventTypeBoardUpdated,
	EventTypeBoardDeleted,
	EventTypeColumnCreated,
	EventTypeColumnUpdated,
	EventTypeColumnDeleted,
	EventTypeProjectCreated,
	EventTypeProjectUpdated,
	EventTypeProjectMoved,
	EventTypeProjectDeleted,
	EventTypeTimerStarted,
	EventTypeTimerPaused,
	EventTypeTimerStopped,
	EventTypeSubtaskAdded,
	EventTypeResyncRequired,
}

func WebSocketEventTypes() []EventType {
	out := make([]EventType, len(websocketEventTypes))
	copy(out, websocketEventTypes)
	return out
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewEvent stamps an event with a sortable id and the current time.
func NewEvent(eventType EventType, boardID, projectID int64) Event {
	now := time.Now().UTC()
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), entropy)
	entropyMu.Unlock()
	return Event{
		ID:        id.String(),
		Type:      eventType,
		BoardID:   boardID,
		ProjectID: projectID,
		Timestamp: now,
	}
}
