package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	Path() string // source path of the file the event is about
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	File      string    `json:"path"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) Path() string          { return e.File }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, path string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		File:      path,
		Timestamp: time.Now(),
	}
}
