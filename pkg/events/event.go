package events

import "time"

// Event is what travels over the bus: a type code plus a flat payload.
type Event interface {
	// EventType returns the code the event is routed by (e.g. "TOPUP_SETTLED").
	EventType() string

	// Payload returns the event data as published.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the envelope every domain event in this service uses.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
