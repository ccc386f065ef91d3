package events

import "time"

// Event type codes published on the bus.
const (
	TypeUserRegistered      = "USER_REGISTERED"
	TypeTopupSettled        = "TOPUP_SETTLED"
	TypeGenerationCompleted = "GENERATION_COMPLETED"
	TypeLowBalance          = "LOW_BALANCE"
)

// New builds a BaseEvent with the given type and payload, stamped now.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
