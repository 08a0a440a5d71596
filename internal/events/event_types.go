package events

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventStamped        EventType = "stamped"
	EventClockedOut     EventType = "clocked_out"
	EventDayRolledOver  EventType = "day_rolled_over"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StampedPayload payload.
type StampedPayload struct {
	Kind      domain.EntryKind        `json:"kind"`
	NewStatus domain.AttendanceStatus `json:"new_status"`
}

// ClockedOutPayload payload. Summary is the human-readable worked-time
// line delivered to notifiers.
type ClockedOutPayload struct {
	WorkedToday time.Duration `json:"worked_today"`
	Summary     string        `json:"summary"`
}

// DayRolledOverPayload payload.
type DayRolledOverPayload struct {
	SyntheticStart time.Time `json:"synthetic_start"`
}
