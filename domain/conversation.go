package domain

import "time"

type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
)

// Turn is one message exchange unit, immutable once created.
type Turn struct {
	At   time.Time
	Role Role
	Text string
}

// HistoryStore keeps a bounded per-contact conversation log.
// Implementations must be safe for concurrent use; appends for the same
// contact serialize so the length bound holds under concurrent requests.
type HistoryStore interface {
	// Append records a turn with the current timestamp, then trims the
	// contact's log to the most recent W turns.
	Append(contactID string, role Role, text string)

	// Recent returns up to n most recent turns in chronological order.
	// Unknown contacts yield an empty slice.
	Recent(contactID string, n int) []Turn
}
