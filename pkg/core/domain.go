package core

// EventType represents the type of change in the vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the vault.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

type contextKey string

// ChangeReasonKey is the context key for passing specific change reasons
// (commit messages) during Save/Delete operations.
const ChangeReasonKey contextKey = "change_reason"
