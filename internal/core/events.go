package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntryEventType names what happened to an entry.
type EntryEventType string

const (
	EntryCreated EntryEventType = "entry.created"
	EntryUpdated EntryEventType = "entry.updated"
	EntryDeleted EntryEventType = "entry.deleted"
)

// EntryEvent is a lightweight notification about an entry write.
// Consumers fetch the full entry from the store; deleted events carry the
// fields needed to journal the entry without it.
type EntryEvent struct {
	ID          string         `json:"id"`
	Type        EntryEventType `json:"type"`
	EntryID     int64          `json:"entry_id"`
	UserID      int64          `json:"user_id"`
	Status      EntryStatus    `json:"status"`
	Kind        EntryKind      `json:"kind,omitempty"`
	Description string         `json:"description,omitempty"`
	Month       int            `json:"month,omitempty"`
	Year        int            `json:"year,omitempty"`
	Amount      string         `json:"amount,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// NewEntryEvent creates an event for the given entry.
func NewEntryEvent(t EntryEventType, e Entry) EntryEvent {
	ev := EntryEvent{
		ID:         uuid.NewString(),
		Type:       t,
		EntryID:    e.ID,
		UserID:     e.UserID(),
		Status:     e.Status,
		OccurredAt: time.Now().UTC(),
	}
	if t == EntryDeleted {
		ev.Kind = e.Kind
		ev.Description = e.Description
		ev.Month = e.Month
		ev.Year = e.Year
		ev.Amount = e.Amount.String()
	}
	return ev
}

// ToJSON converts the event to JSON bytes
func (ev EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(ev)
}

// EntryEventFromJSON decodes an event from JSON bytes
func EntryEventFromJSON(data []byte) (EntryEvent, error) {
	var ev EntryEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return EntryEvent{}, err
	}
	return ev, nil
}
