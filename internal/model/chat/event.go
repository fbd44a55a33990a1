package chat

import "time"

// HistoryEventType names a change to a user's transcript.
type HistoryEventType string

const (
	HistoryAppended HistoryEventType = "history-updated"
	HistoryCleared  HistoryEventType = "history-cleared"
)

// HistoryEvent is published to subscribers whenever a transcript changes.
type HistoryEvent struct {
	Type      HistoryEventType `json:"type"`
	UserID    string           `json:"userId"`
	Messages  []Message        `json:"messages,omitempty"`
	Total     int              `json:"total"`
	CreatedAt time.Time        `json:"createdAt"`
}
