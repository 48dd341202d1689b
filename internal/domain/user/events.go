package user

import "time"

type EventType string

const (
	EventRegistered     EventType = "user.registered"
	EventProfileUpdated EventType = "user.profile_updated"
	EventDeleted        EventType = "user.deleted"
)

// Event is published on every lifecycle change of a record.
type Event struct {
	Type       EventType `json:"event_type"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	PhotoURLs  []string  `json:"photo_urls,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
