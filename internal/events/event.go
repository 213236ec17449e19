// Package events publishes domain events about feedback collections so that
// other processes (dashboards, exporters) can follow submissions live.
package events

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeCollectionCreated EventType = "collection.created"
	EventTypeCollectionDeleted EventType = "collection.deleted"
	EventTypeItemSubmitted     EventType = "item.submitted"
)

const channelPrefix = "feedbackx:collection:"

// Event is the envelope written to the pub/sub channel.
type Event struct {
	ID           string          `json:"id"`
	Type         EventType       `json:"type"`
	CollectionID string          `json:"collectionId"`
	Timestamp    time.Time       `json:"timestamp"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

var (
	ErrMissingType       = errors.New("event type is required")
	ErrMissingCollection = errors.New("event collection id is required")
)

func (e Event) Validate() error {
	if e.Type == "" {
		return ErrMissingType
	}
	if e.CollectionID == "" {
		return ErrMissingCollection
	}
	return nil
}

// Channel returns the pub/sub channel carrying events of one collection.
func Channel(collectionID string) string {
	return channelPrefix + collectionID
}

// NewEvent builds an event with a fresh id and timestamp. payload is encoded
// as JSON; a nil payload is omitted.
func NewEvent(eventType EventType, collectionID string, payload any) (Event, error) {
	e := Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		CollectionID: collectionID,
		Timestamp:    time.Now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		e.Payload = raw
	}
	return e, nil
}

func (e Event) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}
