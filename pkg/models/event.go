package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a session lifecycle transition.
type EventType string

const (
	EventSessionOpened      EventType = "session_opened"
	EventFilterValueChanged EventType = "filter_value_changed"
	EventSessionClosed      EventType = "session_closed"
)

// Event is the envelope written to the session events topic.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Source    string            `json:"source"`
	Report    string            `json:"report"`
	SessionID string            `json:"session_id"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]string `json:"payload,omitempty"`
	TraceID   string            `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, source, reportName, sessionID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Report:    reportName,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) WithPayload(key, value string) Event {
	payload := make(map[string]string, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	payload[key] = value
	e.Payload = payload
	return e
}

func (e Event) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("event id is required")
	case e.SessionID == "":
		return fmt.Errorf("event session_id is required")
	}

	switch e.Type {
	case EventSessionOpened, EventFilterValueChanged, EventSessionClosed:
		return nil
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
}
