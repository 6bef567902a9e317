package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_INDEXED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent carries the common fields; concrete events embed it.
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

// NewDocumentIndexed is emitted after a document finished chunking and
// embedding and became retrievable for its session.
func NewDocumentIndexed(sessionID, documentID, filename string, chunks int) Event {
	return BaseEvent{
		Type: "DOCUMENT_INDEXED",
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"document_id": documentID,
			"filename":    filename,
			"chunks":      chunks,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionReclaimed is emitted when a session's documents, activity record
// and files were removed, either by the idle sweep or an explicit end call.
func NewSessionReclaimed(sessionID, reason string, filesRemoved int) Event {
	return BaseEvent{
		Type: "SESSION_RECLAIMED",
		Data: map[string]interface{}{
			"session_id":    sessionID,
			"reason":        reason,
			"files_removed": filesRemoved,
		},
		OccurredAt: time.Now(),
	}
}
