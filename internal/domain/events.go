package domain

import "time"

// EventType represents the type of progress event
type EventType string

const (
	EventStart          EventType = "start"
	EventPageProcessing EventType = "page_processing"
	EventPageSkipped    EventType = "page_skipped" // placeholder slide, nothing to send
	EventPageComplete   EventType = "page_complete"
	EventError          EventType = "error"
	EventComplete       EventType = "complete"
)

// StreamEvent represents an event emitted while a document is processed
type StreamEvent struct {
	Type       EventType   `json:"type"`
	PageNumber int         `json:"page_number,omitempty"`
	TotalPages int         `json:"total_pages,omitempty"`
	Payload    interface{} `json:"payload,omitempty"` // status message or *ChartDocument
	Timestamp  time.Time   `json:"timestamp"`
}
