// Package sink delivers classifier state-change events to downstream
// consumers: the process log, external command hooks and the websocket hub.
package sink

import (
	"log"

	"github.com/google/uuid"
)

// Event is one delivered state change.
type Event struct {
	ID         uuid.UUID `json:"id"`
	SessionID  string    `json:"session_id"`
	Type       string    `json:"type"`
	Confidence float64   `json:"confidence"`
	At         float64   `json:"t"`
}

// Sink consumes events. Deliver is called synchronously from the pipeline
// tick loop, so implementations must return quickly or hand off internally.
type Sink interface {
	Name() string
	Deliver(Event) error
}

// LogSink writes every event to the process log.
type LogSink struct{}

// Name implements Sink.
func (LogSink) Name() string { return "log" }

// Deliver implements Sink.
func (LogSink) Deliver(e Event) error {
	log.Printf("event session=%s type=%s confidence=%.2f t=%.3f",
		e.SessionID, e.Type, e.Confidence, e.At)
	return nil
}
