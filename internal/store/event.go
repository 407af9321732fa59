package store

import (
	"database/sql"
	"time"
)

// Event is one logged classifier state change.
type Event struct {
	ID         string
	SessionID  string
	Type       string
	Confidence float64
	// T is the pipeline-relative trigger time in seconds.
	T         float64
	CreatedAt time.Time
}

// EventRepository provides operations on the session event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new event.
func (r *EventRepository) Create(e *Event) error {
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO events (id, session_id, type, confidence, t, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Type, e.Confidence, e.T, e.CreatedAt,
	)
	return err
}

// ListBySession retrieves all events for a session in trigger order.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, type, confidence, t, created_at
		 FROM events WHERE session_id = ? ORDER BY t ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent retrieves the most recent events across all sessions.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, type, confidence, t, created_at
		 FROM events ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// DeleteBySession removes every event for a session. Deleting a session with
// no events is not an error.
func (r *EventRepository) DeleteBySession(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM events WHERE session_id = ?`, sessionID)
	return err
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Type, &e.Confidence, &e.T, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
