package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestEventRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	session := uuid.New().String()
	other := uuid.New().String()

	// Insert out of trigger order to verify sorting
	events := []*Event{
		{ID: uuid.New().String(), SessionID: session, Type: "kick", Confidence: 1.0, T: 4.2},
		{ID: uuid.New().String(), SessionID: session, Type: "run", Confidence: 0.8, T: 1.5},
		{ID: uuid.New().String(), SessionID: other, Type: "charge", Confidence: 1.0, T: 2.0},
	}
	for _, e := range events {
		if err := repo.Create(e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.ListBySession(session)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListBySession() returned %d events, want 2", len(got))
	}
	if got[0].Type != "run" || got[1].Type != "kick" {
		t.Errorf("events out of trigger order: %s then %s", got[0].Type, got[1].Type)
	}
	if got[1].Confidence != 1.0 || got[1].T != 4.2 {
		t.Errorf("kick event = conf %f t %f, want conf 1.0 t 4.2", got[1].Confidence, got[1].T)
	}
}

func TestEventRepository_ListRecent(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	session := uuid.New().String()
	for i := 0; i < 5; i++ {
		e := &Event{ID: uuid.New().String(), SessionID: session, Type: "run", Confidence: 0.7, T: float64(i)}
		if err := repo.Create(e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.ListRecent(3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListRecent(3) returned %d events, want 3", len(got))
	}
}

func TestEventRepository_RejectsUnknownType(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	e := &Event{ID: uuid.New().String(), SessionID: "s", Type: "wave", Confidence: 0.5, T: 1.0}
	if err := repo.Create(e); err == nil {
		t.Error("Create() with unknown event type should fail the CHECK constraint")
	}
}

func TestEventRepository_DeleteBySession(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	session := uuid.New().String()
	e := &Event{ID: uuid.New().String(), SessionID: session, Type: "kick", Confidence: 1.0, T: 1.0}
	if err := repo.Create(e); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.DeleteBySession(session); err != nil {
		t.Fatalf("DeleteBySession() error = %v", err)
	}
	got, err := repo.ListBySession(session)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("events after delete = %d, want 0", len(got))
	}

	// Deleting an empty session is fine
	if err := repo.DeleteBySession("nonexistent"); err != nil {
		t.Errorf("DeleteBySession(empty) error = %v", err)
	}
}
