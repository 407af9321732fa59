package app

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/naka6ryo/yubi-soccer/internal/detector"
	"github.com/naka6ryo/yubi-soccer/internal/gesture"
	"github.com/naka6ryo/yubi-soccer/internal/sink"
	"github.com/naka6ryo/yubi-soccer/internal/store"
)

// recordSink captures delivered events for assertions.
type recordSink struct {
	mu     sync.Mutex
	events []sink.Event
}

func (r *recordSink) Name() string { return "record" }

func (r *recordSink) Deliver(e sink.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordSink) all() []sink.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sink.Event(nil), r.events...)
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "yubisoccer-app-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return New(Config{
		Store:      s,
		Classifier: gesture.DefaultConfig(),
	})
}

func TestNew_Wiring(t *testing.T) {
	a := newTestApp(t)

	if a.SessionID() == "" {
		t.Error("SessionID() is empty")
	}
	if snap := a.Snapshot(); snap.State != "" && snap.State != gesture.StateIdle {
		t.Errorf("initial snapshot state = %s, want idle or zero", snap.State)
	}
	if a.IsEnabled() {
		t.Error("app should start disabled")
	}

	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("SetEnabled(true) did not take")
	}

	// The log sink is always wired
	if len(a.sinks) == 0 {
		t.Fatal("no sinks registered")
	}
	if a.sinks[0].Name() != "log" {
		t.Errorf("first sink = %q, want %q", a.sinks[0].Name(), "log")
	}
}

// driveKick pushes a settle period and then a fast forward swing through
// the classifier via the app's own advance path.
func driveKick(a *App) {
	const dt = 1.0 / 30
	cfg := gesture.DefaultConfig()
	hand := detector.OpenHand()

	now := 0.0
	dx, dz := 0.0, 0.0
	for i := 0; i < 10; i++ {
		now += dt
		f := detector.NewFrame(now, detector.ShiftHand(hand, dx, 0, dz))
		a.advance(now, &f)
	}
	for i := 0; i < 2; i++ {
		now += dt
		dx += 2 * cfg.KickMinSpeed * dt
		dz -= cfg.KickMinForwardZ * dt
		f := detector.NewFrame(now, detector.ShiftHand(hand, dx, 0, dz))
		a.advance(now, &f)
	}
}

func TestAdvance_EventFanout(t *testing.T) {
	a := newTestApp(t)
	rec := &recordSink{}
	a.AddSink(rec)

	var states []gesture.State
	var stateMu sync.Mutex
	a.OnState(func(s gesture.State) {
		stateMu.Lock()
		states = append(states, s)
		stateMu.Unlock()
	})

	driveKick(a)

	snap := a.Snapshot()
	if snap.State != gesture.StateKick {
		t.Fatalf("snapshot state = %s, want kick", snap.State)
	}

	events := rec.all()
	if len(events) != 1 {
		t.Fatalf("sink received %d events, want 1", len(events))
	}
	e := events[0]
	if e.Type != "kick" || e.Confidence != 1.0 {
		t.Errorf("event = %s/%f, want kick/1", e.Type, e.Confidence)
	}
	if e.SessionID != a.SessionID() {
		t.Errorf("event session = %q, want %q", e.SessionID, a.SessionID())
	}

	// The event is also persisted to the session log
	stored, err := a.config.Store.Events().ListBySession(a.SessionID())
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(stored) != 1 || stored[0].Type != "kick" {
		t.Errorf("stored events = %+v, want one kick", stored)
	}

	stateMu.Lock()
	defer stateMu.Unlock()
	if len(states) != 1 || states[0] != gesture.StateKick {
		t.Errorf("state callbacks = %v, want [kick]", states)
	}
}

func TestAdvance_NoEventWithoutStateChange(t *testing.T) {
	a := newTestApp(t)
	rec := &recordSink{}
	a.AddSink(rec)

	// Motionless frames only: no state change, no events
	const dt = 1.0 / 30
	hand := detector.OpenHand()
	now := 0.0
	for i := 0; i < 20; i++ {
		now += dt
		f := detector.NewFrame(now, hand)
		a.advance(now, &f)
	}

	if events := rec.all(); len(events) != 0 {
		t.Errorf("sink received %d events, want 0", len(events))
	}
	if snap := a.Snapshot(); snap.State != gesture.StateIdle {
		t.Errorf("snapshot state = %s, want idle", snap.State)
	}
}

func TestAdvance_SinkFailureDoesNotStopFanout(t *testing.T) {
	a := newTestApp(t)

	// A hook pointing at a missing command fails on every delivery
	a.AddSink(sink.NewExecSink("/nonexistent/hook", "", 500))
	rec := &recordSink{}
	a.AddSink(rec)

	driveKick(a)

	if events := rec.all(); len(events) != 1 {
		t.Errorf("later sink received %d events, want 1", len(events))
	}
}
