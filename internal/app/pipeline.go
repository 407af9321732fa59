package app

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/naka6ryo/yubi-soccer/internal/detector"
	"github.com/naka6ryo/yubi-soccer/internal/gesture"
	"github.com/naka6ryo/yubi-soccer/internal/sink"
	"github.com/naka6ryo/yubi-soccer/internal/store"
)

// detectResult carries one detector pass back to the pipeline loop.
type detectResult struct {
	hands []detector.Hand
	err   error
}

// runPipeline is the per-tick loop.
//
// Each tick: read a frame, gate on scene motion, hand the frame to the
// detector (at most one detection in flight; ticks that land while one is
// running advance without a fresh frame), pick the primary hand, and advance
// the classifier. The classifier is advanced on EVERY tick, with or without
// a fresh landmark frame, so its hold timers and staleness reset keep
// moving when the detector stalls or the hand leaves the scene.
func (a *App) runPipeline() {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	resultCh := make(chan detectResult, 1)
	inFlight := false

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			now := time.Since(a.start).Seconds()

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				a.advance(now, nil)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode || a.detector == nil {
				frame.Close()
				a.advance(now, nil)
				continue
			}

			// Start a detection pass unless one is already running
			if !inFlight {
				inFlight = true
				go func(f *gocv.Mat) {
					hands, err := a.detector.Detect(f)
					f.Close()
					resultCh <- detectResult{hands: hands, err: err}
				}(frame)
			} else {
				frame.Close()
			}

			// Collect a finished pass without blocking the tick
			var landmarkFrame *detector.Frame
			select {
			case res := <-resultCh:
				inFlight = false
				if res.err != nil {
					log.Printf("Error detecting hands: %v", res.err)
				} else if hand, ok := detector.PrimaryHand(res.hands); ok {
					f := detector.NewFrame(now, hand)
					landmarkFrame = &f
				}
			default:
			}

			a.advance(now, landmarkFrame)
		}
	}
}

// advance runs one classifier tick and fans out any resulting event.
func (a *App) advance(now float64, frame *detector.Frame) {
	snap, evt := a.classifier.Advance(now, frame)

	a.snapMu.Lock()
	a.lastSnap = snap
	a.snapMu.Unlock()

	if evt != nil {
		a.handleEvent(evt)
	}
}

// handleEvent delivers a state-change event to every sink, persists it, and
// notifies the state callback. Sink and storage failures are logged, never
// allowed to stop the pipeline.
func (a *App) handleEvent(evt *gesture.Event) {
	e := sink.Event{
		ID:         uuid.New(),
		SessionID:  a.sessionID,
		Type:       string(evt.Type),
		Confidence: evt.Confidence,
		At:         evt.At,
	}

	for _, s := range a.sinks {
		if err := s.Deliver(e); err != nil {
			log.Printf("Sink %s failed: %v", s.Name(), err)
		}
	}

	if a.config.Store != nil {
		record := &store.Event{
			ID:         e.ID.String(),
			SessionID:  e.SessionID,
			Type:       e.Type,
			Confidence: e.Confidence,
			T:          e.At,
		}
		if err := a.config.Store.Events().Create(record); err != nil {
			log.Printf("Failed to persist event: %v", err)
		}
	}

	a.mu.RLock()
	callback := a.onState
	a.mu.RUnlock()
	if callback != nil {
		callback(evt.Type)
	}
}
