// Package app wires the capture, detection and classification stages into
// the running pipeline and fans classifier events out to the sinks.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naka6ryo/yubi-soccer/internal/capture"
	"github.com/naka6ryo/yubi-soccer/internal/detector"
	"github.com/naka6ryo/yubi-soccer/internal/gesture"
	"github.com/naka6ryo/yubi-soccer/internal/sink"
	"github.com/naka6ryo/yubi-soccer/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the tick rate while the scene is still.
	IdleFPS = capture.DefaultIdleFPS
	// ActiveFPS is the tick rate while a hand is being tracked.
	ActiveFPS = capture.DefaultActiveFPS
	// IdleTimeoutMs is how long without motion before dropping to idle mode.
	IdleTimeoutMs = 2000
	// HookTimeoutMs is the timeout for external event hook commands.
	HookTimeoutMs = 5000
)

// Config holds the application configuration.
type Config struct {
	Store        *store.Store
	CameraID     int
	Mirror       bool
	MotionThresh float64
	Classifier   gesture.Config
	// EventHooks are external commands run for every classifier event.
	EventHooks []string
	HookDir    string
}

// App orchestrates the capture/detect/classify pipeline for one session.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *gesture.Classifier
	sinks      []sink.Sink
	sessionID  string

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	start   time.Time

	// lastSnap caches the classifier's latest snapshot for readers outside
	// the pipeline goroutine.
	lastSnap gesture.Snapshot
	snapMu   sync.RWMutex

	onState func(state gesture.State)
}

// New creates an App with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID, config.Mirror),
		motion:     capture.NewMotionDetector(motionThreshold),
		classifier: gesture.New(config.Classifier),
		sessionID:  uuid.New().String(),
		sinks:      []sink.Sink{sink.LogSink{}},
	}

	for _, hook := range config.EventHooks {
		a.sinks = append(a.sinks, sink.NewExecSink(hook, config.HookDir, HookTimeoutMs))
	}

	// Try MediaPipe first, fall back to mock detection
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SessionID returns this run's session identifier.
func (a *App) SessionID() string {
	return a.sessionID
}

// Snapshot returns the most recent classification snapshot. Safe to call
// from any goroutine.
func (a *App) Snapshot() gesture.Snapshot {
	a.snapMu.RLock()
	defer a.snapMu.RUnlock()
	return a.lastSnap
}

// AddSink registers an additional event sink. Must be called before Start.
func (a *App) AddSink(s sink.Sink) {
	a.sinks = append(a.sinks, s)
}

// OnState sets a callback invoked on every state change, after the sinks.
func (a *App) OnState(fn func(state gesture.State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onState = fn
}

// SetEnabled pauses or resumes classification.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether classification is running.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector replaces the hand detector. Must be called before Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the frame source. Must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start opens the camera and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)
	a.start = time.Now()

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pipeline stopped")
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion rate gate.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
