package gesture

import (
	"github.com/naka6ryo/yubi-soccer/internal/detector"
)

// State is the externally reported control state.
type State string

const (
	StateIdle   State = "idle"
	StateRun    State = "run"
	StateCharge State = "charge"
	StateKick   State = "kick"
)

// Snapshot is the externally visible classifier state after a tick, returned
// by value so callers can never mutate the classifier through it.
type Snapshot struct {
	State         State    `json:"state"`
	Confidence    float64  `json:"confidence"`
	ChargeHeld    bool     `json:"charge_held"`
	ChargePending bool     `json:"charge_pending"`
	Features      Features `json:"features"`
}

// Event is a discrete state change. Events are edge-triggered: one fires
// only when the reported state value differs from the previous tick's.
type Event struct {
	Type       State   `json:"type"`
	Confidence float64 `json:"confidence"`
	At         float64 `json:"t"`
}

// Classifier owns the complete gesture-classification state: the sample
// buffer, the hysteresis latches, the idle/run/kick machine, the charge
// latch and the kick hold. It has exactly one owner and is advanced
// synchronously, once per processing tick; it never reads the clock itself.
//
// The reported state is a function of the previous state plus the current
// tick's scores, never of the instantaneous sample alone: the memory is what
// makes hysteresis, debounce and the charge latch work.
type Classifier struct {
	cfg Config
	buf *SampleBuffer

	runHyst  hysteresis
	kickHyst hysteresis

	// primary is the idle/run/kick machine's own state; it never holds
	// StateCharge. reported is what the outside world sees after the
	// charge latch and kick hold overrides.
	primary  State
	reported State

	confidence float64
	features   Features

	chargeHeld          bool
	chargePending       bool
	chargePendingExpiry float64

	// bendStart tracks how long the strict bend has been held
	// continuously; bending marks whether it was held on the last tick.
	bendStart float64
	bending   bool

	kickHoldExpiry float64
	kickHeld       bool

	lastKickTrigger float64
	everKicked      bool
}

// New creates a Classifier with the given tuning.
func New(cfg Config) *Classifier {
	return &Classifier{
		cfg:      cfg,
		buf:      NewSampleBuffer(cfg.BufferCapacity),
		runHyst:  hysteresis{band: cfg.RunBand},
		kickHyst: hysteresis{band: cfg.KickBand},
		primary:  StateIdle,
		reported: StateIdle,
	}
}

// Advance runs one classification tick at the given monotonic time, in
// seconds. frame may be nil when the upstream detector produced no fresh
// result; time-based logic (hold timers, staleness) still advances against
// the unchanged buffer. It returns the state snapshot and, when the reported
// state value changed, the edge event.
//
// No fault escapes Advance: an unexpected panic degrades the classifier to
// the idle safe state instead of killing the tick loop.
func (c *Classifier) Advance(now float64, frame *detector.Frame) (snap Snapshot, evt *Event) {
	prev := c.reported

	defer func() {
		if r := recover(); r != nil {
			c.resetTransient()
			c.reported = StateIdle
			c.confidence = 0
			c.features = Features{}
		}
		snap = c.snapshot()
		if c.reported != prev {
			evt = &Event{Type: c.reported, Confidence: c.confidence, At: now}
		}
	}()

	if frame != nil {
		c.buf.Push(*frame)
	}

	// Staleness and minimum-history reset. Not an error: the hand left the
	// frame or the detector stalled, so the actor must stop.
	last, seen := c.buf.LastSeen()
	if c.buf.Len() < c.cfg.MinSamples || !seen || now-last > c.cfg.StaleAfter {
		c.resetTransient()
		c.reported = StateIdle
		c.confidence = 0
		c.features = Features{Samples: c.buf.Len()}
		return
	}

	window := c.buf.Window(now, c.cfg.WindowHorizon)
	feats := extractFeatures(window, c.cfg)
	c.features = feats

	sc := scoreFeatures(feats, c.cfg)
	runOn := c.runHyst.update(sc.run)
	kickOn := c.kickHyst.update(sc.kick)
	debounced := !c.everKicked || now-c.lastKickTrigger >= c.cfg.KickDebounce

	c.stepPrimary(now, feats, runOn, kickOn, debounced)

	// Charge-pending override: the first tick that would report anything
	// but idle becomes a kick instead. Evaluated against the pending state
	// set on an earlier tick, before this tick's latch update below.
	if c.chargePending && now > c.chargePendingExpiry {
		c.chargePending = false
	}
	if c.chargePending && c.primary != StateIdle {
		c.chargePending = false
		c.triggerKick(now)
	}

	c.stepChargeLatch(now, feats.StrictBend)

	c.resolveReported(now, sc)
	return
}

// Snapshot returns the most recent tick's snapshot without advancing.
func (c *Classifier) Snapshot() Snapshot {
	return c.snapshot()
}

// stepPrimary advances the idle/run/kick machine by one tick.
func (c *Classifier) stepPrimary(now float64, feats Features, runOn, kickOn, debounced bool) {
	switch c.primary {
	case StateKick:
		if !kickOn {
			if runOn {
				c.primary = StateRun
			} else {
				c.primary = StateIdle
			}
		}
	case StateRun:
		if kickOn && debounced {
			c.primary = StateKick
			c.triggerKick(now)
		} else if feats.PlanarRMS < c.cfg.RunHardStopRMS || !runOn {
			// The hard-stop floor ends a run promptly when motion
			// truly stops, below where the hysteresis band releases.
			c.primary = StateIdle
		}
	default: // StateIdle
		if kickOn && debounced {
			c.primary = StateKick
			c.triggerKick(now)
		} else if runOn {
			c.primary = StateRun
		}
	}
}

// stepChargeLatch advances the orthogonal charge latch from this tick's
// strict-bend flag. Holding the bend for ChargeHold engages the latch;
// releasing an engaged latch arms the pending window.
func (c *Classifier) stepChargeLatch(now float64, strictBend bool) {
	if strictBend {
		if !c.bending {
			c.bending = true
			c.bendStart = now
		}
		if now-c.bendStart >= c.cfg.ChargeHold {
			c.chargeHeld = true
		}
		return
	}

	if c.chargeHeld {
		c.chargeHeld = false
		c.chargePending = true
		c.chargePendingExpiry = now + c.cfg.ChargePendingWindow
	}
	c.bending = false
}

// triggerKick records a kick trigger and starts the kick hold.
func (c *Classifier) triggerKick(now float64) {
	c.lastKickTrigger = now
	c.everKicked = true
	c.kickHeld = true
	c.kickHoldExpiry = now + c.cfg.KickHold
}

// resolveReported derives the externally reported state from the primary
// machine plus the kick-hold and charge-latch overrides.
func (c *Classifier) resolveReported(now float64, sc scores) {
	if c.kickHeld && now > c.kickHoldExpiry {
		c.kickHeld = false
	}

	switch {
	case c.kickHeld:
		c.reported = StateKick
		c.confidence = 1
	case c.chargeHeld:
		c.reported = StateCharge
		c.confidence = 1
	case c.primary == StateKick:
		c.reported = StateKick
		c.confidence = sc.kick
	case c.primary == StateRun:
		c.reported = StateRun
		c.confidence = sc.run
	default:
		c.reported = StateIdle
		c.confidence = 0
	}
}

// resetTransient clears every latch, hold and hysteresis field. The last
// kick trigger time survives so a detector dropout cannot defeat debounce.
func (c *Classifier) resetTransient() {
	c.primary = StateIdle
	c.runHyst.reset()
	c.kickHyst.reset()
	c.chargeHeld = false
	c.chargePending = false
	c.chargePendingExpiry = 0
	c.bending = false
	c.bendStart = 0
	c.kickHeld = false
	c.kickHoldExpiry = 0
}

func (c *Classifier) snapshot() Snapshot {
	return Snapshot{
		State:         c.reported,
		Confidence:    c.confidence,
		ChargeHeld:    c.chargeHeld,
		ChargePending: c.chargePending,
		Features:      c.features,
	}
}
