// Package gesture classifies a live stream of hand landmark frames into a
// discrete control signal (idle / run / charge / kick) for the game actor.
package gesture

// Band is a hysteresis threshold pair for one gesture score.
// On must be greater than Off: a gesture turns on when its score reaches On
// and stays on until the score falls to or below Off.
type Band struct {
	On  float64
	Off float64
}

// Config holds every tunable threshold for the classifier. All durations are
// seconds, all angles radians, all speeds in normalized frame units per
// second. The config is set once at construction; a live classifier is never
// reconfigured.
type Config struct {
	// WindowHorizon is the trailing history, in seconds, that features are
	// computed over each tick.
	WindowHorizon float64

	// BufferCapacity is the maximum number of frames kept in the sample
	// buffer. The oldest frame is dropped on overflow.
	BufferCapacity int

	// MinSamples is the minimum buffered frame count below which the
	// classifier reports idle.
	MinSamples int

	// StaleAfter is how old the newest buffered frame may be, relative to
	// the current tick, before the classifier resets to idle.
	StaleAfter float64

	// RunMinSpeed is the fingertip planar RMS speed at which the run score
	// reaches zero; twice this speed scores 1.
	RunMinSpeed float64

	// RunBand is the hysteresis band for the run score.
	RunBand Band

	// RunHardStopRMS ends a run immediately when the planar RMS speed drops
	// below it, without waiting for the hysteresis band to release.
	RunHardStopRMS float64

	// KickMinSpeed is the fingertip planar peak speed at which the kick
	// score reaches zero; twice this speed scores 1.
	KickMinSpeed float64

	// KickMinForwardZ is the minimum depth-closing speed toward the camera
	// a kick swing must reach. Compared against the most negative depth
	// velocity in the window.
	KickMinForwardZ float64

	// KickBand is the hysteresis band for the kick score.
	KickBand Band

	// KickDebounce is the minimum interval between two kick triggers.
	KickDebounce float64

	// KickHold is how long the reported state stays kick, at confidence 1,
	// after a kick triggers.
	KickHold float64

	// ChargeStrictAngle is the PIP bend angle below which a finger counts
	// as strictly bent, arming the charge latch.
	ChargeStrictAngle float64

	// ChargeLooseAngle is the PIP bend angle below which a finger counts as
	// loosely bent, suppressing kick detection. Must exceed
	// ChargeStrictAngle.
	ChargeLooseAngle float64

	// ChargeHold is how long the strict bend must be held continuously
	// before the charge latch engages.
	ChargeHold float64

	// ChargePendingWindow is how long after releasing a held charge the
	// next qualifying tick is forced into a kick.
	ChargePendingWindow float64
}

// DefaultConfig returns the canonical tuning.
func DefaultConfig() Config {
	return Config{
		WindowHorizon:  0.65,
		BufferCapacity: 64,
		MinSamples:     3,
		StaleAfter:     0.25,

		RunMinSpeed:    0.6,
		RunBand:        Band{On: 0.65, Off: 0.45},
		RunHardStopRMS: 0.15,

		KickMinSpeed:    1.8,
		KickMinForwardZ: 0.5,
		KickBand:        Band{On: 0.65, Off: 0.45},
		KickDebounce:    0.3,
		KickHold:        1.0,

		ChargeStrictAngle:   1.75,
		ChargeLooseAngle:    2.35,
		ChargeHold:          0.25,
		ChargePendingWindow: 1.0,
	}
}
