package gesture

// scores are the per-tick gesture confidences derived from features.
type scores struct {
	run  float64
	kick float64
}

// scoreFeatures converts raw features into per-gesture scores in [0, 1].
//
// The run score rewards any sustained fingertip motion: it ramps from 0 at
// RunMinSpeed to 1 at twice that. The kick score is suppressed outright while
// any finger is even loosely curled, which is what separates an intentional
// kick swing from a charge-style wind-up; otherwise it requires both a planar
// speed spike and motion toward the camera.
func scoreFeatures(f Features, cfg Config) scores {
	var s scores

	if cfg.RunMinSpeed > 0 {
		s.run = clamp01((f.PlanarRMS - cfg.RunMinSpeed) / cfg.RunMinSpeed)
	}

	if f.LooseBend || cfg.KickMinSpeed <= 0 {
		return s
	}
	if f.PlanarPeak > cfg.KickMinSpeed && f.ForwardMin <= -cfg.KickMinForwardZ {
		s.kick = clamp01((f.PlanarPeak - cfg.KickMinSpeed) / cfg.KickMinSpeed)
	}

	return s
}

// hysteresis latches a scored gesture on and off across ticks. The gesture
// turns on when the score reaches the band's On threshold and stays on until
// the score falls to or below Off, so a score hovering between the two never
// flickers the derived state.
type hysteresis struct {
	band   Band
	active bool
}

// update feeds one tick's score through the band and reports whether the
// gesture is on afterwards.
func (h *hysteresis) update(score float64) bool {
	if h.active {
		if score <= h.band.Off {
			h.active = false
		}
	} else if score >= h.band.On {
		h.active = true
	}
	return h.active
}

// reset forces the latch off, used by the staleness reset.
func (h *hysteresis) reset() {
	h.active = false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
