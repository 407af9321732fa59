package gesture

import (
	"math"
	"testing"
)

func TestScoreFeatures_Run(t *testing.T) {
	cfg := DefaultConfig() // RunMinSpeed 0.6

	cases := []struct {
		rms  float64
		want float64
	}{
		{0, 0},
		{0.6, 0},
		{0.9, 0.5},
		{1.2, 1},
		{5.0, 1}, // clamped
	}
	for _, tc := range cases {
		s := scoreFeatures(Features{PlanarRMS: tc.rms}, cfg)
		if math.Abs(s.run-tc.want) > 1e-9 {
			t.Errorf("run score at rms %f = %f, want %f", tc.rms, s.run, tc.want)
		}
	}
}

func TestScoreFeatures_Kick(t *testing.T) {
	cfg := DefaultConfig() // KickMinSpeed 1.8, KickMinForwardZ 0.5

	// Fast and toward the camera: full score at twice the minimum speed
	s := scoreFeatures(Features{PlanarPeak: 3.6, ForwardMin: -0.5}, cfg)
	if s.kick != 1 {
		t.Errorf("kick score = %f, want 1", s.kick)
	}

	// Fast but purely sideways: no kick
	s = scoreFeatures(Features{PlanarPeak: 3.6, ForwardMin: -0.1}, cfg)
	if s.kick != 0 {
		t.Errorf("sideways kick score = %f, want 0", s.kick)
	}

	// Toward the camera but too slow
	s = scoreFeatures(Features{PlanarPeak: 1.0, ForwardMin: -2.0}, cfg)
	if s.kick != 0 {
		t.Errorf("slow kick score = %f, want 0", s.kick)
	}

	// Partial score halfway up the ramp
	s = scoreFeatures(Features{PlanarPeak: 2.7, ForwardMin: -0.8}, cfg)
	if math.Abs(s.kick-0.5) > 1e-9 {
		t.Errorf("partial kick score = %f, want 0.5", s.kick)
	}
}

func TestScoreFeatures_LooseBendSuppressesKick(t *testing.T) {
	cfg := DefaultConfig()

	f := Features{PlanarPeak: 5.0, ForwardMin: -3.0, LooseBend: true}
	s := scoreFeatures(f, cfg)
	if s.kick != 0 {
		t.Errorf("kick score with loose bend = %f, want 0", s.kick)
	}

	// Suppression leaves the run score alone
	f.PlanarRMS = 1.2
	s = scoreFeatures(f, cfg)
	if s.run != 1 {
		t.Errorf("run score with loose bend = %f, want 1", s.run)
	}
}

func TestHysteresis_Band(t *testing.T) {
	h := hysteresis{band: Band{On: 0.65, Off: 0.45}}

	if h.update(0.5) {
		t.Error("score between bands must not turn the latch on")
	}
	if !h.update(0.65) {
		t.Error("score at the on threshold must turn the latch on")
	}
	// Hovering strictly between the thresholds must not flicker
	for _, score := range []float64{0.64, 0.5, 0.46, 0.6} {
		if !h.update(score) {
			t.Fatalf("latch released at score %f inside the band", score)
		}
	}
	if h.update(0.45) {
		t.Error("score at the off threshold must release the latch")
	}
	if h.update(0.5) {
		t.Error("released latch must not re-engage below the on threshold")
	}
}

func TestClamp01(t *testing.T) {
	if got := clamp01(-0.5); got != 0 {
		t.Errorf("clamp01(-0.5) = %f, want 0", got)
	}
	if got := clamp01(0.3); got != 0.3 {
		t.Errorf("clamp01(0.3) = %f, want 0.3", got)
	}
	if got := clamp01(1.8); got != 1 {
		t.Errorf("clamp01(1.8) = %f, want 1", got)
	}
}
