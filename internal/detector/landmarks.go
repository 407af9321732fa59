// Package detector provides hand detection interfaces and types for the
// Yubi Soccer gesture control backend.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point with normalized planar coordinates and a
// detector-defined depth component. More negative Z means closer to the
// camera.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand represents the 21 hand landmarks produced by one detection.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Frame is one timestamped landmark sample handed to the classifier.
// The timestamp is in seconds on the caller's monotonic clock.
// Frames are immutable once built.
type Frame struct {
	T      float64               `json:"t"`
	Points [NumLandmarks]Point3D `json:"points"`
}

// NewFrame builds a Frame from a detected hand and a capture timestamp.
func NewFrame(t float64, hand Hand) Frame {
	return Frame{T: t, Points: hand.Points}
}

// PrimaryHand selects the hand to classify when the detector reports more
// than one: the one with the highest detection score. Returns false if no
// hands were detected.
func PrimaryHand(hands []Hand) (Hand, bool) {
	if len(hands) == 0 {
		return Hand{}, false
	}
	best := hands[0]
	for _, h := range hands[1:] {
		if h.Score > best.Score {
			best = h
		}
	}
	return best, true
}
