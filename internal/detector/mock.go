package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, either as a fixed
// result or as a queue consumed one entry per Detect call.
type MockDetector struct {
	hands []Hand
	queue [][]Hand
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// QueueHands appends a per-call detection result. Queued results are
// consumed in order before falling back to the fixed hands.
func (m *MockDetector) QueueHands(hands ...[]Hand) {
	m.queue = append(m.queue, hands...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		hands := m.queue[0]
		m.queue = m.queue[1:]
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// BentHand returns a preset Hand whose index and middle fingers are bent at
// the PIP joint to the given interior angle in radians. An angle of pi means
// fully straight; smaller angles mean a tighter curl. The remaining fingers
// are extended.
func BentHand(angle float64) Hand {
	hand := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at the base of the frame
	hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	hand.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	hand.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	hand.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	hand.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index and middle fingers: the proximal segment points straight up the
	// frame, then the segment past the PIP rotates by the requested angle.
	// The PIP->MCP direction is (0, 1, 0), so the distal direction is
	// (sin(angle), cos(angle), 0): angle pi keeps the finger in line.
	dx := math.Sin(angle)
	dy := math.Cos(angle)

	hand.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	hand.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.56, Z: 0.0}
	hand.Points[IndexDIP] = Point3D{X: 0.55 + 0.10*dx, Y: 0.56 + 0.10*dy, Z: 0.0}
	hand.Points[IndexTip] = Point3D{X: 0.55 + 0.18*dx, Y: 0.56 + 0.18*dy, Z: 0.0}

	hand.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	hand.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.54, Z: 0.0}
	hand.Points[MiddleDIP] = Point3D{X: 0.50 + 0.10*dx, Y: 0.54 + 0.10*dy, Z: 0.0}
	hand.Points[MiddleTip] = Point3D{X: 0.50 + 0.18*dx, Y: 0.54 + 0.18*dy, Z: 0.0}

	// Ring finger extended upward
	hand.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	hand.Points[RingPIP] = Point3D{X: 0.43, Y: 0.56, Z: 0.0}
	hand.Points[RingDIP] = Point3D{X: 0.42, Y: 0.47, Z: 0.0}
	hand.Points[RingTip] = Point3D{X: 0.42, Y: 0.38, Z: 0.0}

	// Pinky finger extended upward
	hand.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	hand.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	hand.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.51, Z: 0.0}
	hand.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.43, Z: 0.0}

	return hand
}

// OpenHand returns a preset Hand with all fingers fully extended.
func OpenHand() Hand {
	return BentHand(math.Pi)
}

// CurledHand returns a preset Hand with the index and middle fingers curled
// tightly, as in a charge wind-up pose.
func CurledHand() Hand {
	return BentHand(0.6)
}

// RelaxedHand returns a preset Hand with the index and middle fingers only
// slightly curled: enough to suppress kick detection, not enough to count as
// a charge pose under the default thresholds.
func RelaxedHand() Hand {
	return BentHand(2.0)
}

// ShiftHand returns a copy of hand with every landmark translated by the
// given planar and depth offsets. Useful for synthesizing motion sequences.
func ShiftHand(hand Hand, dx, dy, dz float64) Hand {
	out := hand
	for i := range out.Points {
		out.Points[i].X += dx
		out.Points[i].Y += dy
		out.Points[i].Z += dz
	}
	return out
}
