package detector

import (
	"math"
	"testing"
)

// pipAngle computes the interior angle at the PIP joint for a finger given
// its MCP, PIP and DIP points. Mirrors the classifier's bend measurement.
func pipAngle(mcp, pip, dip Point3D) float64 {
	ax, ay, az := mcp.X-pip.X, mcp.Y-pip.Y, mcp.Z-pip.Z
	bx, by, bz := dip.X-pip.X, dip.Y-pip.Y, dip.Z-pip.Z
	ma := math.Sqrt(ax*ax + ay*ay + az*az)
	mb := math.Sqrt(bx*bx + by*by + bz*bz)
	if ma == 0 || mb == 0 {
		return math.Pi
	}
	cos := (ax*bx + ay*by + az*bz) / (ma * mb)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

func TestBentHand_PIPAngle(t *testing.T) {
	angles := []float64{0.6, 1.2, 2.0, math.Pi}

	for _, want := range angles {
		hand := BentHand(want)

		gotIndex := pipAngle(hand.Points[IndexMCP], hand.Points[IndexPIP], hand.Points[IndexDIP])
		if math.Abs(gotIndex-want) > 1e-9 {
			t.Errorf("BentHand(%.2f) index PIP angle = %f, want %f", want, gotIndex, want)
		}

		gotMiddle := pipAngle(hand.Points[MiddleMCP], hand.Points[MiddlePIP], hand.Points[MiddleDIP])
		if math.Abs(gotMiddle-want) > 1e-9 {
			t.Errorf("BentHand(%.2f) middle PIP angle = %f, want %f", want, gotMiddle, want)
		}
	}
}

func TestOpenHand_IsStraight(t *testing.T) {
	hand := OpenHand()
	got := pipAngle(hand.Points[IndexMCP], hand.Points[IndexPIP], hand.Points[IndexDIP])
	if math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("OpenHand index PIP angle = %f, want pi", got)
	}
}

func TestShiftHand(t *testing.T) {
	hand := OpenHand()
	shifted := ShiftHand(hand, 0.1, -0.05, -0.02)

	for i := range hand.Points {
		if got, want := shifted.Points[i].X, hand.Points[i].X+0.1; math.Abs(got-want) > 1e-12 {
			t.Fatalf("point %d X = %f, want %f", i, got, want)
		}
		if got, want := shifted.Points[i].Y, hand.Points[i].Y-0.05; math.Abs(got-want) > 1e-12 {
			t.Fatalf("point %d Y = %f, want %f", i, got, want)
		}
		if got, want := shifted.Points[i].Z, hand.Points[i].Z-0.02; math.Abs(got-want) > 1e-12 {
			t.Fatalf("point %d Z = %f, want %f", i, got, want)
		}
	}

	// Original must be untouched
	if hand.Points[Wrist].X != 0.5 {
		t.Error("ShiftHand modified its input")
	}
}

func TestPrimaryHand(t *testing.T) {
	low := OpenHand()
	low.Score = 0.6
	high := CurledHand()
	high.Score = 0.9

	got, ok := PrimaryHand([]Hand{low, high})
	if !ok {
		t.Fatal("PrimaryHand() ok = false, want true")
	}
	if got.Score != 0.9 {
		t.Errorf("PrimaryHand() score = %f, want 0.9", got.Score)
	}

	if _, ok := PrimaryHand(nil); ok {
		t.Error("PrimaryHand(nil) ok = true, want false")
	}
}

func TestMockDetector_Queue(t *testing.T) {
	mock := NewMockDetector()
	mock.SetHands([]Hand{OpenHand()})
	mock.QueueHands([]Hand{CurledHand()}, nil)

	// First call drains the first queued entry
	hands, err := mock.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(hands) != 1 || hands[0].Points[IndexDIP] != CurledHand().Points[IndexDIP] {
		t.Error("first Detect should return the queued curled hand")
	}

	// Second call drains the queued empty result
	hands, err = mock.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(hands) != 0 {
		t.Errorf("second Detect returned %d hands, want 0", len(hands))
	}

	// Queue exhausted: falls back to the fixed hands
	hands, err = mock.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(hands) != 1 {
		t.Errorf("third Detect returned %d hands, want 1", len(hands))
	}
}
