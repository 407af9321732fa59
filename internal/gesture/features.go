package gesture

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/naka6ryo/yubi-soccer/internal/detector"
)

// timeEpsilon guards the finite-difference division: sample pairs closer
// together than this contribute zero velocity instead of a blow-up.
const timeEpsilon = 1e-6

// vectorEpsilon is the squared-magnitude floor below which angleAt treats a
// joint vector as degenerate.
const vectorEpsilon = 1e-12

// Features holds the per-tick measurements derived from the current sample
// window. Recomputed every tick, never persisted.
type Features struct {
	// PlanarPeak is the largest fingertip planar speed seen in the window,
	// over both the index and middle fingertips.
	PlanarPeak float64 `json:"planar_peak"`

	// PlanarRMS is the root mean square of both fingertips' planar speed
	// series over the window.
	PlanarRMS float64 `json:"planar_rms"`

	// ForwardMin is the most negative fingertip depth velocity in the
	// window. More negative means faster approach toward the camera.
	ForwardMin float64 `json:"forward_min"`

	// IndexBend and MiddleBend are the PIP interior angles in radians;
	// pi means fully straight.
	IndexBend  float64 `json:"index_bend"`
	MiddleBend float64 `json:"middle_bend"`

	// StrictBend is true when either finger is bent past the charge
	// threshold; LooseBend when either is bent past the (wider) kick
	// suppression threshold.
	StrictBend bool `json:"strict_bend"`
	LooseBend  bool `json:"loose_bend"`

	// Samples is the number of frames the window contained.
	Samples int `json:"samples"`
}

// extractFeatures computes the per-tick features from a sample window,
// oldest frame first. Bend angles come from the newest frame; the motion
// features need at least two frames and are zero otherwise.
func extractFeatures(window []detector.Frame, cfg Config) Features {
	f := Features{
		Samples:    len(window),
		IndexBend:  math.Pi,
		MiddleBend: math.Pi,
	}
	if len(window) == 0 {
		return f
	}

	newest := &window[len(window)-1].Points
	f.IndexBend = angleAt(newest[detector.IndexMCP], newest[detector.IndexPIP], newest[detector.IndexDIP])
	f.MiddleBend = angleAt(newest[detector.MiddleMCP], newest[detector.MiddlePIP], newest[detector.MiddleDIP])
	f.StrictBend = f.IndexBend < cfg.ChargeStrictAngle || f.MiddleBend < cfg.ChargeStrictAngle
	f.LooseBend = f.IndexBend < cfg.ChargeLooseAngle || f.MiddleBend < cfg.ChargeLooseAngle

	if len(window) < 2 {
		return f
	}

	var planar, depth []float64
	for _, tip := range [...]int{detector.IndexTip, detector.MiddleTip} {
		p, d := tipVelocities(window, tip)
		planar = append(planar, p...)
		depth = append(depth, d...)
	}

	f.PlanarPeak = floats.Max(planar)
	f.PlanarRMS = math.Sqrt(floats.Dot(planar, planar) / float64(len(planar)))
	f.ForwardMin = floats.Min(depth)

	return f
}

// angleAt returns the angle in radians between the vectors center->a and
// center->b using the full 3D coordinates. Degenerate geometry (a vector of
// near-zero length) yields pi, "fully straight", never NaN.
func angleAt(a, center, b detector.Point3D) float64 {
	ax, ay, az := a.X-center.X, a.Y-center.Y, a.Z-center.Z
	bx, by, bz := b.X-center.X, b.Y-center.Y, b.Z-center.Z

	ma := ax*ax + ay*ay + az*az
	mb := bx*bx + by*by + bz*bz
	if ma < vectorEpsilon || mb < vectorEpsilon {
		return math.Pi
	}

	cos := (ax*bx + ay*by + az*bz) / math.Sqrt(ma*mb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// tipVelocities returns the planar speed series and depth velocity series
// for one fingertip across the window.
func tipVelocities(window []detector.Frame, tip int) (planar, depth []float64) {
	n := len(window)
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	ts := make([]float64, n)
	for i, frame := range window {
		p := frame.Points[tip]
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
		ts[i] = frame.T
	}

	vx := finiteDiff(xs, ts)
	vy := finiteDiff(ys, ts)
	depth = finiteDiff(zs, ts)

	planar = make([]float64, n)
	for i := range planar {
		planar[i] = math.Hypot(vx[i], vy[i])
	}
	return planar, depth
}

// finiteDiff computes element-wise backward-difference velocities. The first
// element duplicates the second so the series stays aligned with its input;
// a near-zero time delta contributes zero velocity.
func finiteDiff(values, times []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		dt := times[i] - times[i-1]
		if dt < timeEpsilon {
			out[i] = 0
			continue
		}
		out[i] = (values[i] - values[i-1]) / dt
	}
	if n > 1 {
		out[0] = out[1]
	}
	return out
}
