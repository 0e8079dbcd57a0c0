package gesture

import "math"

// Metrics is one tracking result reduced to what the particle field
// reacts to. It is passed and stored by value.
type Metrics struct {
	Present bool
	Tension float64 // [0, 1]: pinch aperture or two-hand spread
	CenterX float64 // [-1, 1], positive to the right
	CenterY float64 // [-1, 1], positive up
}

// Absent is the idle state: no hands in view.
var Absent = Metrics{}

// Sanitize clamps every field into range and maps non-finite values to
// zero. A snapshot without a hand collapses to Absent.
func (m Metrics) Sanitize() Metrics {
	if !m.Present {
		return Absent
	}
	return Metrics{
		Present: true,
		Tension: clamp(m.Tension, 0, 1),
		CenterX: clamp(m.CenterX, -1, 1),
		CenterY: clamp(m.CenterY, -1, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
