package shape

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidTemplate is returned for template values outside the closed set.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrBufferSizeMismatch means a particle buffer does not hold exactly N points.
	ErrBufferSizeMismatch = errors.New("particle buffer size mismatch")

	// ErrNonFinite means a buffer contains NaN or Inf coordinates.
	ErrNonFinite = errors.New("non-finite particle coordinate")
)

// Point is one particle position.
type Point struct {
	X, Y, Z float64
}

// Scale returns p multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

// Len returns the distance from the origin.
func (p Point) Len() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Finite reports whether every coordinate is a real number.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParticleSet is an ordered buffer of positions. Index i names the same
// particle in every buffer for the process lifetime.
type ParticleSet []Point

// Clone returns an independent copy.
func (ps ParticleSet) Clone() ParticleSet {
	out := make(ParticleSet, len(ps))
	copy(out, ps)
	return out
}

// Validate checks that ps holds exactly n finite points.
func (ps ParticleSet) Validate(n int) error {
	if len(ps) != n {
		return fmt.Errorf("%w: have %d, want %d", ErrBufferSizeMismatch, len(ps), n)
	}
	for i, p := range ps {
		if !p.Finite() {
			return fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
	}
	return nil
}
