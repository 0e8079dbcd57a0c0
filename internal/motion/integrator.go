package motion

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"particles.klederson.com/internal/gesture"
	"particles.klederson.com/internal/shape"
)

// Rotation is the whole-field orientation produced by a tick.
type Rotation struct {
	Yaw      float64 // Accumulated spin in radians [0, 2π)
	Pitch    float64 // Follows gesture Y directly
	YawDelta float64 // Yaw added by the last tick
}

// Integrator advances the live particle buffer toward a gesture-modulated
// copy of the target buffer, one exponential smoothing pass per tick.
//
// Tick, Live and Rotation belong to the render loop and must not be called
// concurrently with each other. SetTarget may be called from any goroutine;
// the target is swapped by reference so a tick sees either the old or the
// new buffer, never a mix.
type Integrator struct {
	n      int
	params Params
	rng    *rand.Rand

	live   shape.ParticleSet
	target atomic.Pointer[shape.ParticleSet]

	rot   Rotation
	frame uint64
}

// New creates an integrator whose live and target buffers both start at
// initial. The integrator keeps its own copy of the live buffer.
func New(initial shape.ParticleSet, p Params, rng *rand.Rand) (*Integrator, error) {
	n := len(initial)
	if err := initial.Validate(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: empty initial buffer", shape.ErrBufferSizeMismatch)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	it := &Integrator{
		n:      n,
		params: p,
		rng:    rng,
		live:   initial.Clone(),
	}
	target := initial.Clone()
	it.target.Store(&target)
	return it, nil
}

// Size returns N.
func (it *Integrator) Size() int { return it.n }

// Params returns the active tunables.
func (it *Integrator) Params() Params { return it.params }

// SetTarget installs a new target shape. The buffer must hold exactly N
// finite points; otherwise the current target stays in place. Live is
// never touched, so the field animates into the new shape.
func (it *Integrator) SetTarget(ps shape.ParticleSet) error {
	if err := ps.Validate(it.n); err != nil {
		return fmt.Errorf("rejecting target: %w", err)
	}
	it.target.Store(&ps)
	return nil
}

// Target returns the current target buffer. Callers must not modify it.
func (it *Integrator) Target() shape.ParticleSet {
	if t := it.target.Load(); t != nil {
		return *t
	}
	return nil
}

// Live returns the buffer mutated by Tick. The renderer reads it between
// ticks and must not modify it.
func (it *Integrator) Live() shape.ParticleSet { return it.live }

// Rotation returns the orientation after the last tick.
func (it *Integrator) Rotation() Rotation { return it.rot }

// Frame counts completed ticks; a renderer re-uploads whenever it changes.
func (it *Integrator) Frame() uint64 { return it.frame }

// Expansion returns the radial scale applied to the target this tick:
// tension driven while a gesture is present, an idle breathing wave
// otherwise.
func (it *Integrator) Expansion(m gesture.Metrics, elapsed float64) float64 {
	return Expansion(it.params, m, elapsed)
}

// Expansion is the stateless form of Integrator.Expansion.
func Expansion(p Params, m gesture.Metrics, elapsed float64) float64 {
	if m.Present {
		return 1 + m.Tension*p.ExpansionGain
	}
	return 1 + math.Sin(elapsed*p.BreathRate)*p.BreathAmplitude
}

// Turbulent reports whether m is tense enough for shimmer jitter.
func (it *Integrator) Turbulent(m gesture.Metrics) bool {
	return m.Present && m.Tension > it.params.TurbulenceThreshold
}

// Tick advances every live particle one smoothing step toward
// target*expansion (plus shimmer jitter under high tension) and updates
// the field rotation. A size mismatch aborts the tick before any particle
// or the rotation is touched.
func (it *Integrator) Tick(elapsed float64, m gesture.Metrics) (Rotation, error) {
	tp := it.target.Load()
	if tp == nil || len(*tp) != it.n || len(it.live) != it.n {
		have := 0
		if tp != nil {
			have = len(*tp)
		}
		return it.rot, fmt.Errorf("%w: live=%d target=%d want %d",
			shape.ErrBufferSizeMismatch, len(it.live), have, it.n)
	}
	m = m.Sanitize()

	p := it.params
	expansion := Expansion(p, m, elapsed)

	delta := p.SpinRate + m.CenterX*p.YawGain
	it.rot.Yaw = wrapAngle(it.rot.Yaw + delta)
	it.rot.Pitch = m.CenterY * p.PitchGain
	it.rot.YawDelta = delta

	turbulent := it.Turbulent(m)
	amp := p.TurbulenceAmplitude
	k := p.CatchUpRate

	target := *tp
	live := it.live
	for i := range live {
		dx := target[i].X * expansion
		dy := target[i].Y * expansion
		dz := target[i].Z * expansion
		if turbulent {
			dx += (it.rng.Float64()*2 - 1) * amp
			dy += (it.rng.Float64()*2 - 1) * amp
			dz += (it.rng.Float64()*2 - 1) * amp
		}

		c := &live[i]
		c.X += (dx - c.X) * k
		c.Y += (dy - c.Y) * k
		c.Z += (dz - c.Z) * k
	}

	it.frame++
	return it.rot, nil
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
