package motion

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"particles.klederson.com/internal/gesture"
	"particles.klederson.com/internal/shape"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func heart(t *testing.T, n int) shape.ParticleSet {
	t.Helper()
	ps, err := shape.Generate(shape.TemplateHeart, n, seeded())
	require.NoError(t, err)
	return ps
}

func distance(a, b shape.ParticleSet) float64 {
	var sum float64
	for i := range a {
		dx, dy, dz := a[i].X-b[i].X, a[i].Y-b[i].Y, a[i].Z-b[i].Z
		sum += dx*dx + dy*dy + dz*dz
	}
	return math.Sqrt(sum)
}

func TestExpansion(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name    string
		m       gesture.Metrics
		elapsed float64
		want    float64
	}{
		{"closed hand", gesture.Metrics{Present: true}, 3, 1},
		{"half tension", gesture.Metrics{Present: true, Tension: 0.5}, 3, 2},
		{"full tension", gesture.Metrics{Present: true, Tension: 1}, 3, 3},
		{"idle at zero", gesture.Absent, 0, 1},
		{"idle peak", gesture.Absent, math.Pi, 1.2},
		{"idle trough", gesture.Absent, 3 * math.Pi, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Expansion(p, tt.m, tt.elapsed), 1e-9)
		})
	}
}

func TestExpansionIsDeterministic(t *testing.T) {
	p := DefaultParams()
	m := gesture.Metrics{Present: true, Tension: 0.37}
	assert.Equal(t, Expansion(p, m, 12.5), Expansion(p, m, 12.5))
	assert.Equal(t, Expansion(p, gesture.Absent, 4.2), Expansion(p, gesture.Absent, 4.2))
}

func TestNewRejectsBadInitial(t *testing.T) {
	_, err := New(nil, DefaultParams(), nil)
	assert.ErrorIs(t, err, shape.ErrBufferSizeMismatch)

	_, err = New(shape.ParticleSet{{X: math.NaN()}}, DefaultParams(), nil)
	assert.ErrorIs(t, err, shape.ErrNonFinite)
}

func TestNewCopiesInitial(t *testing.T) {
	initial := heart(t, 32)
	it, err := New(initial, DefaultParams(), seeded())
	require.NoError(t, err)

	initial[0].X = 99
	assert.NotEqual(t, 99.0, it.Live()[0].X)
	assert.NotEqual(t, 99.0, it.Target()[0].X)
}

func TestTickConvergesGeometrically(t *testing.T) {
	n := 256
	it, err := New(heart(t, n), DefaultParams(), seeded())
	require.NoError(t, err)

	flower, err := shape.Generate(shape.TemplateFlower, n, seeded())
	require.NoError(t, err)
	require.NoError(t, it.SetTarget(flower))

	m := gesture.Metrics{Present: true, Tension: 0.5}
	dest := make(shape.ParticleSet, n)
	for i := range flower {
		dest[i] = flower[i].Scale(2)
	}

	prev := distance(it.Live(), dest)
	for i := 0; i < 50; i++ {
		_, err := it.Tick(float64(i), m)
		require.NoError(t, err)
		cur := distance(it.Live(), dest)
		assert.InDelta(t, prev*0.9, cur, 1e-9*math.Max(1, prev))
		prev = cur
	}
	assert.EqualValues(t, 50, it.Frame())
}

func TestTickAtRestDoesNotDrift(t *testing.T) {
	it, err := New(heart(t, 128), DefaultParams(), seeded())
	require.NoError(t, err)
	before := it.Live().Clone()

	// Idle expansion is exactly 1 at t=0.
	_, err = it.Tick(0, gesture.Absent)
	require.NoError(t, err)
	assert.Equal(t, before, it.Live())

	// A closed hand also maps to expansion 1.
	_, err = it.Tick(5, gesture.Metrics{Present: true})
	require.NoError(t, err)
	assert.Equal(t, before, it.Live())
}

func TestTurbulenceAboveThreshold(t *testing.T) {
	n := 512
	p := DefaultParams()

	settled := func(tension float64) (*Integrator, shape.ParticleSet) {
		target := heart(t, n)
		it, err := New(target, p, seeded())
		require.NoError(t, err)
		e := Expansion(p, gesture.Metrics{Present: true, Tension: tension}, 0)
		for i := range it.live {
			it.live[i] = target[i].Scale(e)
		}
		return it, it.Live().Clone()
	}

	calm, before := settled(0.8)
	_, err := calm.Tick(0, gesture.Metrics{Present: true, Tension: 0.8})
	require.NoError(t, err)
	assert.InDelta(t, 0, distance(calm.Live(), before), 1e-9, "threshold itself is calm")

	wild, before := settled(0.9)
	_, err = wild.Tick(0, gesture.Metrics{Present: true, Tension: 0.9})
	require.NoError(t, err)

	moved := 0
	bound := p.TurbulenceAmplitude * p.CatchUpRate
	for i, q := range wild.Live() {
		dx, dy, dz := q.X-before[i].X, q.Y-before[i].Y, q.Z-before[i].Z
		assert.LessOrEqual(t, math.Abs(dx), bound+1e-12)
		assert.LessOrEqual(t, math.Abs(dy), bound+1e-12)
		assert.LessOrEqual(t, math.Abs(dz), bound+1e-12)
		if dx != 0 || dy != 0 || dz != 0 {
			moved++
		}
	}
	assert.Greater(t, moved, n*9/10)
}

func TestTickSizeMismatchAbortsBeforeMutation(t *testing.T) {
	it, err := New(heart(t, 64), DefaultParams(), seeded())
	require.NoError(t, err)

	short := heart(t, 32)
	it.target.Store(&short)
	before := it.Live().Clone()

	rot, err := it.Tick(1, gesture.Metrics{Present: true, Tension: 1, CenterX: 1})
	assert.ErrorIs(t, err, shape.ErrBufferSizeMismatch)
	assert.Equal(t, before, it.Live())
	assert.Equal(t, Rotation{}, rot)
	assert.Zero(t, it.Frame())
}

func TestSetTargetRejectsWrongSize(t *testing.T) {
	it, err := New(heart(t, 64), DefaultParams(), seeded())
	require.NoError(t, err)
	target := it.Target()

	err = it.SetTarget(heart(t, 63))
	assert.ErrorIs(t, err, shape.ErrBufferSizeMismatch)
	assert.Equal(t, target, it.Target())

	bad := heart(t, 64)
	bad[10].Z = math.Inf(-1)
	assert.ErrorIs(t, it.SetTarget(bad), shape.ErrNonFinite)
	assert.Equal(t, target, it.Target())
}

func TestSetTargetLeavesLiveAlone(t *testing.T) {
	it, err := New(heart(t, 64), DefaultParams(), seeded())
	require.NoError(t, err)
	before := it.Live().Clone()

	rings, err := shape.Generate(shape.TemplateSaturnRings, 64, seeded())
	require.NoError(t, err)
	require.NoError(t, it.SetTarget(rings))

	assert.Equal(t, before, it.Live())
	assert.Equal(t, rings, it.Target())
}

func TestSetTargetDuringTicksIsAtomic(t *testing.T) {
	const n = 256
	p := DefaultParams()
	p.CatchUpRate = 1
	p.BreathAmplitude = 0

	flat := func(v float64) shape.ParticleSet {
		ps := make(shape.ParticleSet, n)
		for i := range ps {
			ps[i] = shape.Point{X: v, Y: -v, Z: v}
		}
		return ps
	}
	it, err := New(flat(0), p, seeded())
	require.NoError(t, err)

	stop := make(chan struct{})
	swapped := make(chan struct{})
	go func() {
		defer close(swapped)
		for v := 1.0; ; v++ {
			select {
			case <-stop:
				return
			default:
			}
			if err := it.SetTarget(flat(v)); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for range 2000 {
		_, err := it.Tick(0, gesture.Absent)
		require.NoError(t, err)
		live := it.Live()
		for i := range live {
			require.InDelta(t, live[0].X, live[i].X, 1e-9, "tick %d mixed two targets", it.Frame())
		}
	}
	close(stop)
	<-swapped
}

func TestTurbulentUsesParams(t *testing.T) {
	p := DefaultParams()
	p.TurbulenceThreshold = 0.3
	it, err := New(heart(t, 8), p, seeded())
	require.NoError(t, err)

	assert.True(t, it.Turbulent(gesture.Metrics{Present: true, Tension: 0.5}))
	assert.False(t, it.Turbulent(gesture.Metrics{Present: true, Tension: 0.3}))
	assert.False(t, it.Turbulent(gesture.Metrics{Tension: 1}))
}

func TestRotation(t *testing.T) {
	p := DefaultParams()
	it, err := New(heart(t, 16), p, seeded())
	require.NoError(t, err)

	rot, err := it.Tick(0, gesture.Metrics{Present: true, CenterX: 1, CenterY: -1})
	require.NoError(t, err)
	assert.InDelta(t, p.SpinRate+p.YawGain, rot.YawDelta, 1e-12)
	assert.InDelta(t, p.SpinRate+p.YawGain, rot.Yaw, 1e-12)
	assert.InDelta(t, -p.PitchGain, rot.Pitch, 1e-12)

	rot, err = it.Tick(0, gesture.Absent)
	require.NoError(t, err)
	assert.InDelta(t, p.SpinRate, rot.YawDelta, 1e-12)
	assert.Zero(t, rot.Pitch, "pitch follows the hand directly")
	assert.Equal(t, rot, it.Rotation())

	for i := 0; i < 500; i++ {
		rot, err = it.Tick(0, gesture.Metrics{Present: true, CenterX: 1})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rot.Yaw, 0.0)
		assert.Less(t, rot.Yaw, 2*math.Pi)
	}
}

func TestTickSanitizesMetrics(t *testing.T) {
	it, err := New(heart(t, 16), DefaultParams(), seeded())
	require.NoError(t, err)

	_, err = it.Tick(0, gesture.Metrics{Present: true, Tension: math.NaN(), CenterX: math.Inf(1)})
	require.NoError(t, err)
	for _, q := range it.Live() {
		assert.True(t, q.Finite())
	}
}

func TestTickDoesNotAllocate(t *testing.T) {
	it, err := New(heart(t, 1024), DefaultParams(), seeded())
	require.NoError(t, err)
	m := gesture.Metrics{Present: true, Tension: 0.95, CenterX: 0.2}

	allocs := testing.AllocsPerRun(50, func() {
		_, _ = it.Tick(1.5, m)
	})
	assert.Zero(t, allocs)
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0.5, wrapAngle(2*math.Pi+0.5), 1e-12)
	assert.InDelta(t, 2*math.Pi-0.5, wrapAngle(-0.5), 1e-12)
	assert.Equal(t, 0.0, wrapAngle(0))
}
