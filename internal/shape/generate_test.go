package shape

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testN = 8000

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

func TestGenerateSizeAndFinite(t *testing.T) {
	rng := seeded(1)
	for _, tmpl := range Templates() {
		t.Run(tmpl.String(), func(t *testing.T) {
			ps, err := Generate(tmpl, testN, rng)
			require.NoError(t, err)
			require.Len(t, ps, testN)
			assert.NoError(t, ps.Validate(testN))
		})
	}
}

func TestGenerateRepeatedCallsStayFinite(t *testing.T) {
	g := NewGenerator(64, seeded(2))
	templates := Templates()
	for call := 0; call < 10000; call++ {
		tmpl := templates[call%len(templates)]
		ps, err := g.Generate(tmpl)
		require.NoError(t, err)
		if err := ps.Validate(64); err != nil {
			t.Fatalf("call %d (%s): %v", call, tmpl, err)
		}
	}
}

func TestGenerateInvalidTemplate(t *testing.T) {
	for _, tmpl := range []Template{-1, 4, 99} {
		ps, err := Generate(tmpl, testN, seeded(3))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTemplate))
		assert.Nil(t, ps)
	}
}

func TestGenerateRejectsEmptySize(t *testing.T) {
	_, err := Generate(TemplateHeart, 0, seeded(3))
	assert.ErrorIs(t, err, ErrBufferSizeMismatch)
}

func TestHeartBounds(t *testing.T) {
	ps, err := Generate(TemplateHeart, testN, seeded(4))
	require.NoError(t, err)

	// hy spans [-17, 5] over a full period, hx spans [-16, 16].
	const eps = 1e-9
	for i, p := range ps {
		require.LessOrEqualf(t, math.Abs(p.X), 0.3*16+eps, "particle %d x", i)
		require.LessOrEqualf(t, math.Abs(p.Y), 0.3*17+eps, "particle %d y", i)
		require.LessOrEqualf(t, math.Abs(p.Z), 2.0+eps, "particle %d z", i)
	}
}

func TestFlowerRadiusMonotonic(t *testing.T) {
	ps, err := Generate(TemplateFlower, testN, seeded(6))
	require.NoError(t, err)

	prev := -1.0
	for i, p := range ps {
		r := math.Hypot(p.X, p.Y)
		require.GreaterOrEqualf(t, r+1e-9, prev, "radius shrank at index %d", i)
		prev = r
	}
	assert.InDelta(t, 0.2*math.Sqrt(testN-1)*0.15, prev, 1e-9)
}

func TestFlowerFollowsGoldenAngle(t *testing.T) {
	ps, err := Generate(TemplateFlower, 10, seeded(7))
	require.NoError(t, err)
	for i := 1; i < len(ps); i++ {
		want := math.Mod(float64(i)*goldenAngle, 2*math.Pi)
		got := math.Atan2(ps[i].Y, ps[i].X)
		if got < 0 {
			got += 2 * math.Pi
		}
		assert.InDeltaf(t, want, got, 1e-9, "index %d", i)
	}
}

func TestSaturnRingSplit(t *testing.T) {
	ps, err := Generate(TemplateSaturnRings, testN, seeded(8))
	require.NoError(t, err)

	ring := 0
	for _, p := range ps {
		r := p.Len()
		if r > 5.5 {
			ring++
			assert.LessOrEqual(t, r, math.Hypot(10, 0.2)+1e-9)
		} else {
			assert.LessOrEqual(t, r, 3.5+1e-9)
		}
	}

	// Binomial(8000, 0.4): sigma ~ 43.8; allow five sigma.
	expected := 0.4 * testN
	sigma := math.Sqrt(testN * 0.4 * 0.6)
	assert.InDelta(t, expected, float64(ring), 5*sigma)
}

func TestSaturnRingIsTilted(t *testing.T) {
	ps, err := Generate(TemplateSaturnRings, testN, seeded(9))
	require.NoError(t, err)

	// Undo the tilt: ring particles must return to a thin disk |y| <= 0.2.
	c, s := math.Cos(-saturnTilt), math.Sin(-saturnTilt)
	for _, p := range ps {
		if p.Len() <= 5.5 {
			continue
		}
		y := p.X*s + p.Y*c
		assert.LessOrEqual(t, math.Abs(y), 0.2+1e-9)
	}
}

func TestFireworksShellBias(t *testing.T) {
	ps, err := Generate(TemplateFireworks, testN, seeded(10))
	require.NoError(t, err)

	outer := 0
	for _, p := range ps {
		r := p.Len()
		require.LessOrEqual(t, r, 8.0+1e-9)
		if r > 4 {
			outer++
		}
	}
	// P(u^0.3 > 0.5) = 1 - 0.5^(1/0.3) ~ 0.90
	assert.Greater(t, float64(outer)/testN, 0.85)
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	a, err := NewGenerator(128, seeded(11)).Generate(TemplateFireworks)
	require.NoError(t, err)
	b, err := NewGenerator(128, seeded(11)).Generate(TemplateFireworks)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
