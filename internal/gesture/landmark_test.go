package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handAt returns a hand with every landmark at (x, y).
func handAt(x, y float64) Hand {
	var h Hand
	for i := range h {
		h[i] = Landmark{X: x, Y: y}
	}
	return h
}

func pinch(aperture float64) Hand {
	h := handAt(0.5, 0.5)
	h[ThumbTip] = Landmark{X: 0.5 - aperture/2, Y: 0.4}
	h[IndexTip] = Landmark{X: 0.5 + aperture/2, Y: 0.4}
	return h
}

func TestDeriveNoHands(t *testing.T) {
	m, err := Derive(Frame{})
	require.NoError(t, err)
	assert.Equal(t, Absent, m)
}

func TestDeriveOneHand(t *testing.T) {
	tests := []struct {
		name     string
		aperture float64
		tension  float64
	}{
		{"closed", 0.0, 0},
		{"threshold", 0.02, 0},
		{"half", 0.02 + 0.5/6, 0.5},
		{"open", 0.3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Derive(Frame{Hands: []Hand{pinch(tt.aperture)}})
			require.NoError(t, err)
			assert.True(t, m.Present)
			assert.InDelta(t, tt.tension, m.Tension, 1e-9)
		})
	}
}

func TestDeriveOneHandCenter(t *testing.T) {
	h := handAt(0.5, 0.5)
	h[MiddleMCP] = Landmark{X: 0.75, Y: 0.25}

	m, err := Derive(Frame{Hands: []Hand{h}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, m.CenterX, 1e-9)
	assert.InDelta(t, 0.5, m.CenterY, 1e-9, "image y is inverted")
}

func TestDeriveTwoHands(t *testing.T) {
	left, right := handAt(0.2, 0.9), handAt(0.6, 0.9)

	m, err := Derive(Frame{Hands: []Hand{left, right}})
	require.NoError(t, err)
	assert.True(t, m.Present)
	assert.InDelta(t, (0.4-0.1)*2, m.Tension, 1e-9)
	assert.InDelta(t, -0.2, m.CenterX, 1e-9)
	assert.InDelta(t, -0.8, m.CenterY, 1e-9)

	far, err := Derive(Frame{Hands: []Hand{handAt(0, 0.5), handAt(1, 0.5)}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, far.Tension)
}

func TestFromRaw(t *testing.T) {
	full := make([]Landmark, LandmarksPerHand)
	for i := range full {
		full[i] = Landmark{X: 0.5, Y: 0.5}
	}

	f, err := FromRaw([][]Landmark{full, full})
	require.NoError(t, err)
	assert.Len(t, f.Hands, 2)
	assert.Equal(t, [][]Landmark{full, full}, f.Raw())

	_, err = FromRaw([][]Landmark{full[:20]})
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = FromRaw([][]Landmark{full, full, full})
	assert.ErrorIs(t, err, ErrInvalidFrame)

	bad := append([]Landmark(nil), full...)
	bad[7].Y = math.NaN()
	_, err = FromRaw([][]Landmark{bad})
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestDeriveRejectsNonFinite(t *testing.T) {
	h := pinch(0.1)
	h[ThumbTip].X = math.Inf(1)

	m, err := Derive(Frame{Hands: []Hand{h}})
	assert.ErrorIs(t, err, ErrInvalidFrame)
	assert.Equal(t, Absent, m)
}

func TestSanitize(t *testing.T) {
	m := Metrics{Present: true, Tension: 3, CenterX: -7, CenterY: math.NaN()}.Sanitize()
	assert.Equal(t, Metrics{Present: true, Tension: 1, CenterX: -1, CenterY: 0}, m)

	assert.Equal(t, Absent, Metrics{Tension: 0.7, CenterX: 0.3}.Sanitize())
}

func TestSyntheticFrames(t *testing.T) {
	s := NewSyntheticSource(0)
	s.jitter = 0

	var sawAbsent, sawOne, sawTwo bool
	for step := 0; step < 240; step++ {
		f := s.FrameAt(float64(step) * 0.05)
		m, err := Derive(f)
		require.NoError(t, err)

		switch len(f.Hands) {
		case 0:
			sawAbsent = true
			assert.False(t, m.Present)
		case 1:
			sawOne = true
		case 2:
			sawTwo = true
		}
		if m.Present {
			assert.GreaterOrEqual(t, m.Tension, 0.0)
			assert.LessOrEqual(t, m.Tension, 1.0)
		}
	}
	assert.True(t, sawAbsent && sawOne && sawTwo, "all phases are visited in one cycle")
}
