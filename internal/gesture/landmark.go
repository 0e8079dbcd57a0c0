package gesture

import (
	"errors"
	"fmt"
	"math"
)

// LandmarksPerHand is the size of a hand skeleton from the tracker.
const LandmarksPerHand = 21

// Landmark indices used for the metrics.
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexTip  = 8
	MiddleMCP = 9
)

// MaxHands is the most hands a frame may carry.
const MaxHands = 2

// ErrInvalidFrame marks tracker output that cannot be turned into metrics.
var ErrInvalidFrame = errors.New("invalid landmark frame")

// Landmark is a tracker point in normalized image coordinates: x and y in
// [0, 1] with y pointing down, z relative depth.
type Landmark struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Hand is one fixed-size hand skeleton.
type Hand [LandmarksPerHand]Landmark

// Frame is one validated tracking result.
type Frame struct {
	Hands []Hand
}

// FromRaw ingests untyped tracker output. Each hand must carry exactly
// LandmarksPerHand finite points and there may be at most MaxHands hands.
func FromRaw(hands [][]Landmark) (Frame, error) {
	if len(hands) > MaxHands {
		return Frame{}, fmt.Errorf("%w: %d hands, at most %d", ErrInvalidFrame, len(hands), MaxHands)
	}
	f := Frame{Hands: make([]Hand, len(hands))}
	for h, pts := range hands {
		if len(pts) != LandmarksPerHand {
			return Frame{}, fmt.Errorf("%w: hand %d has %d landmarks, want %d",
				ErrInvalidFrame, h, len(pts), LandmarksPerHand)
		}
		copy(f.Hands[h][:], pts)
	}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Raw flattens a frame back to the slice form used in recordings.
func (f Frame) Raw() [][]Landmark {
	out := make([][]Landmark, len(f.Hands))
	for i := range f.Hands {
		out[i] = append([]Landmark(nil), f.Hands[i][:]...)
	}
	return out
}

// Validate checks hand count and that every coordinate is finite.
func (f Frame) Validate() error {
	if len(f.Hands) > MaxHands {
		return fmt.Errorf("%w: %d hands, at most %d", ErrInvalidFrame, len(f.Hands), MaxHands)
	}
	for h := range f.Hands {
		for i, l := range f.Hands[h] {
			if !finite(l.X) || !finite(l.Y) || !finite(l.Z) {
				return fmt.Errorf("%w: hand %d landmark %d is not finite", ErrInvalidFrame, h, i)
			}
		}
	}
	return nil
}

// Derive maps a frame to Metrics.
//
// Two hands: tension follows the wrist-to-wrist distance (0.1 apart reads
// 0, 0.6 apart reads 1) and the center is the wrist midpoint. One hand:
// tension follows the thumb-to-index aperture (0.02 closed, ~0.19 open)
// and the center is the middle-finger knuckle. Image y grows downward, so
// it is inverted.
func Derive(f Frame) (Metrics, error) {
	if err := f.Validate(); err != nil {
		return Absent, err
	}

	switch len(f.Hands) {
	case 0:
		return Absent, nil
	case 2:
		a, b := f.Hands[0][Wrist], f.Hands[1][Wrist]
		dist := math.Hypot(a.X-b.X, a.Y-b.Y)
		return Metrics{
			Present: true,
			Tension: clamp((dist-0.1)*2, 0, 1),
			CenterX: ((a.X+b.X)/2 - 0.5) * 2,
			CenterY: -((a.Y+b.Y)/2 - 0.5) * 2,
		}.Sanitize(), nil
	default:
		hand := f.Hands[0]
		thumb, index := hand[ThumbTip], hand[IndexTip]
		dist := math.Hypot(thumb.X-index.X, thumb.Y-index.Y)
		return Metrics{
			Present: true,
			Tension: clamp((dist-0.02)*6, 0, 1),
			CenterX: (hand[MiddleMCP].X - 0.5) * 2,
			CenterY: -(hand[MiddleMCP].Y - 0.5) * 2,
		}.Sanitize(), nil
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
