package gesture

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

const syntheticCycle = 12.0 // seconds: absent, one-hand pinch, two-hand spread

// SyntheticSource fakes a hand tracker for demo mode. It builds landmark
// frames that cycle through no hands, a pinching hand and two spreading
// hands, and runs them through Derive like real tracker output.
type SyntheticSource struct {
	rate     time.Duration
	jitter   float64
	recorder *Recorder

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSyntheticSource creates a source emitting every rate.
func NewSyntheticSource(rate time.Duration) *SyntheticSource {
	return &SyntheticSource{rate: rate, jitter: 0.004}
}

// WithRecorder makes the source feed every frame it generates to r.
func (s *SyntheticSource) WithRecorder(r *Recorder) *SyntheticSource {
	s.recorder = r
	return s
}

func (s *SyntheticSource) Name() string { return "synthetic" }

// Start begins emitting in a goroutine.
func (s *SyntheticSource) Start(ctx context.Context, emit func(Metrics)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, emit, s.done)
	return nil
}

func (s *SyntheticSource) loop(ctx context.Context, emit func(Metrics), done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			f := s.FrameAt(now.Sub(start).Seconds())
			if s.recorder != nil {
				s.recorder.Observe(f)
			}
			m, err := Derive(f)
			if err != nil {
				continue
			}
			emit(m)
		}
	}
}

// Stop halts the source and waits for its goroutine to exit.
func (s *SyntheticSource) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// FrameAt returns the synthetic frame for time t in seconds.
func (s *SyntheticSource) FrameAt(t float64) Frame {
	phase := math.Mod(t, syntheticCycle)
	switch {
	case phase < 2:
		return Frame{}
	case phase < 7:
		// Aperture sweeps 0.02 (pinched) to 0.19 (open).
		aperture := 0.02 + 0.17*(0.5+0.5*math.Sin(t*1.3))
		cx := 0.5 + 0.2*math.Sin(t*0.4)
		cy := 0.5 + 0.15*math.Cos(t*0.3)
		return Frame{Hands: []Hand{s.hand(cx, cy+palmLength, aperture)}}
	default:
		// Wrists sweep 0.1 to 0.65 apart around a slowly drifting midpoint.
		spread := 0.1 + 0.55*(0.5+0.5*math.Sin(t*0.9))
		mx := 0.5 + 0.1*math.Sin(t*0.25)
		my := 0.6
		return Frame{Hands: []Hand{
			s.hand(mx-spread/2, my, 0.1),
			s.hand(mx+spread/2, my, 0.1),
		}}
	}
}

const palmLength = 0.12

// hand lays out a rough skeleton from the wrist up with the thumb and
// index tips aperture apart.
func (s *SyntheticSource) hand(wx, wy, aperture float64) Hand {
	var h Hand
	for i := range h {
		finger := float64(i%5) - 2
		joint := float64(i / 5)
		h[i] = Landmark{
			X: wx + finger*0.015 + s.noise(),
			Y: wy - palmLength*0.5 - joint*0.03 + s.noise(),
		}
	}
	h[Wrist] = Landmark{X: wx, Y: wy}
	h[MiddleMCP] = Landmark{X: wx, Y: wy - palmLength}
	h[ThumbTip] = Landmark{X: wx - aperture/2, Y: wy - palmLength - 0.08}
	h[IndexTip] = Landmark{X: wx + aperture/2, Y: wy - palmLength - 0.08}
	return h
}

func (s *SyntheticSource) noise() float64 {
	if s.jitter == 0 {
		return 0
	}
	return (rand.Float64()*2 - 1) * s.jitter
}
