package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// glide is the per-sample fraction by which pitch and loudness move toward
// their targets, about 20ms at 44.1kHz.
const glide = 0.001

// Hum is an endless tone whose pitch follows the field's expansion and
// whose loudness follows hand tension. The render loop calls Follow; the
// speaker goroutine calls Stream.
type Hum struct {
	sr        beep.SampleRate
	baseFreq  float64
	maxVolume float64

	targetFreq atomic.Uint64 // math.Float64bits
	targetVol  atomic.Uint64

	// Owned by the audio goroutine.
	phase float64
	freq  float64
	vol   float64
}

// NewHum creates a silent hum at baseFreq.
func NewHum(sr beep.SampleRate, baseFreq, maxVolume float64) *Hum {
	h := &Hum{sr: sr, baseFreq: baseFreq, maxVolume: maxVolume, freq: baseFreq}
	h.targetFreq.Store(math.Float64bits(baseFreq))
	return h
}

// Follow sets the tone for the current frame. Expansion 1 plays baseFreq;
// the open hand at expansion 3 plays a bit more than an octave higher.
func (h *Hum) Follow(expansion, tension float64) {
	if math.IsNaN(expansion) || expansion <= 0 {
		expansion = 1
	}
	vol := h.maxVolume * (0.2 + 0.8*math.Min(math.Max(tension, 0), 1))
	h.targetFreq.Store(math.Float64bits(h.baseFreq * expansion))
	h.targetVol.Store(math.Float64bits(vol))
}

// Target returns the frequency and volume last passed by Follow.
func (h *Hum) Target() (freq, vol float64) {
	return math.Float64frombits(h.targetFreq.Load()), math.Float64frombits(h.targetVol.Load())
}

func (h *Hum) Stream(samples [][2]float64) (n int, ok bool) {
	tf, tv := h.Target()
	step := 1 / float64(h.sr)
	for i := range samples {
		h.freq += (tf - h.freq) * glide
		h.vol += (tv - h.vol) * glide

		// Fundamental plus a soft second harmonic.
		s := math.Sin(2*math.Pi*h.phase) + 0.3*math.Sin(4*math.Pi*h.phase)
		s *= h.vol / 1.3

		samples[i][0] = s
		samples[i][1] = s

		h.phase += h.freq * step
		if h.phase >= 1 {
			h.phase -= math.Floor(h.phase)
		}
	}
	return len(samples), true
}

func (h *Hum) Err() error {
	return nil
}

// Player plays a Hum on the system speaker.
type Player struct {
	mu      sync.Mutex
	hum     *Hum
	ctrl    *beep.Ctrl
	started bool
}

// NewPlayer creates a player for hum.
func NewPlayer(hum *Hum) *Player {
	return &Player{hum: hum}
}

// Hum returns the tone the player streams.
func (p *Player) Hum() *Hum { return p.hum }

// Start initializes the speaker and begins playback.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}
	if err := speaker.Init(p.hum.sr, p.hum.sr.N(time.Millisecond*100)); err != nil {
		return err
	}
	p.ctrl = &beep.Ctrl{Streamer: p.hum}
	speaker.Play(p.ctrl)
	p.started = true
	return nil
}

// Stop silences playback. The speaker itself stays initialized.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	speaker.Clear()
	p.started = false
}

// Follow forwards to the hum.
func (p *Player) Follow(expansion, tension float64) {
	p.hum.Follow(expansion, tension)
}
