package gesture

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// RecordedFrame is one timestamped tracking result in a recording.
type RecordedFrame struct {
	At    time.Duration `yaml:"at"`
	Hands [][]Landmark  `yaml:"hands"`
}

// Recording is a landmark capture that can be replayed as a Source.
type Recording struct {
	Name   string          `yaml:"name"`
	Frames []RecordedFrame `yaml:"frames"`
}

// Validate checks that every frame is valid tracker output and that
// timestamps never go backwards.
func (r *Recording) Validate() error {
	var prev time.Duration
	for i, rf := range r.Frames {
		if rf.At < prev {
			return fmt.Errorf("%w: frame %d at %v is before %v", ErrInvalidFrame, i, rf.At, prev)
		}
		prev = rf.At
		if _, err := FromRaw(rf.Hands); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// Duration is the timestamp of the last frame.
func (r *Recording) Duration() time.Duration {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].At
}

// LoadRecording reads and validates a YAML recording.
func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	var rec Recording
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse recording: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recording %s: %w", path, err)
	}
	if rec.Name == "" {
		rec.Name = path
	}
	return &rec, nil
}

// Save writes the recording as YAML.
func (r *Recording) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode recording: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write recording: %w", err)
	}
	return nil
}

// minReplayPass is the shortest time one looped pass may take, so a
// recording whose frames all share a timestamp still plays at tracker pace.
const minReplayPass = time.Second / 30

// ReplaySource plays a recording back through Derive at its original pace.
type ReplaySource struct {
	rec  *Recording
	loop bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReplaySource creates a source for rec. With loop set, playback
// restarts after the last frame; otherwise Absent is emitted and the
// source goes quiet.
func NewReplaySource(rec *Recording, loop bool) *ReplaySource {
	return &ReplaySource{rec: rec, loop: loop}
}

func (s *ReplaySource) Name() string { return "replay " + s.rec.Name }

// Start begins playback in a goroutine.
func (s *ReplaySource) Start(ctx context.Context, emit func(Metrics)) error {
	if len(s.rec.Frames) == 0 {
		return fmt.Errorf("recording %s has no frames", s.rec.Name)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.play(ctx, emit, done)
	return nil
}

func (s *ReplaySource) play(ctx context.Context, emit func(Metrics), done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		start := time.Now()
		for _, rf := range s.rec.Frames {
			timer.Reset(time.Until(start.Add(rf.At)))
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			f, err := FromRaw(rf.Hands)
			if err != nil {
				continue
			}
			m, err := Derive(f)
			if err != nil {
				continue
			}
			emit(m)
		}
		if !s.loop {
			emit(Absent)
			return
		}
		timer.Reset(time.Until(start.Add(max(s.rec.Duration(), minReplayPass))))
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Stop halts playback and waits for it to exit.
func (s *ReplaySource) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Recorder captures frames into a Recording, stamping each with the time
// since the first one.
type Recorder struct {
	mu    sync.Mutex
	rec   Recording
	start time.Time
	now   func() time.Time
}

// NewRecorder creates an empty recorder.
func NewRecorder(name string) *Recorder {
	return &Recorder{rec: Recording{Name: name}, now: time.Now}
}

// Observe appends f. Invalid frames are dropped.
func (r *Recorder) Observe(f Frame) {
	if f.Validate() != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.start.IsZero() {
		r.start = now
	}
	r.rec.Frames = append(r.rec.Frames, RecordedFrame{
		At:    now.Sub(r.start),
		Hands: f.Raw(),
	})
}

// Len returns the number of captured frames.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rec.Frames)
}

// Recording returns a copy of what has been captured so far.
func (r *Recorder) Recording() *Recording {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Recording{Name: r.rec.Name, Frames: make([]RecordedFrame, len(r.rec.Frames))}
	copy(out.Frames, r.rec.Frames)
	return &out
}

// Save writes the captured frames to path.
func (r *Recorder) Save(path string) error {
	return r.Recording().Save(path)
}
