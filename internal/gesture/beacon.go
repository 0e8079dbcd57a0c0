package gesture

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// BeaconConfig tunes how a BLE beacon's signal strength becomes tension.
type BeaconConfig struct {
	Target         string  // MAC address or advertised name, case-insensitive
	MeasuredPower  float64 // RSSI at 1 meter
	PathLossExp    float64
	SmoothingAlpha float64
	Near, Far      float64 // meters mapped to tension 0 and 1
	Timeout        time.Duration
}

// RSSIToDistance estimates distance from RSSI using the log-distance path loss model.
// Formula: d = 10^((measuredPower - rssi) / (10 * n))
func RSSIToDistance(rssi, measuredPower, pathLossExp float64) float64 {
	if rssi >= 0 {
		return 0.1
	}
	d := math.Pow(10, (measuredPower-rssi)/(10*pathLossExp))
	if d < 0.1 {
		return 0.1
	}
	return d
}

// DistanceToTension maps a distance linearly from [near, far] onto [0, 1].
func DistanceToTension(dist, near, far float64) float64 {
	if far <= near {
		return 0
	}
	return clamp((dist-near)/(far-near), 0, 1)
}

// beaconFilter smooths one beacon's RSSI and turns it into Metrics.
type beaconFilter struct {
	cfg    BeaconConfig
	rssi   float64
	seeded bool
}

func (f *beaconFilter) observe(rssi float64) Metrics {
	if !f.seeded {
		f.rssi = rssi
		f.seeded = true
	} else {
		f.rssi = f.rssi*(1-f.cfg.SmoothingAlpha) + rssi*f.cfg.SmoothingAlpha
	}
	dist := RSSIToDistance(f.rssi, f.cfg.MeasuredPower, f.cfg.PathLossExp)
	return Metrics{
		Present: true,
		Tension: DistanceToTension(dist, f.cfg.Near, f.cfg.Far),
	}
}

func (f *beaconFilter) reset() {
	f.seeded = false
}

// BeaconSource drives tension from the distance to a BLE beacon, such as
// a phone held in the hand. The beacon dropping out reads as no hand.
type BeaconSource struct {
	adapter *bluetooth.Adapter
	cfg     BeaconConfig

	mu       sync.Mutex
	filter   beaconFilter
	lastSeen time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewBeaconSource creates a source scanning with the default adapter.
func NewBeaconSource(cfg BeaconConfig) *BeaconSource {
	return &BeaconSource{
		adapter: bluetooth.DefaultAdapter,
		cfg:     cfg,
		filter:  beaconFilter{cfg: cfg},
	}
}

func (s *BeaconSource) Name() string { return "beacon " + s.cfg.Target }

// Start enables the adapter and scans in a goroutine.
func (s *BeaconSource) Start(ctx context.Context, emit func(Metrics)) error {
	if s.cfg.Target == "" {
		return fmt.Errorf("beacon source needs a MAC address or name")
	}
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		_ = s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if ctx.Err() != nil {
				return
			}
			if !s.matches(result.Address.String(), result.LocalName()) {
				return
			}
			s.mu.Lock()
			m := s.filter.observe(float64(result.RSSI))
			s.lastSeen = time.Now()
			s.mu.Unlock()
			emit(m)
		})
	}()

	go s.watchdog(ctx, emit, done)
	return nil
}

// watchdog reports Absent once the beacon has been silent for Timeout.
func (s *BeaconSource) watchdog(ctx context.Context, emit func(Metrics), done chan struct{}) {
	defer close(done)

	interval := s.cfg.Timeout / 2
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.mu.Lock()
			stale := !s.lastSeen.IsZero() && now.Sub(s.lastSeen) > s.cfg.Timeout
			if stale {
				s.filter.reset()
				s.lastSeen = time.Time{}
			}
			s.mu.Unlock()
			if stale {
				emit(Absent)
			}
		}
	}
}

func (s *BeaconSource) matches(mac, name string) bool {
	return strings.EqualFold(mac, s.cfg.Target) || (name != "" && strings.EqualFold(name, s.cfg.Target))
}

// Stop halts scanning.
func (s *BeaconSource) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	_ = s.adapter.StopScan()
	<-done
}
