package gesture

import (
	"sync"
	"sync/atomic"
	"time"
)

type stamped struct {
	m  Metrics
	at time.Time
}

// Cell hands the latest Metrics from a tracker goroutine to the render
// loop. Publish replaces the whole snapshot by pointer, so a reader always
// sees one complete value; older unread values are simply overwritten.
type Cell struct {
	cur     atomic.Pointer[stamped]
	updates atomic.Uint64
	now     func() time.Time
}

// NewCell creates a cell that reads as Absent until the first Publish.
func NewCell() *Cell {
	return &Cell{now: time.Now}
}

// Publish stores m as the latest snapshot.
func (c *Cell) Publish(m Metrics) {
	c.cur.Store(&stamped{m: m.Sanitize(), at: c.now()})
	c.updates.Add(1)
}

// Load returns the latest snapshot regardless of age.
func (c *Cell) Load() Metrics {
	if s := c.cur.Load(); s != nil {
		return s.m
	}
	return Absent
}

// Fresh returns the latest snapshot, or Absent when it is older than
// maxAge. A stalled or stopped tracker therefore degrades to the idle
// state without anyone writing to the cell.
func (c *Cell) Fresh(maxAge time.Duration) Metrics {
	s := c.cur.Load()
	if s == nil {
		return Absent
	}
	if maxAge > 0 && c.now().Sub(s.at) > maxAge {
		return Absent
	}
	return s.m
}

// Age returns how long ago the last snapshot was published.
func (c *Cell) Age() time.Duration {
	s := c.cur.Load()
	if s == nil {
		return 0
	}
	return c.now().Sub(s.at)
}

// Updates counts Publish calls.
func (c *Cell) Updates() uint64 {
	return c.updates.Load()
}

// PresenceFilter turns a stream of metrics into rare presence-change
// notifications for the UI, at most one per interval.
type PresenceFilter struct {
	mu       sync.Mutex
	interval time.Duration
	reported bool
	last     time.Time
	started  bool
}

// NewPresenceFilter creates a filter that starts in the absent state.
func NewPresenceFilter(interval time.Duration) *PresenceFilter {
	return &PresenceFilter{interval: interval}
}

// Observe reports whether the presence flag should be re-announced. A flip
// that arrives inside the throttle window is announced by a later call.
func (f *PresenceFilter) Observe(m Metrics, now time.Time) (present, changed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m.Present == f.reported {
		return f.reported, false
	}
	if f.started && now.Sub(f.last) < f.interval {
		return f.reported, false
	}
	f.reported = m.Present
	f.last = now
	f.started = true
	return f.reported, true
}

// Feed returns an emit callback for Source.Start that publishes into cell
// and calls notify whenever filter reports a presence change. filter and
// notify may be nil.
func Feed(cell *Cell, filter *PresenceFilter, notify func(present bool)) func(Metrics) {
	return func(m Metrics) {
		cell.Publish(m)
		if filter == nil || notify == nil {
			return
		}
		if present, changed := filter.Observe(m, cell.now()); changed {
			notify(present)
		}
	}
}
