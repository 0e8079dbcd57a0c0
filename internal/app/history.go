package app

// TensionRing is a circular buffer of recent tension samples.
type TensionRing struct {
	buf   []float64
	pos   int
	count int
	out   []float64
}

// NewTensionRing creates a new circular buffer with the given capacity.
func NewTensionRing(capacity int) *TensionRing {
	return &TensionRing{
		buf: make([]float64, capacity),
		out: make([]float64, 0, capacity),
	}
}

// Push adds a value, overwriting the oldest once full.
func (r *TensionRing) Push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns the stored values oldest first. The slice is reused by
// the next call.
func (r *TensionRing) Values() []float64 {
	r.out = r.out[:0]
	if r.count < len(r.buf) {
		return append(r.out, r.buf[:r.count]...)
	}
	r.out = append(r.out, r.buf[r.pos:]...)
	return append(r.out, r.buf[:r.pos]...)
}

// Last returns the most recent value, or 0 if empty.
func (r *TensionRing) Last() float64 {
	if r.count == 0 {
		return 0
	}
	idx := (r.pos - 1 + len(r.buf)) % len(r.buf)
	return r.buf[idx]
}

// Len returns the number of stored values.
func (r *TensionRing) Len() int {
	return r.count
}
