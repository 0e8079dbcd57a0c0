package render

import (
	"math"

	"particles.klederson.com/internal/motion"
	"particles.klederson.com/internal/shape"
)

// Grid counts how many particles land in each output cell. It is reused
// across frames; only a resize to a larger area allocates.
type Grid struct {
	Width, Height int
	counts        []uint16
	max           uint16
	visible       int
}

// Resize sets the grid dimensions, keeping the backing storage when it is
// already large enough.
func (g *Grid) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	n := width * height
	if cap(g.counts) < n {
		g.counts = make([]uint16, n)
	}
	g.counts = g.counts[:n]
	g.Width, g.Height = width, height
}

// Rasterize clears the grid and accumulates every particle that projects
// into it. It returns the number of visible particles.
func (g *Grid) Rasterize(live shape.ParticleSet, rot motion.Rotation, cam Camera) int {
	clear(g.counts)
	g.max = 0
	g.visible = 0

	for _, p := range live {
		col, row, _, ok := cam.Project(p, rot, g.Width, g.Height)
		if !ok {
			continue
		}
		i := row*g.Width + col
		if g.counts[i] < math.MaxUint16 {
			g.counts[i]++
		}
		g.max = max(g.max, g.counts[i])
		g.visible++
	}
	return g.visible
}

// At returns the particle count of a cell.
func (g *Grid) At(col, row int) uint16 {
	if col < 0 || row < 0 || col >= g.Width || row >= g.Height {
		return 0
	}
	return g.counts[row*g.Width+col]
}

// Max returns the densest cell's count after the last Rasterize.
func (g *Grid) Max() uint16 { return g.max }

// Visible returns how many particles landed on the grid last time.
func (g *Grid) Visible() int { return g.visible }
