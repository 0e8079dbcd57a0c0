package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"particles.klederson.com/internal/config"
)

// Density levels, from an empty cell to a packed one.
var (
	glyphs = [...]string{" ", ".", ":", "*", "#", "@"}
	shades = [...]float64{0, 0.35, 0.55, 0.75, 0.9, 1}
)

// Level buckets a cell count into a glyph index.
func Level(count uint16) int {
	switch {
	case count == 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	case count <= 4:
		return 3
	case count <= 8:
		return 4
	default:
		return 5
	}
}

// Shade scales a color toward black by f in [0, 1].
func Shade(c config.RGB, f float64) config.RGB {
	f = min(max(f, 0), 1)
	return config.RGB{
		R: uint8(float64(c.R)*f + 0.5),
		G: uint8(float64(c.G)*f + 0.5),
		B: uint8(float64(c.B)*f + 0.5),
	}
}

// Renderer turns a Grid into styled terminal rows. Styles are rebuilt
// only when the particle color changes.
type Renderer struct {
	color  config.RGB
	styles [len(glyphs)]lipgloss.Style
	ready  bool
	sb     strings.Builder
}

func (r *Renderer) stylesFor(c config.RGB) {
	if r.ready && r.color == c {
		return
	}
	for i := range r.styles {
		s := lipgloss.NewStyle().Foreground(lipgloss.Color(Shade(c, shades[i]).Hex()))
		if i == len(r.styles)-1 {
			s = s.Bold(true)
		}
		r.styles[i] = s
	}
	r.color = c
	r.ready = true
}

// Render draws the grid in color c. Consecutive cells of the same density
// are styled as one run.
func (r *Renderer) Render(g *Grid, c config.RGB) string {
	if g.Width == 0 || g.Height == 0 {
		return ""
	}
	r.stylesFor(c)

	r.sb.Reset()
	r.sb.Grow(g.Width * g.Height * 2)

	var run strings.Builder
	for row := 0; row < g.Height; row++ {
		level := -1
		for col := 0; col < g.Width; col++ {
			l := Level(g.At(col, row))
			if l != level {
				r.flush(&run, level)
				level = l
			}
			run.WriteString(glyphs[l])
		}
		r.flush(&run, level)
		if row < g.Height-1 {
			r.sb.WriteByte('\n')
		}
	}
	return r.sb.String()
}

func (r *Renderer) flush(run *strings.Builder, level int) {
	if run.Len() == 0 {
		return
	}
	if level == 0 {
		r.sb.WriteString(run.String())
	} else {
		r.sb.WriteString(r.styles[level].Render(run.String()))
	}
	run.Reset()
}
