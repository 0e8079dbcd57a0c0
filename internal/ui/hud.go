package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"particles.klederson.com/internal/scene"
)

// Gauge eases a displayed value toward its target with a critically
// damped spring so the bar glides instead of jumping between frames.
type Gauge struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

// NewGauge creates a gauge updated fps times per second.
func NewGauge(fps int) *Gauge {
	return &Gauge{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// Step moves the gauge one frame toward target and returns its position.
func (g *Gauge) Step(target float64) float64 {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, target)
	return g.pos
}

// Value is the current displayed position.
func (g *Gauge) Value() float64 { return g.pos }

// RenderHUD renders the side panel: gesture readout, tension gauge,
// tension history graph and a pad showing where the hand is.
func RenderHUD(width, height int, snap scene.Snapshot, history []float64, gauge float64) string {
	innerW := max(width-4, 16)

	title := StylePanelTitle.Render("GESTURE")
	sep := StylePadRing.Render(strings.Repeat("-", innerW))
	lines := []string{title, sep}

	hand := "none"
	if snap.Metrics.Present {
		hand = fmt.Sprintf("%+.2f, %+.2f", snap.Metrics.CenterX, snap.Metrics.CenterY)
	}
	fields := []struct{ label, value string }{
		{"Shape", snap.Template.Label()},
		{"Hand", hand},
		{"Tension", fmt.Sprintf("%.2f", snap.Metrics.Tension)},
		{"Expand", fmt.Sprintf("%.2fx", snap.Expansion)},
		{"Updates", fmt.Sprintf("%d", snap.Updates)},
		{"Age", metricsAge(snap)},
	}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf(" %-9s", f.label))+StyleValue.Render(f.value))
	}
	lines = append(lines, "")

	lines = append(lines, StyleLabel.Render(" Tension ")+renderGaugeBar(gauge, max(innerW-10, 6), snap.Turbulent))
	lines = append(lines, "")

	if len(history) > 1 {
		graphW := max(innerW-8, 8)
		chart := asciigraph.Plot(history,
			asciigraph.Height(4),
			asciigraph.Width(graphW),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Precision(1),
			asciigraph.Caption("tension"))
		lines = append(lines, StyleGraph.Render(chart), "")
	}

	padH := height - len(lines) - 4
	if padH >= 5 {
		padW := min(innerW, padH*3)
		pad := RenderHandPad(padW, padH, snap.Metrics.Present, snap.Metrics.CenterX, snap.Metrics.CenterY)
		prefix := strings.Repeat(" ", max(0, (innerW-padW)/2))
		for _, l := range strings.Split(pad, "\n") {
			lines = append(lines, prefix+l)
		}
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 {
		lines = lines[:max(height-2, 0)]
	}

	style := StylePanelBorder
	if snap.Metrics.Present {
		style = StylePanelActive
	}
	return style.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// metricsAge shows how old the last gesture update is.
func metricsAge(snap scene.Snapshot) string {
	if snap.Updates == 0 {
		return "-"
	}
	return snap.MetricsAge.Round(time.Millisecond).String()
}

func renderGaugeBar(v float64, width int, hot bool) string {
	v = math.Min(math.Max(v, 0), 1)
	filled := int(math.Round(v * float64(width)))

	fill := StyleGaugeFill
	if hot {
		fill = StyleGaugeHot
	}
	return StyleHelp.Render("[") +
		fill.Render(strings.Repeat("|", filled)) +
		StyleGaugeEmpty.Render(strings.Repeat("-", width-filled)) +
		StyleHelp.Render("]")
}

// RenderHandPad draws an elliptical pad with crosshairs and, when a hand
// is tracked, a marker at its center. cx and cy are in [-1, 1] with y up.
func RenderHandPad(width, height int, present bool, cx, cy float64) string {
	if width < 9 || height < 5 {
		return ""
	}

	grid := make([][]byte, height)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", width))
	}

	fcx := float64(width-1) / 2
	fcy := float64(height-1) / 2
	rx, ry := fcx, fcy

	steps := 80
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		col := int(math.Round(fcx + rx*math.Sin(a)))
		row := int(math.Round(fcy - ry*math.Cos(a)))
		grid[row][col] = '.'
	}
	mid := int(math.Round(fcy))
	for c := 1; c < width-1; c++ {
		if grid[mid][c] == ' ' {
			grid[mid][c] = '-'
		}
	}
	center := int(math.Round(fcx))
	for r := 1; r < height-1; r++ {
		if grid[r][center] == ' ' {
			grid[r][center] = ':'
		}
	}
	grid[mid][center] = '+'

	mc, mr := -1, -1
	if present {
		mc = int(math.Round(fcx + math.Max(-1, math.Min(1, cx))*rx))
		mr = int(math.Round(fcy - math.Max(-1, math.Min(1, cy))*ry))
		grid[mr][mc] = '@'
	}

	var sb strings.Builder
	for row := range grid {
		for col, ch := range grid[row] {
			switch {
			case row == mr && col == mc:
				sb.WriteString(StylePadMarker.Render(string(ch)))
			case ch == ' ':
				sb.WriteByte(' ')
			default:
				sb.WriteString(StylePadRing.Render(string(ch)))
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// PanelWidth splits the terminal width between the field and the HUD.
func PanelWidth(total int) (field, hud int) {
	hud = min(max(total/4, 24), 40)
	field = total - hud
	if field < 20 {
		field = 20
		hud = max(total-field, 0)
	}
	return field, hud
}

// centered pads s to width, used for short one-line notices.
func centered(s string, width int) string {
	pad := max(0, (width-lipgloss.Width(s))/2)
	return strings.Repeat(" ", pad) + s
}

// RenderNotice renders a full-screen message, such as the startup screen.
func RenderNotice(width, height int, msg string) string {
	top := max(0, height/2-1)
	return strings.Repeat("\n", top) + centered(StyleValue.Render(msg), width)
}
