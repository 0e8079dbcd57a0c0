package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"particles.klederson.com/internal/render"
	"particles.klederson.com/internal/scene"
)

// RenderStatusBar renders the bottom status bar. A non-empty errMsg
// replaces the mode tag.
func RenderStatusBar(width int, snap scene.Snapshot, visible int, fps float64, errMsg string) string {
	tag := StyleStatusAbsent.Render("[IDLE]")
	switch {
	case errMsg != "":
		tag = StyleStatusError.Render("[" + errMsg + "]")
	case snap.Metrics.Present:
		tag = StyleStatusPresent.Render("[TRACKING]")
	}

	info := fmt.Sprintf(" %s  Particles: %d/%d  Tension: %.2f  Expand: %.2fx  Yaw: %3ddeg  Pitch: %+.2f  FPS: %.0f  Frame: %d",
		snap.Color.Hex(), visible, snap.Particles, snap.Metrics.Tension, snap.Expansion,
		int(render.Degrees(snap.Rotation.Yaw)), snap.Rotation.Pitch, fps, snap.Frame)

	content := tag + StyleStatusBar.Render(info)

	gap := max(0, width-lipgloss.Width(content)-2)
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
