package ui

import "github.com/charmbracelet/lipgloss"

// RenderFieldPanel wraps the rendered particle field with a border that
// lights up while a hand is tracked.
func RenderFieldPanel(width, height int, field string, present bool) string {
	style := StylePanelBorder
	if present {
		style = StylePanelActive
	}
	return style.Width(width - 2).Height(height - 2).Render(field)
}

// ComposeLayout joins the field panel and HUD horizontally, with the menu
// bar on top and the status bar at the bottom.
func ComposeLayout(menuBar, fieldPanel, hud, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, fieldPanel, hud)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
