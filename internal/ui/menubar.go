package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"particles.klederson.com/internal/config"
	"particles.klederson.com/internal/shape"
)

// RenderMenuBar renders the top menu bar: template keys with the active
// one highlighted, then the hand presence indicator and source name.
func RenderMenuBar(width int, active shape.Template, present bool, source string) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	menu := ""
	for i, t := range shape.Templates() {
		label := StyleMenuLabel.Render(t.Label())
		if t == active {
			label = StyleMenuActive.Render(t.Label())
		}
		menu += "  " + StyleMenuKey.Render(fmt.Sprintf("[%d]", i+1)) + label
	}
	for _, k := range []struct{ key, label string }{
		{"T", "emplate"},
		{"C", "olor"},
		{"Q", "uit"},
	} {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStatusAbsent.Render("NO HAND")
	if present {
		status = StyleStatusPresent.Render("HAND")
	}

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + StyleMenuLabel.Render(source) + " "

	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
