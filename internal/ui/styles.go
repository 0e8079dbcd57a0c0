package ui

import "github.com/charmbracelet/lipgloss"

// Chrome colors. The particle field itself uses the selected palette color.
var (
	ColorAccent     = lipgloss.Color("#FF3366")
	ColorBright     = lipgloss.Color("#F5F5F5")
	ColorMid        = lipgloss.Color("#9A9AB0")
	ColorDim        = lipgloss.Color("#4A4A5A")
	ColorBarBG      = lipgloss.Color("#16161E")
	ColorBorderNorm = lipgloss.Color("#3A3A4A")
	ColorBorderHot  = lipgloss.Color("#FF3366")
	ColorPresent    = lipgloss.Color("#33FF99")
	ColorAbsent     = lipgloss.Color("#FFAA00")
	ColorError      = lipgloss.Color("#FF3300")
	ColorTurbulent  = lipgloss.Color("#FFCC00")
	ColorGraph      = lipgloss.Color("#33CCFF")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorBarBG).
			Foreground(ColorBright).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorMid)

	StyleMenuActive = lipgloss.NewStyle().
			Foreground(ColorBright).
			Underline(true)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBarBG).
			Foreground(ColorMid).
			Padding(0, 1)

	StyleStatusPresent = lipgloss.NewStyle().
				Foreground(ColorPresent).
				Bold(true)

	StyleStatusAbsent = lipgloss.NewStyle().
				Foreground(ColorAbsent).
				Bold(true)

	StyleStatusError = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderHot)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true).
			Padding(0, 1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMid)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleGraph = lipgloss.NewStyle().
			Foreground(ColorGraph)

	StyleGaugeFill = lipgloss.NewStyle().
			Foreground(ColorAccent)

	StyleGaugeHot = lipgloss.NewStyle().
			Foreground(ColorTurbulent).
			Bold(true)

	StyleGaugeEmpty = lipgloss.NewStyle().
			Foreground(ColorDim)

	StylePadRing = lipgloss.NewStyle().
			Foreground(ColorDim)

	StylePadMarker = lipgloss.NewStyle().
			Foreground(ColorPresent).
			Bold(true)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDim)
)
