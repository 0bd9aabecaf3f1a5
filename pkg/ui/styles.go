package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rankdeck/rankdeck/pkg/model"
)

// Adaptive color palette tuned for light and dark terminals.
var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	ColorMale   = lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"}
	ColorFemale = lipgloss.AdaptiveColor{Light: "#D9387F", Dark: "#FF79C6"}
	ColorHeat   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	headerStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorSubtext)

	tabActiveStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(ColorPrimary).
			Underline(true)

	chipStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorSubtext).
			Background(ColorBgSubtle)

	chipActiveStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(ColorBg).
			Background(ColorPrimary)

	rowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	rowSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				Background(ColorBgHighlight)

	groupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorInfo)

	categoryHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	heatStyle = lipgloss.NewStyle().
			Foreground(ColorHeat)

	statsStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Italic(true)

	pageCurrentStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBg).
				Background(ColorPrimary).
				Padding(0, 1)

	pageStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	toastInfoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorBg).
			Background(ColorInfo)

	toastSuccessStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(ColorBg).
				Background(ColorSuccess)

	toastErrorStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorBg).
			Background(ColorDanger)
)

// RenderRankBadge styles a leaderboard position. The top three get the
// warning accent the way the web dashboard gilds its medal slots.
func RenderRankBadge(rank int) string {
	s := lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
	if rank <= 3 {
		s = s.Bold(true).Foreground(ColorWarning)
	} else {
		s = s.Foreground(ColorSubtext)
	}
	return s.Render(itoa(rank))
}

// RenderGenderBadge returns the localized channel label with its accent.
func RenderGenderBadge(g model.Gender) string {
	switch g {
	case model.GenderMale:
		return lipgloss.NewStyle().Foreground(ColorMale).Render(g.Display())
	case model.GenderFemale:
		return lipgloss.NewStyle().Foreground(ColorFemale).Render(g.Display())
	default:
		return mutedStyle.Render(g.Display())
	}
}

// RenderHeatBar draws a proportional bar for a heat magnitude against the
// page maximum. Zero max yields an empty bar.
func RenderHeatBar(value, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = int(value / max * float64(width))
		if filled > width {
			filled = width
		}
		if filled == 0 {
			filled = 1
		}
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return heatStyle.Render(bar)
}
