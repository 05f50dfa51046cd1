package styles

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the resolved colors for the active theme.
type Palette struct {
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color
	Playing   lipgloss.Color
	Paused    lipgloss.Color
	Error     lipgloss.Color
}

// ForTheme resolves a theme name to its palette. "auto" and unknown
// names fall back to mocha.
func ForTheme(name string) Palette {
	var flavor catppuccin.Flavor
	switch name {
	case "latte":
		flavor = catppuccin.Latte
	case "frappe":
		flavor = catppuccin.Frappe
	case "macchiato":
		flavor = catppuccin.Macchiato
	default:
		flavor = catppuccin.Mocha
	}

	return Palette{
		Primary:   lipgloss.Color(flavor.Mauve().Hex),
		Accent:    lipgloss.Color(flavor.Peach().Hex),
		Text:      lipgloss.Color(flavor.Text().Hex),
		TextMuted: lipgloss.Color(flavor.Subtext0().Hex),
		TextDim:   lipgloss.Color(flavor.Overlay0().Hex),
		Border:    lipgloss.Color(flavor.Surface1().Hex),
		Playing:   lipgloss.Color(flavor.Green().Hex),
		Paused:    lipgloss.Color(flavor.Yellow().Hex),
		Error:     lipgloss.Color(flavor.Red().Hex),
	}
}

// Styles bundles the lipgloss styles the player renders with.
type Styles struct {
	Palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Dim      lipgloss.Style
	Playing  lipgloss.Style
	Paused   lipgloss.Style
	Card     lipgloss.Style
	Help     lipgloss.Style
}

// New builds the style set for a theme.
func New(theme string) Styles {
	p := ForTheme(theme)
	return Styles{
		Palette:  p,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Subtitle: lipgloss.NewStyle().Foreground(p.TextMuted),
		Muted:    lipgloss.NewStyle().Foreground(p.TextMuted),
		Dim:      lipgloss.NewStyle().Foreground(p.TextDim),
		Playing:  lipgloss.NewStyle().Foreground(p.Playing),
		Paused:   lipgloss.NewStyle().Foreground(p.Paused),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 2),
		Help: lipgloss.NewStyle().Foreground(p.TextDim),
	}
}

// StatusIcon returns an icon for playback status.
func (s Styles) StatusIcon(playing bool) string {
	if playing {
		return s.Playing.Render("▶")
	}
	return s.Paused.Render("⏸")
}

// FlagIcon renders a toggle indicator, dimmed when off.
func (s Styles) FlagIcon(icon string, on bool) string {
	if on {
		return s.Playing.Render(icon)
	}
	return s.Dim.Render(icon)
}
