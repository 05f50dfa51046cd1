package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/tui/styles"
)

// Player renders the floating mini-player card. It is stateless given
// a playback snapshot; everything it shows arrives as an argument.
type Player struct {
	styles styles.Styles
	bar    progress.Model
}

// NewPlayer creates a player component styled for the theme.
func NewPlayer(st styles.Styles) *Player {
	bar := progress.New(
		progress.WithSolidFill(string(st.Palette.Primary)),
		progress.WithoutPercentage(),
	)
	return &Player{styles: st, bar: bar}
}

// Render draws the card for the given snapshot at the given width.
func (p *Player) Render(state core.PlaybackState, width int) string {
	st := p.styles

	if state.Phase == core.PhaseIdle || state.Media == nil {
		return st.Card.Width(width).Render(st.Muted.Render("Nothing playing"))
	}

	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	var rows []string
	if state.Media.Kind == core.KindVideo {
		rows = append(rows, st.Dim.Render("VIDEO · playing in mpv window"))
	}
	rows = append(rows,
		st.StatusIcon(state.IsPlaying())+" "+st.Title.Render(truncate(state.Media.DisplayTitle(), inner-2)),
		"  "+st.Subtitle.Render(truncate(state.Media.DisplayArtist(), inner-2)),
		"",
		p.renderProgress(state, inner),
		"",
		p.renderControls(state),
	)

	card := st.Card.Width(width)
	if state.Phase == core.PhaseHiding {
		card = card.BorderForeground(st.Palette.TextDim)
	}
	return card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (p *Player) renderProgress(state core.PlaybackState, width int) string {
	elapsed := formatSeconds(state.PositionSeconds())
	total := formatSeconds(state.DurationSeconds)
	if state.DurationSeconds <= 0 {
		total = "--:--"
	}

	barWidth := width - len(elapsed) - len(total) - 2
	if barWidth < 10 {
		barWidth = 10
	}
	p.bar.Width = barWidth
	bar := p.bar.ViewAs(state.ProgressPercent / 100)

	return fmt.Sprintf("%s %s %s", p.styles.Dim.Render(elapsed), bar, p.styles.Dim.Render(total))
}

func (p *Player) renderControls(state core.PlaybackState) string {
	st := p.styles

	volume := fmt.Sprintf("vol %3.0f%%", state.Volume*100)
	if state.Muted {
		volume = "muted"
	}

	left := st.FlagIcon("⇄", state.Shuffled) + " " + st.FlagIcon("⟳", state.Repeating)
	right := st.Muted.Render(volume)
	return left + "   " + right
}

// HelpLine renders the key hints under the card.
func (p *Player) HelpLine() string {
	return p.styles.Help.Render("space play · n/b next/prev · ←/→ seek · +/- vol · m mute · s shuf · r rep · h hide · q quit")
}

func formatSeconds(sec float64) string {
	d := time.Duration(sec * float64(time.Second)).Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
