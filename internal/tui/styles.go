package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ignatzorin/quickfix/internal/session"
)

type palette struct {
	fg, muted, accent, danger, ok, border lipgloss.Color
}

var (
	lightPalette = palette{
		fg:     lipgloss.Color("#1f2328"),
		muted:  lipgloss.Color("#6e7781"),
		accent: lipgloss.Color("#0969da"),
		danger: lipgloss.Color("#cf222e"),
		ok:     lipgloss.Color("#1a7f37"),
		border: lipgloss.Color("#d0d7de"),
	}
	darkPalette = palette{
		fg:     lipgloss.Color("#e6edf3"),
		muted:  lipgloss.Color("#8b949e"),
		accent: lipgloss.Color("#58a6ff"),
		danger: lipgloss.Color("#f85149"),
		ok:     lipgloss.Color("#3fb950"),
		border: lipgloss.Color("#30363d"),
	}
)

// styles: набор стилей для текущей темы. Пересобирается при переключении темы.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	badge    lipgloss.Style
	panel    lipgloss.Style
	notice   lipgloss.Style
	errText  lipgloss.Style
	help     lipgloss.Style
}

func newStyles(theme session.Theme) styles {
	p := lightPalette
	if theme == session.ThemeDark {
		p = darkPalette
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		subtitle: lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		text:     lipgloss.NewStyle().Foreground(p.fg),
		muted:    lipgloss.NewStyle().Foreground(p.muted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		label:    lipgloss.NewStyle().Foreground(p.muted).Width(18),
		focused:  lipgloss.NewStyle().Foreground(p.accent).Width(18),
		badge:    lipgloss.NewStyle().Bold(true).Foreground(p.ok),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		notice:  lipgloss.NewStyle().Foreground(p.ok),
		errText: lipgloss.NewStyle().Foreground(p.danger),
		help:    lipgloss.NewStyle().Foreground(p.muted),
	}
}
