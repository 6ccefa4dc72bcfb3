package timer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lifeinfocus/focus/internal/config"
	"github.com/lifeinfocus/focus/internal/session"
)

type style struct {
	phase     map[session.Phase]lipgloss.Style
	base      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	errorText lipgloss.Style
}

func newStyle(cfg *config.Config) style {
	text := lipgloss.Color("#2B2B2B")
	hint := lipgloss.Color("#767676")

	if cfg.Display.DarkTheme {
		text = lipgloss.Color("#F2F2F2")
		hint = lipgloss.Color("#9B9B9B")
	}

	label := func(p session.Phase) lipgloss.Style {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color(cfg.Phase(p).Color)).
			Padding(0, 1).
			MarginRight(1).
			SetString(p.String())
	}

	return style{
		phase: map[session.Phase]lipgloss.Style{
			session.Work:      label(session.Work),
			session.Break:     label(session.Break),
			session.LongBreak: label(session.LongBreak),
		},
		base:      lipgloss.NewStyle().Padding(1, padding),
		main:      lipgloss.NewStyle().Bold(true).Foreground(text),
		secondary: lipgloss.NewStyle().Foreground(text),
		hint:      lipgloss.NewStyle().Foreground(hint),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color("#E84855")),
	}
}
