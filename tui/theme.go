package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors of the pricing screen. Colors are ANSI 256
// codes so the screen renders the same in tmux and plain terminals.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Field text that cannot be saved yet, e.g. "" or "-5".
	InProgress lipgloss.Color

	Success lipgloss.Color
	Failure lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	InProgress: lipgloss.Color("220"),

	Success: lipgloss.Color("114"),
	Failure: lipgloss.Color("196"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
}

type styles struct {
	header     lipgloss.Style
	label      lipgloss.Style
	field      lipgloss.Style
	selected   lipgloss.Style
	inProgress lipgloss.Style
	board      lipgloss.Style
	success    lipgloss.Style
	failure    lipgloss.Style
	help       lipgloss.Style
}

func newStyles(theme Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.HeaderForeground).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.BorderColor),
		label:      lipgloss.NewStyle().Width(22).Foreground(theme.NormalText),
		field:      lipgloss.NewStyle().Width(14).Foreground(theme.NormalText),
		selected:   lipgloss.NewStyle().Width(14).Foreground(theme.SelectedForeground).Background(theme.SelectedBackground),
		inProgress: lipgloss.NewStyle().Width(14).Foreground(theme.InProgress),
		board:      lipgloss.NewStyle().Foreground(theme.FaintText),
		success:    lipgloss.NewStyle().Foreground(theme.Success),
		failure:    lipgloss.NewStyle().Foreground(theme.Failure),
		help:       lipgloss.NewStyle().Foreground(theme.HelpText),
	}
}
