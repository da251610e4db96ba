package main

import "github.com/charmbracelet/lipgloss"

var palette = struct {
	text, textMuted, border, selection, accent, warn lipgloss.AdaptiveColor
}{
	text:      lipgloss.AdaptiveColor{Light: "#1f2328", Dark: "#e6edf3"},
	textMuted: lipgloss.AdaptiveColor{Light: "#656d76", Dark: "#8b949e"},
	border:    lipgloss.AdaptiveColor{Light: "#d0d7de", Dark: "#30363d"},
	selection: lipgloss.AdaptiveColor{Light: "#ddf4ff", Dark: "#1f6feb"},
	accent:    lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#e3b341"},
	warn:      lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"},
}

type styles struct {
	app, topBar, topStatus          lipgloss.Style
	columnTitle                     lipgloss.Style
	panel, panelFocused             lipgloss.Style
	sectorRow, sectorCount          lipgloss.Style
	statusBar, statusSeg, statusErr lipgloss.Style
	listItem, listSel               lipgloss.Style
	muted, accent                   lipgloss.Style
	cmdOverlay, cmdPrompt, cmdHint  lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:          base,
		topBar:       base.Copy().Bold(true).Padding(0, 1),
		topStatus:    base.Copy().Foreground(palette.textMuted),
		columnTitle:  base.Copy().Bold(true).Padding(0, 1),
		panel:        base.BorderStyle(panelBorder).BorderForeground(palette.border),
		panelFocused: base.BorderStyle(focusedBorder).BorderForeground(palette.border),
		sectorRow:    base.Copy().Bold(true),
		sectorCount:  base.Copy().Foreground(palette.textMuted),
		statusBar:    base.Padding(0, 1),
		statusSeg:    base.Padding(0, 1).MarginRight(1),
		statusErr:    base.Copy().Padding(0, 1).Foreground(palette.warn),
		listItem:     base.Padding(0, 1),
		listSel:      base.Padding(0, 1).Bold(true),
		muted:        base.Copy().Foreground(palette.textMuted),
		accent:       base.Copy().Foreground(palette.accent),
		cmdOverlay:   base.Border(lipgloss.RoundedBorder()).Padding(1, 2),
		cmdPrompt:    base.Copy().Bold(true),
		cmdHint:      base.Copy().Faint(true),
	}
}
