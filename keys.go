package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit        key.Binding
	nextFocus   key.Binding
	activate    key.Binding
	search      key.Binding
	pickColumns key.Binding
	pickSort    key.Binding
	pickTouches key.Binding
	pickStars   key.Binding
	difficulty  key.Binding
	clearFilter key.Binding
	combine     key.Binding
	expandAll   key.Binding
	collapseAll key.Binding
	logAscent   key.Binding
	copyURL     key.Binding
	reset       key.Binding
	toggleInfo  key.Binding
	cycleTheme  key.Binding
	closeInput  key.Binding
	toggleHelp  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open/close sector"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search (=expr)"),
		),
		pickColumns: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "columns"),
		),
		pickSort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
		pickTouches: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "my ascents filter"),
		),
		pickStars: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "beauty filter"),
		),
		difficulty: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "difficulty range"),
		),
		clearFilter: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filter"),
		),
		combine: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "combine sectors"),
		),
		expandAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand all"),
		),
		collapseAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "collapse all"),
		),
		logAscent: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "log ascent"),
		),
		copyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset view"),
		),
		toggleInfo: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "crag info"),
		),
		cycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		closeInput: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.activate,
		k.search,
		k.pickColumns,
		k.pickSort,
		k.combine,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.activate, k.expandAll, k.collapseAll, k.combine},
		{k.search, k.pickTouches, k.pickStars, k.difficulty, k.clearFilter},
		{k.pickColumns, k.pickSort, k.reset},
		{k.logAscent, k.copyURL, k.toggleInfo, k.cycleTheme},
		{k.nextFocus, k.toggleHelp, k.quit},
	}
}
