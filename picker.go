package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

type pickerKind int

const (
	pickerNone pickerKind = iota
	pickerColumns
	pickerSort
	pickerTouches
	pickerStars
	pickerAscent
)

// multi pickers toggle entries and stay open; the others apply one choice
// and close.
func (k pickerKind) multi() bool {
	return k == pickerColumns || k == pickerStars
}

type pickerEntry struct {
	title   string
	desc    string
	value   string
	dir     viewstate.Direction
	checked bool
	multi   bool
}

func (e pickerEntry) Title() string {
	if !e.multi {
		if e.checked {
			return "● " + e.title
		}
		return "  " + e.title
	}
	if e.checked {
		return "[x] " + e.title
	}
	return "[ ] " + e.title
}
func (e pickerEntry) Description() string { return e.desc }
func (e pickerEntry) FilterValue() string { return e.title }

type picker struct {
	kind  pickerKind
	title string
	model list.Model
}

func newPicker(kind pickerKind, title string, entries []pickerEntry, s styles) *picker {
	items := make([]list.Item, len(entries))
	selected := 0
	for i, e := range entries {
		e.multi = kind.multi()
		items[i] = e
		if e.checked && !e.multi && selected == 0 {
			selected = i
		}
	}
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.listSel.Copy().Foreground(palette.accent)
	delegate.Styles.SelectedDesc = s.listSel.Copy().Foreground(palette.textMuted)
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Copy().Foreground(palette.textMuted)

	m := list.New(items, delegate, 40, 16)
	m.Title = title
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	m.SetShowPagination(true)
	m.Select(selected)
	return &picker{kind: kind, title: title, model: m}
}

func (p *picker) SetSize(width, height int) {
	p.model.SetSize(width, height)
}

func (p *picker) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.model, cmd = p.model.Update(msg)
	return cmd
}

func (p *picker) Selected() (pickerEntry, bool) {
	e, ok := p.model.SelectedItem().(pickerEntry)
	return e, ok
}

// SetEntries refreshes check marks after a toggle and keeps the cursor.
func (p *picker) SetEntries(entries []pickerEntry) {
	idx := p.model.Index()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		e.multi = p.kind.multi()
		items[i] = e
	}
	p.model.SetItems(items)
	p.model.Select(min(idx, max(len(items)-1, 0)))
}

func (p *picker) View(s styles) string {
	hint := "enter choose • esc close"
	if p.kind.multi() {
		hint = "enter toggle • esc close"
	}
	return lipgloss.JoinVertical(lipgloss.Left, p.model.View(), s.cmdHint.Render(hint))
}

func columnEntries(reg *columns.Registry, st viewstate.ViewState) []pickerEntry {
	opts := reg.OptionalColumns()
	out := make([]pickerEntry, 0, len(opts))
	for _, c := range opts {
		out = append(out, pickerEntry{
			title:   c.Label,
			value:   c.Name,
			checked: st.HasColumn(c.Name),
		})
	}
	return out
}

func sortEntries(reg *columns.Registry, st viewstate.ViewState) []pickerEntry {
	var out []pickerEntry
	for _, c := range reg.SortableColumns() {
		label := c.SortLabel
		if label == "" {
			label = c.Label
		}
		for _, dir := range []viewstate.Direction{viewstate.Asc, viewstate.Desc} {
			dirLabel := c.SortAscLabel
			if dir == viewstate.Desc {
				dirLabel = c.SortDescLabel
			}
			title := label
			if dirLabel != "" {
				title += ", " + dirLabel
			}
			out = append(out, pickerEntry{
				title:   title,
				value:   c.Name,
				dir:     dir,
				checked: st.Sort != nil && st.Sort.Column == c.Name && st.Sort.Direction == dir,
			})
		}
	}
	return out
}

var touchesLabels = []struct {
	value viewstate.RoutesTouches
	label string
}{
	{"", "Vse smeri"},
	{viewstate.TouchesTicked, "Preplezane"},
	{viewstate.TouchesTried, "Poskušene"},
	{viewstate.TouchesUnticked, "Nepreplezane"},
	{viewstate.TouchesUntried, "Neposkušene"},
}

func touchesEntries(st viewstate.ViewState) []pickerEntry {
	cur := viewstate.RoutesTouches("")
	if st.Filter != nil {
		cur = st.Filter.RoutesTouches
	}
	out := make([]pickerEntry, 0, len(touchesLabels))
	for _, t := range touchesLabels {
		out = append(out, pickerEntry{title: t.label, value: string(t.value), checked: cur == t.value})
	}
	return out
}

const (
	starsMarvelous    = "marvelous"
	starsBeautiful    = "beautiful"
	starsUnremarkable = "unremarkable"
)

func starEntries(st viewstate.ViewState) []pickerEntry {
	var cur viewstate.StarRating
	if st.Filter != nil && st.Filter.StarRating != nil {
		cur = *st.Filter.StarRating
	}
	return []pickerEntry{
		{title: "★★ Čudovita", value: starsMarvelous, checked: cur.Marvelous},
		{title: "★ Lepa", value: starsBeautiful, checked: cur.Beautiful},
		{title: "Običajna", value: starsUnremarkable, checked: cur.Unremarkable},
	}
}

func ascentEntries(current ascents.Type) []pickerEntry {
	out := make([]pickerEntry, 0, len(ascents.Types))
	for _, t := range ascents.Types {
		out = append(out, pickerEntry{
			title:   strings.TrimSpace(t.Glyph() + " " + t.Label()),
			value:   string(t),
			checked: t == current,
		})
	}
	return out
}

// withFilter returns the filter of a state snapshot for modification.
func withFilter(st viewstate.ViewState) viewstate.FilterOptions {
	if st.Filter == nil {
		return viewstate.FilterOptions{}
	}
	return *st.Filter
}
