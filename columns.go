package main

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/routeview"
)

type column interface {
	SetSize(width, height int)
	Update(msg tea.Msg) (column, tea.Cmd)
	View(styles styles, focused bool) string
	Title() string
	FocusValue() string
}

// routesTable renders a routeview.View. In compact mode only select and
// name keep their own columns and everything else folds into one details
// column.
type routesTable struct {
	title  string
	table  table.Model
	width  int
	height int
	cellPx int
	view   routeview.View
	rows   []routeview.Row
	empty  string
}

func newRoutesTable(title string, cellPx int) *routesTable {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tStyles := table.DefaultStyles()
	tStyles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.textMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(palette.border).
		BorderBottom(true).
		Padding(0, 1)
	tStyles.Cell = lipgloss.NewStyle().Padding(0, 1)
	tStyles.Selected = lipgloss.NewStyle().
		Foreground(palette.text).
		Background(palette.selection)
	t.SetStyles(tStyles)

	return &routesTable{
		title:  title,
		table:  t,
		cellPx: cellPx,
		empty:  "Ni smeri.",
	}
}

func (c *routesTable) SetTitle(title string) {
	c.title = title
}

// SetView replaces the rows. The cursor stays on the same route or sector
// when it is still listed.
func (c *routesTable) SetView(v routeview.View) {
	prev, hadPrev := c.SelectedRow()
	c.view = v
	c.rows = v.Rows
	c.layout()
	if !hadPrev {
		return
	}
	for i, r := range c.rows {
		if sameRow(r, prev) {
			c.table.SetCursor(i)
			return
		}
	}
}

func sameRow(a, b routeview.Row) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == routeview.RowSector {
		return a.SectorIndex == b.SectorIndex
	}
	return a.Route.ID == b.Route.ID
}

func (c *routesTable) displayColumns() []columns.Column {
	if !c.view.Compact {
		return c.view.Columns
	}
	var out []columns.Column
	for _, col := range c.view.Columns {
		if col.Name == columns.Select || col.Name == columns.Name {
			out = append(out, col)
		}
	}
	return append(out, columns.Column{Name: detailsHeader, Label: detailsHeader, Width: 20 * c.cellPx})
}

func (c *routesTable) layout() {
	cols := c.displayColumns()
	widths := layoutWidths(cols, c.cellPx, c.width-2)

	tcols := make([]table.Column, len(cols))
	for i, col := range cols {
		tcols[i] = table.Column{Title: fitCell(col.Header(), widths[i]), Width: widths[i]}
	}
	rows := make([]table.Row, len(c.rows))
	for i, r := range c.rows {
		cells := make(table.Row, len(cols))
		for j, col := range cols {
			var v string
			if col.Name == detailsHeader {
				v = compactDetails(c.view.Columns, r)
			} else {
				v = cellValue(col, r)
			}
			cells[j] = fitCell(v, widths[j])
		}
		rows[i] = cells
	}
	// Rows must match the new column count before the columns change.
	c.table.SetRows(nil)
	c.table.SetColumns(tcols)
	c.table.SetRows(rows)
	if cur := c.table.Cursor(); cur >= len(rows) {
		c.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (c *routesTable) SetSize(width, height int) {
	if width < 24 {
		width = 24
	}
	if height < 6 {
		height = 6
	}
	c.width = width
	c.height = height
	c.table.SetWidth(width - 2)
	c.table.SetHeight(height - 3)
	c.layout()
}

func (c *routesTable) SelectedRow() (routeview.Row, bool) {
	cursor := c.table.Cursor()
	if cursor < 0 || cursor >= len(c.rows) {
		return routeview.Row{}, false
	}
	return c.rows[cursor], true
}

func (c *routesTable) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

func (c *routesTable) View(s styles, focused bool) string {
	title := s.columnTitle.Render(c.title)
	var body string
	if len(c.rows) == 0 {
		body = s.muted.Copy().Padding(0, 1).Render(c.empty)
	} else {
		body = c.table.View()
	}
	content := lipgloss.JoinVertical(lipgloss.Left, title, body)
	if focused {
		return s.panelFocused.Width(c.width - 2).Render(content)
	}
	return s.panel.Width(c.width - 2).Render(content)
}

func (c *routesTable) Title() string {
	return c.title
}

func (c *routesTable) FocusValue() string {
	r, ok := c.SelectedRow()
	if !ok {
		return ""
	}
	if r.Kind == routeview.RowSector {
		return r.Sector
	}
	return r.Route.Name
}

// infoColumn shows the rendered crag description.
type infoColumn struct {
	title   string
	width   int
	height  int
	content string
	view    viewport.Model
}

func newInfoColumn(title string, width int) *infoColumn {
	return &infoColumn{
		title: title,
		view:  viewport.New(width, 20),
	}
}

func (p *infoColumn) SetSize(width, height int) {
	p.width = width
	if height < 3 {
		height = 3
	}
	p.height = height
	p.view.Width = width - 2
	p.view.Height = height - 3
}

func (p *infoColumn) SetContent(content string) {
	p.content = content
	p.view.SetContent(content)
}

func (p *infoColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return p, cmd
}

func (p *infoColumn) View(s styles, focused bool) string {
	header := s.columnTitle.Render(p.title)
	body := header + "\n" + p.view.View()
	if focused {
		return s.panelFocused.Width(p.width - 2).Render(body)
	}
	return s.panel.Width(p.width - 2).Render(body)
}

func (p *infoColumn) Title() string {
	return p.title
}

func (p *infoColumn) FocusValue() string {
	return ""
}
