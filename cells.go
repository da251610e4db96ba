package main

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/routeview"
)

const (
	detailsHeader = "Podatki"
	minNameCells  = 12
)

// cellValue renders one cell of a route or sector header row.
func cellValue(c columns.Column, r routeview.Row) string {
	if r.Kind == routeview.RowSector {
		switch c.Name {
		case columns.Select:
			if r.Expanded {
				return "▾"
			}
			return "▸"
		case columns.Name:
			return r.Sector + " (" + strconv.Itoa(r.RouteCount) + ")"
		}
		return ""
	}

	route := r.Route
	switch c.Name {
	case columns.Select:
		return strconv.Itoa(r.Position)
	case columns.Sector:
		return r.Sector
	case columns.Name:
		return route.Name
	case columns.Difficulty:
		if route.Grade != "" {
			return route.Grade
		}
		if route.Difficulty != nil {
			return strconv.FormatFloat(*route.Difficulty, 'f', -1, 64)
		}
		return ""
	case columns.Length:
		if route.Length == nil {
			return ""
		}
		return strconv.FormatFloat(*route.Length, 'f', -1, 64) + " m"
	case columns.NrTicks:
		return strconv.Itoa(route.NrTicks)
	case columns.NrTries:
		return strconv.Itoa(route.NrTries)
	case columns.NrClimbers:
		return strconv.Itoa(route.NrClimbers)
	case columns.StarRating:
		return strings.Repeat("★", max(route.StarRating, 0))
	case columns.Comments:
		if route.NrComments == 0 {
			return ""
		}
		return "✎ " + strconv.Itoa(route.NrComments)
	case columns.MyAscents:
		if !r.HasAscent() {
			return ""
		}
		return r.Ascent.Glyph()
	}
	return ""
}

// compactDetails joins the cells of every visible column except select and
// name into a single labelled line for the compact layout.
func compactDetails(cols []columns.Column, r routeview.Row) string {
	if r.Kind == routeview.RowSector {
		return ""
	}
	var parts []string
	for _, c := range cols {
		if c.Name == columns.Select || c.Name == columns.Name {
			continue
		}
		v := cellValue(c, r)
		if v == "" {
			continue
		}
		switch c.Name {
		case columns.Difficulty, columns.Length, columns.Sector, columns.StarRating, columns.Comments, columns.MyAscents:
			parts = append(parts, v)
		default:
			label := c.Icon
			if label == "" {
				label = c.Header()
			}
			parts = append(parts, label+" "+v)
		}
	}
	return strings.Join(parts, " · ")
}

// naturalCells converts a registry pixel width to terminal cells, never
// narrower than the header.
func naturalCells(c columns.Column, cellPx int) int {
	if cellPx <= 0 {
		cellPx = 8
	}
	n := c.Width / cellPx
	if w := runewidth.StringWidth(c.Header()); w > n {
		n = w
	}
	return max(n, 1)
}

// layoutWidths fits the natural widths into avail cells. Every column is
// padded by one cell on both sides. The name column absorbs the difference.
func layoutWidths(cols []columns.Column, cellPx, avail int) []int {
	widths := make([]int, len(cols))
	nameIdx := -1
	used := 0
	for i, c := range cols {
		widths[i] = naturalCells(c, cellPx)
		if c.Name == columns.Name {
			nameIdx = i
		}
		used += widths[i] + 2
	}
	if nameIdx < 0 || avail <= 0 {
		return widths
	}
	widths[nameIdx] = max(widths[nameIdx]+avail-used, minNameCells)
	return widths
}

func fitCell(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
