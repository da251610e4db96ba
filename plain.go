package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/bekirdag/cragbook/internal/routeview"
)

// renderPlain prints the route list as aligned text, one row per line.
// Sector headers are printed as their own line in the grouped view.
func renderPlain(w io.Writer, v routeview.View, cellPx int) error {
	bw := bufio.NewWriter(w)
	widths := layoutWidths(v.Columns, cellPx, 0)
	for i, c := range v.Columns {
		// Plain output has no width limit, so grow columns to their content.
		for _, r := range v.Rows {
			if r.Kind == routeview.RowRoute {
				widths[i] = max(widths[i], runewidth.StringWidth(cellValue(c, r)))
			}
		}
	}

	header := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		header[i] = runewidth.FillRight(c.Header(), widths[i])
	}
	fmt.Fprintln(bw, strings.TrimRight(strings.Join(header, "  "), " "))

	for _, r := range v.Rows {
		if r.Kind == routeview.RowSector {
			marker := "▸"
			if r.Expanded {
				marker = "▾"
			}
			fmt.Fprintf(bw, "%s %s (%d)\n", marker, r.Sector, r.RouteCount)
			continue
		}
		cells := make([]string, len(v.Columns))
		for i, c := range v.Columns {
			cells[i] = runewidth.FillRight(cellValue(c, r), widths[i])
		}
		fmt.Fprintln(bw, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	if v.SearchErr != nil {
		fmt.Fprintf(bw, "search: %v\n", v.SearchErr)
	}
	fmt.Fprintf(bw, "%d/%d\n", v.Shown, v.Total)
	return bw.Flush()
}
