package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/config"
)

// infoRenderer turns crag descriptions into terminal output. The glamour
// renderer is rebuilt lazily after the wrap width or the theme changes.
type infoRenderer struct {
	theme string
	wrap  int
	tr    *glamour.TermRenderer
}

func newInfoRenderer(theme string) *infoRenderer {
	return &infoRenderer{theme: config.NormalizeTheme(theme), wrap: 80}
}

func (ir *infoRenderer) SetWrap(width int) {
	width = max(width, 0)
	if width != ir.wrap {
		ir.wrap = width
		ir.tr = nil
	}
}

// NextTheme switches to the following theme in config.Themes and returns it.
func (ir *infoRenderer) NextTheme() string {
	i := slices.Index(config.Themes, ir.theme)
	ir.theme = config.Themes[(i+1)%len(config.Themes)]
	ir.tr = nil
	return ir.theme
}

// Render falls back to the raw markdown when glamour fails.
func (ir *infoRenderer) Render(c *catalog.Crag) string {
	md := cragMarkdown(c)
	if ir.tr == nil {
		style := glamour.WithStandardStyle(ir.theme)
		if ir.theme == config.ThemeAuto {
			style = glamour.WithAutoStyle()
		}
		tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(ir.wrap))
		if err != nil {
			return md
		}
		ir.tr = tr
	}
	out, err := ir.tr.Render(md)
	if err != nil {
		return md
	}
	return out
}

// cragMarkdown describes a crag: name, country, description and a sector
// table with route counts.
func cragMarkdown(c *catalog.Crag) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Name)
	if c.Country != "" {
		fmt.Fprintf(&b, "_%s_\n\n", c.Country)
	}
	if d := strings.TrimSpace(c.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}
	b.WriteString("| Sektor | Smeri |\n|---|---:|\n")
	for _, s := range c.Sectors {
		fmt.Fprintf(&b, "| %s | %d |\n", s.Title(), len(s.Routes))
	}
	return b.String()
}
