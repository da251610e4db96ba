// Package columns holds the static registry of columns a crag route list can display.
package columns

import (
	"errors"
	"fmt"
)

const (
	Select     = "select"
	Sector     = "sector"
	Name       = "name"
	Difficulty = "difficulty"
	Length     = "length"
	NrTicks    = "nrTicks"
	NrTries    = "nrTries"
	NrClimbers = "nrClimbers"
	StarRating = "starRating"
	Comments   = "comments"
	MyAscents  = "myAscents"
)

// DisplayContext carries what a column's display condition may depend on.
type DisplayContext struct {
	Combined bool
}

// Column describes one displayable column. Width is expressed in pixels.
type Column struct {
	Name             string
	Label            string
	ShortLabel       string
	SortLabel        string
	SortAscLabel     string
	SortDescLabel    string
	ExcludeFromSort  bool
	Icon             string
	IsOptional       bool
	IsDefault        bool
	DisplayCondition func(ctx DisplayContext) bool
	Width            int
}

// Displayed reports whether the column is rendered in the given context.
func (c Column) Displayed(ctx DisplayContext) bool {
	if c.DisplayCondition == nil {
		return true
	}
	return c.DisplayCondition(ctx)
}

// Header returns the short label when one exists.
func (c Column) Header() string {
	if c.ShortLabel != "" {
		return c.ShortLabel
	}
	return c.Label
}

// Registry is an ordered, immutable set of columns.
type Registry struct {
	cols  []Column
	index map[string]int
}

var errMissingRequired = errors.New("registry requires non-optional default columns \"select\" and \"name\"")

// NewRegistry validates the column list and builds a registry.
func NewRegistry(cols ...Column) (*Registry, error) {
	r := &Registry{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for _, c := range cols {
		if c.Name == "" {
			return nil, errors.New("column without a name")
		}
		if _, ok := r.index[c.Name]; ok {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		if c.Width < 0 {
			return nil, fmt.Errorf("column %q has negative width", c.Name)
		}
		r.index[c.Name] = len(r.cols)
		r.cols = append(r.cols, c)
	}
	for _, name := range []string{Select, Name} {
		c, ok := r.Lookup(name)
		if !ok || c.IsOptional || !c.IsDefault {
			return nil, errMissingRequired
		}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid column list.
func MustRegistry(cols ...Column) *Registry {
	r, err := NewRegistry(cols...)
	if err != nil {
		panic(err)
	}
	return r
}

// Columns returns a copy of all columns in registry order.
func (r *Registry) Columns() []Column {
	return append([]Column(nil), r.cols...)
}

func (r *Registry) Lookup(name string) (Column, bool) {
	i, ok := r.index[name]
	if !ok {
		return Column{}, false
	}
	return r.cols[i], true
}

// DefaultColumns returns the names of default-on columns in registry order.
func (r *Registry) DefaultColumns() []string {
	var names []string
	for _, c := range r.cols {
		if c.IsDefault {
			names = append(names, c.Name)
		}
	}
	return names
}

// OptionalColumns returns the columns a column picker may offer.
func (r *Registry) OptionalColumns() []Column {
	var out []Column
	for _, c := range r.cols {
		if c.IsOptional {
			out = append(out, c)
		}
	}
	return out
}

// Required returns the names of non-optional columns in registry order.
func (r *Registry) Required() []string {
	var names []string
	for _, c := range r.cols {
		if !c.IsOptional {
			names = append(names, c.Name)
		}
	}
	return names
}

// WidthOf sums the widths of the selected columns. Unknown names contribute 0
// and repeated names are counted once.
func (r *Registry) WidthOf(selected []string) int {
	seen := make(map[string]struct{}, len(selected))
	total := 0
	for _, name := range selected {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if c, ok := r.Lookup(name); ok {
			total += c.Width
		}
	}
	return total
}

// Sortable reports whether a sort may reference the named column.
func (r *Registry) Sortable(name string) bool {
	c, ok := r.Lookup(name)
	return ok && !c.ExcludeFromSort
}

func (r *Registry) SortableColumns() []Column {
	var out []Column
	for _, c := range r.cols {
		if !c.ExcludeFromSort {
			out = append(out, c)
		}
	}
	return out
}

// Normalize turns an arbitrary name list into a valid selection: unknown and
// repeated names are dropped and missing non-optional columns are prepended in
// registry order. The order of the remaining names is kept.
func (r *Registry) Normalize(selected []string) []string {
	seen := make(map[string]struct{}, len(selected))
	kept := make([]string, 0, len(selected))
	for _, name := range selected {
		if _, ok := r.index[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		kept = append(kept, name)
	}

	var missing []string
	for _, name := range r.Required() {
		if _, ok := seen[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return kept
	}
	return append(missing, kept...)
}

// Visible returns the selected columns that render in ctx, in selection order.
func (r *Registry) Visible(selected []string, ctx DisplayContext) []Column {
	var out []Column
	for _, name := range selected {
		c, ok := r.Lookup(name)
		if !ok || !c.Displayed(ctx) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Default returns the registry used by the crag route list.
func Default() *Registry {
	return defaultRegistry
}

var defaultRegistry = MustRegistry(
	Column{
		Name:          Select,
		Label:         "#",
		SortAscLabel:  "Od leve proti desni",
		SortDescLabel: "Od desne proti levi",
		IsDefault:     true,
		Width:         64,
	},
	Column{
		Name:             Sector,
		Label:            "Sektor",
		ExcludeFromSort:  true,
		IsDefault:        true,
		DisplayCondition: func(ctx DisplayContext) bool { return ctx.Combined },
		Width:            100,
	},
	Column{
		Name:          Name,
		Label:         "Ime",
		SortLabel:     "Po abecedi",
		SortAscLabel:  "naraščajoče",
		SortDescLabel: "padajoče",
		IsDefault:     true,
		Width:         100,
	},
	Column{
		Name:          Difficulty,
		Label:         "Težavnost",
		SortLabel:     "Po težavnosti",
		SortAscLabel:  "naraščajoče",
		SortDescLabel: "padajoče",
		IsOptional:    true,
		IsDefault:     true,
		Width:         130,
	},
	Column{
		Name:          Length,
		Label:         "Dolžina",
		SortLabel:     "Po dolžini",
		SortAscLabel:  "naraščajoče",
		SortDescLabel: "padajoče",
		IsOptional:    true,
		IsDefault:     true,
		Width:         100,
	},
	Column{
		Name:          NrTicks,
		Label:         "Št. uspešnih vzponov",
		ShortLabel:    "Št. vzponov",
		SortLabel:     "Po št. vzponov",
		SortAscLabel:  "naraščajoče",
		SortDescLabel: "padajoče",
		IsOptional:    true,
		Width:         160,
	},
	Column{
		Name:          NrTries,
		Label:         "Št. poskusov",
		SortLabel:     "Po št. poskusov",
		SortAscLabel:  "naraščajoče",
		SortDescLabel: "padajoče",
		IsOptional:    true,
		Width:         100,
	},
	Column{
		Name:          NrClimbers,
		Label:         "Št. plezalcev",
		SortLabel:     "Po št. plezalcev",
		SortAscLabel:  "naraščajoče",
		SortDescLabel: "padajoče",
		IsOptional:    true,
		Width:         99,
	},
	Column{
		Name:          StarRating,
		Label:         "Lepota",
		SortLabel:     "Po lepoti",
		SortAscLabel:  "naraščajoče",
		SortDescLabel: "padajoče",
		Icon:          "★",
		IsOptional:    true,
		IsDefault:     true,
		Width:         52,
	},
	Column{
		Name:          Comments,
		Label:         "Komentarji",
		SortAscLabel:  "S komentarji najprej",
		SortDescLabel: "Brez komentarjev najprej",
		Icon:          "✎",
		IsOptional:    true,
		IsDefault:     true,
		Width:         52,
	},
	Column{
		Name:          MyAscents,
		Label:         "Moji vzponi",
		SortAscLabel:  "Z mojimi vzponi najprej",
		SortDescLabel: "Brez mojih vzponov najprej",
		Icon:          "✓",
		IsOptional:    true,
		IsDefault:     true,
		Width:         52,
	},
)
