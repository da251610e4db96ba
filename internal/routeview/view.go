// Package routeview derives the rows a crag route list shows from the crag,
// the view state, the ascent overlay and the sector expansion.
package routeview

import (
	"cmp"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

type RowKind int

const (
	RowRoute RowKind = iota
	RowSector
)

// Row is either a sector header or a route. Sector headers carry the number
// of that sector's routes that pass the filter and search.
type Row struct {
	Kind        RowKind
	SectorIndex int
	Sector      string
	Expanded    bool
	RouteCount  int

	Route    catalog.Route
	Position int
	Ascent   ascents.Type
}

// HasAscent reports whether the signed-in climber has logged the route.
func (r Row) HasAscent() bool { return r.Ascent != "" }

type View struct {
	Combined bool
	Compact  bool
	Columns  []columns.Column
	Rows     []Row
	// Total is the crag's route count, Shown the number of route rows that
	// pass filter and search regardless of sector expansion.
	Total     int
	Shown     int
	SearchErr error
}

// Routes returns only the route rows.
func (v View) Routes() []Row {
	out := make([]Row, 0, len(v.Rows))
	for _, r := range v.Rows {
		if r.Kind == RowRoute {
			out = append(out, r)
		}
	}
	return out
}

// Expansion answers whether a sector, by index, is expanded.
type Expansion interface {
	IsExpanded(index int) bool
}

// Combined reports whether the list is flat rather than grouped by sector.
func Combined(crag *catalog.Crag, st viewstate.ViewState) bool {
	return st.Combine || st.Search.Active() || (crag != nil && len(crag.Sectors) == 1)
}

// Build derives the list. A nil expansion treats every sector as collapsed.
func Build(crag *catalog.Crag, st viewstate.ViewState, overlay ascents.Overlay, exp Expansion, reg *columns.Registry) View {
	v := View{Compact: st.Compact}
	if crag == nil {
		return v
	}
	v.Combined = Combined(crag, st)
	v.Columns = reg.Visible(st.SelectedColumns, columns.DisplayContext{Combined: v.Combined})
	v.Total = crag.RouteCount()

	all := make([]Row, 0, v.Total)
	for si, s := range crag.Sectors {
		for _, r := range s.Routes {
			at, _ := overlay.Lookup(r.ID)
			all = append(all, Row{
				Kind:        RowRoute,
				SectorIndex: si,
				Sector:      s.Title(),
				Route:       r,
				Position:    len(all) + 1,
				Ascent:      at,
			})
		}
	}

	rows := all[:0:0]
	for _, r := range all {
		if Matches(r.Route, st.Filter, overlay) {
			rows = append(rows, r)
		}
	}
	if st.Search.Active() {
		rows, v.SearchErr = search(rows, st.Search.Query, overlay)
	}
	v.Shown = len(rows)

	if v.Combined {
		sortRows(rows, st.Sort)
		v.Rows = rows
		return v
	}

	bySector := make([][]Row, len(crag.Sectors))
	for _, r := range rows {
		bySector[r.SectorIndex] = append(bySector[r.SectorIndex], r)
	}
	for si, s := range crag.Sectors {
		expanded := exp != nil && exp.IsExpanded(si)
		v.Rows = append(v.Rows, Row{
			Kind:        RowSector,
			SectorIndex: si,
			Sector:      s.Title(),
			Expanded:    expanded,
			RouteCount:  len(bySector[si]),
		})
		if !expanded {
			continue
		}
		sortRows(bySector[si], st.Sort)
		v.Rows = append(v.Rows, bySector[si]...)
	}
	return v
}

// Matches reports whether a route passes the filter.
func Matches(r catalog.Route, f *viewstate.FilterOptions, overlay ascents.Overlay) bool {
	if !f.Active() {
		return true
	}
	if f.RoutesTouches != "" {
		at, tried := overlay.Lookup(r.ID)
		ticked := tried && at.IsTick()
		switch f.RoutesTouches {
		case viewstate.TouchesTicked:
			if !ticked {
				return false
			}
		case viewstate.TouchesUnticked:
			if ticked {
				return false
			}
		case viewstate.TouchesTried:
			if !tried {
				return false
			}
		case viewstate.TouchesUntried:
			if tried {
				return false
			}
		}
	}
	if f.Difficulty != nil {
		if r.Difficulty == nil || !f.Difficulty.Contains(*r.Difficulty) {
			return false
		}
	}
	if f.StarRating != nil && f.StarRating.Any() {
		switch r.StarRating {
		case 2:
			return f.StarRating.Marvelous
		case 1:
			return f.StarRating.Beautiful
		default:
			return f.StarRating.Unremarkable
		}
	}
	return true
}

func search(rows []Row, query string, overlay ascents.Overlay) ([]Row, error) {
	m, err := compileQuery(query)
	if err != nil {
		return nil, err
	}
	routes := make([]catalog.Route, len(rows))
	for i, r := range rows {
		routes[i] = r.Route
	}
	keep, err := m.match(routes, overlay)
	if err != nil {
		return nil, err
	}
	out := rows[:0:0]
	for i, r := range rows {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Slovenian)
)

func compareNames(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// sortRows sorts route rows in place. Missing values sort last in both
// directions. Without a sort the catalog order is kept.
func sortRows(rows []Row, sort *viewstate.SortOptions) {
	if sort == nil || sort.Column == "" {
		return
	}
	desc := sort.Direction == viewstate.Desc
	dir := func(c int) int {
		if desc {
			return -c
		}
		return c
	}

	var less func(a, b Row) int
	switch sort.Column {
	case columns.Select:
		less = func(a, b Row) int { return dir(cmp.Compare(a.Position, b.Position)) }
	case columns.Name:
		less = func(a, b Row) int { return dir(compareNames(a.Route.Name, b.Route.Name)) }
	case columns.Difficulty:
		less = func(a, b Row) int { return compareOptional(a.Route.Difficulty, b.Route.Difficulty, desc) }
	case columns.Length:
		less = func(a, b Row) int { return compareOptional(a.Route.Length, b.Route.Length, desc) }
	case columns.NrTicks:
		less = func(a, b Row) int { return dir(cmp.Compare(a.Route.NrTicks, b.Route.NrTicks)) }
	case columns.NrTries:
		less = func(a, b Row) int { return dir(cmp.Compare(a.Route.NrTries, b.Route.NrTries)) }
	case columns.NrClimbers:
		less = func(a, b Row) int { return dir(cmp.Compare(a.Route.NrClimbers, b.Route.NrClimbers)) }
	case columns.StarRating:
		less = func(a, b Row) int { return dir(cmp.Compare(a.Route.StarRating, b.Route.StarRating)) }
	case columns.Comments:
		// ascending puts routes with comments first
		less = func(a, b Row) int {
			return dir(cmp.Compare(rank(b.Route.NrComments > 0), rank(a.Route.NrComments > 0)))
		}
	case columns.MyAscents:
		less = func(a, b Row) int { return dir(cmp.Compare(rank(b.HasAscent()), rank(a.HasAscent()))) }
	default:
		return
	}
	slices.SortStableFunc(rows, less)
}

func compareOptional(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := cmp.Compare(*a, *b)
	if desc {
		return -c
	}
	return c
}

func rank(b bool) int {
	if b {
		return 1
	}
	return 0
}
