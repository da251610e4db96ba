package routeview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

type expanded map[int]bool

func (e expanded) IsExpanded(i int) bool { return e[i] }

func ptr(v float64) *float64 { return &v }

func testCrag() *catalog.Crag {
	return &catalog.Crag{
		ID:   "osp",
		Name: "Osp",
		Sectors: []catalog.Sector{
			{Label: "A", Name: "Babna", Routes: []catalog.Route{
				{ID: "r1", Name: "Ploščica", Difficulty: ptr(650), Length: ptr(20), NrTicks: 10},
				{ID: "r2", Name: "Črni kamen", Difficulty: ptr(800), StarRating: 1, NrTicks: 3, NrComments: 2},
			}},
			{Label: "B", Name: "Steno", Routes: []catalog.Route{
				{ID: "r3", Name: "Zmajev rep", Difficulty: ptr(900), Length: ptr(30), StarRating: 2, NrTicks: 5},
				{ID: "r4", Name: "Abeceda", NrComments: 1},
			}},
		},
	}
}

func testOverlay() ascents.Overlay {
	return ascents.Build([]ascents.Record{
		{AscentType: ascents.Redpoint, Route: ascents.Route{ID: "r1"}},
		{AscentType: ascents.Attempt, Route: ascents.Route{ID: "r3"}},
	})
}

func routeIDs(v View) []string {
	var ids []string
	for _, r := range v.Routes() {
		ids = append(ids, r.Route.ID)
	}
	return ids
}

func columnNames(v View) []string {
	var names []string
	for _, c := range v.Columns {
		names = append(names, c.Name)
	}
	return names
}

func TestBuild_grouped(t *testing.T) {
	reg := columns.Default()
	st := viewstate.Initial(reg)

	v := Build(testCrag(), st, testOverlay(), nil, reg)

	assert.False(t, v.Combined)
	assert.NotContains(t, columnNames(v), columns.Sector)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, RowSector, v.Rows[0].Kind)
	assert.Equal(t, "A - Babna", v.Rows[0].Sector)
	assert.Equal(t, 2, v.Rows[0].RouteCount)
	assert.False(t, v.Rows[0].Expanded)
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 4, v.Shown)

	v = Build(testCrag(), st, testOverlay(), expanded{1: true}, reg)
	require.Len(t, v.Rows, 4)
	assert.Equal(t, RowSector, v.Rows[0].Kind)
	assert.Equal(t, RowSector, v.Rows[1].Kind)
	assert.True(t, v.Rows[1].Expanded)
	assert.Equal(t, []string{"r3", "r4"}, routeIDs(v))
	assert.Equal(t, 3, v.Rows[2].Position)
	assert.Equal(t, ascents.Attempt, v.Rows[2].Ascent)
}

func TestBuild_combined(t *testing.T) {
	reg := columns.Default()

	tests := map[string]struct {
		crag  *catalog.Crag
		state func(viewstate.ViewState) viewstate.ViewState
	}{
		"combine flag": {
			crag: testCrag(),
			state: func(st viewstate.ViewState) viewstate.ViewState {
				st.Combine = true
				return st
			},
		},
		"active search": {
			crag: testCrag(),
			state: func(st viewstate.ViewState) viewstate.ViewState {
				st.Search = &viewstate.SearchOptions{Query: "a"}
				return st
			},
		},
		"single sector": {
			crag: func() *catalog.Crag {
				c := testCrag()
				c.Sectors = c.Sectors[:1]
				return c
			}(),
			state: func(st viewstate.ViewState) viewstate.ViewState { return st },
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v := Build(test.crag, test.state(viewstate.Initial(reg)), ascents.Empty(), nil, reg)

			assert.True(t, v.Combined)
			assert.Contains(t, columnNames(v), columns.Sector)
			for _, r := range v.Rows {
				assert.Equal(t, RowRoute, r.Kind)
			}
		})
	}
}

func TestBuild_nilCrag(t *testing.T) {
	reg := columns.Default()
	v := Build(nil, viewstate.Initial(reg), ascents.Empty(), nil, reg)
	assert.Empty(t, v.Rows)
	assert.Zero(t, v.Total)
}

func TestBuild_filter(t *testing.T) {
	tests := map[string]struct {
		filter *viewstate.FilterOptions
		want   []string
	}{
		"none":     {filter: nil, want: []string{"r1", "r2", "r3", "r4"}},
		"ticked":   {filter: &viewstate.FilterOptions{RoutesTouches: viewstate.TouchesTicked}, want: []string{"r1"}},
		"tried":    {filter: &viewstate.FilterOptions{RoutesTouches: viewstate.TouchesTried}, want: []string{"r1", "r3"}},
		"unticked": {filter: &viewstate.FilterOptions{RoutesTouches: viewstate.TouchesUnticked}, want: []string{"r2", "r3", "r4"}},
		"untried":  {filter: &viewstate.FilterOptions{RoutesTouches: viewstate.TouchesUntried}, want: []string{"r2", "r4"}},
		"difficulty inclusive": {
			filter: &viewstate.FilterOptions{Difficulty: &viewstate.Range{From: 650, To: 800}},
			want:   []string{"r1", "r2"},
		},
		"stars": {
			filter: &viewstate.FilterOptions{StarRating: &viewstate.StarRating{Marvelous: true, Unremarkable: true}},
			want:   []string{"r1", "r3", "r4"},
		},
		"no star bucket checked": {
			filter: &viewstate.FilterOptions{StarRating: &viewstate.StarRating{}},
			want:   []string{"r1", "r2", "r3", "r4"},
		},
		"combined criteria": {
			filter: &viewstate.FilterOptions{
				RoutesTouches: viewstate.TouchesUntried,
				Difficulty:    &viewstate.Range{From: 0, To: 1000},
			},
			want: []string{"r2"},
		},
	}

	reg := columns.Default()
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			st := viewstate.Initial(reg)
			st.Combine = true
			st.Filter = test.filter

			v := Build(testCrag(), st, testOverlay(), nil, reg)

			assert.Equal(t, test.want, routeIDs(v))
			assert.Equal(t, len(test.want), v.Shown)
		})
	}
}

func TestBuild_search(t *testing.T) {
	tests := map[string]struct {
		query   string
		want    []string
		wantErr bool
	}{
		"fuzzy ignores diacritics": {query: "ploscica", want: []string{"r1"}},
		"fuzzy ignores case":       {query: "ZMAJ", want: []string{"r3"}},
		"expression":               {query: "= difficulty >= 800", want: []string{"r2", "r3"}},
		"expression on ascent":     {query: "= ascent != '' && !ticked", want: []string{"r3"}},
		"expression on strings":    {query: `= sector == "B - Steno"`, want: []string{"r3", "r4"}},
		"invalid expression":       {query: "= difficulty >>", wantErr: true},
		"non boolean expression":   {query: "= difficulty + 1", wantErr: true},
	}

	reg := columns.Default()
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			st := viewstate.Initial(reg)
			st.Search = &viewstate.SearchOptions{Query: test.query}

			crag := testCrag()
			for si := range crag.Sectors {
				for ri := range crag.Sectors[si].Routes {
					crag.Sectors[si].Routes[ri].SectorName = crag.Sectors[si].Title()
				}
			}
			v := Build(crag, st, testOverlay(), nil, reg)

			if test.wantErr {
				assert.Error(t, v.SearchErr)
				assert.Empty(t, v.Rows)
				return
			}
			require.NoError(t, v.SearchErr)
			assert.Equal(t, test.want, routeIDs(v))
		})
	}
}

func TestBuild_sort(t *testing.T) {
	tests := map[string]struct {
		sort viewstate.SortOptions
		want []string
	}{
		"select desc":     {sort: viewstate.SortOptions{Column: columns.Select, Direction: viewstate.Desc}, want: []string{"r4", "r3", "r2", "r1"}},
		"name asc":        {sort: viewstate.SortOptions{Column: columns.Name, Direction: viewstate.Asc}, want: []string{"r4", "r2", "r1", "r3"}},
		"name desc":       {sort: viewstate.SortOptions{Column: columns.Name, Direction: viewstate.Desc}, want: []string{"r3", "r1", "r2", "r4"}},
		"difficulty asc":  {sort: viewstate.SortOptions{Column: columns.Difficulty, Direction: viewstate.Asc}, want: []string{"r1", "r2", "r3", "r4"}},
		"difficulty desc": {sort: viewstate.SortOptions{Column: columns.Difficulty, Direction: viewstate.Desc}, want: []string{"r3", "r2", "r1", "r4"}},
		"length asc":      {sort: viewstate.SortOptions{Column: columns.Length, Direction: viewstate.Asc}, want: []string{"r1", "r3", "r2", "r4"}},
		"ticks desc":      {sort: viewstate.SortOptions{Column: columns.NrTicks, Direction: viewstate.Desc}, want: []string{"r1", "r3", "r2", "r4"}},
		"stars desc":      {sort: viewstate.SortOptions{Column: columns.StarRating, Direction: viewstate.Desc}, want: []string{"r3", "r2", "r1", "r4"}},
		"comments first":  {sort: viewstate.SortOptions{Column: columns.Comments, Direction: viewstate.Asc}, want: []string{"r2", "r4", "r1", "r3"}},
		"comments last":   {sort: viewstate.SortOptions{Column: columns.Comments, Direction: viewstate.Desc}, want: []string{"r1", "r3", "r2", "r4"}},
		"my ascents":      {sort: viewstate.SortOptions{Column: columns.MyAscents, Direction: viewstate.Asc}, want: []string{"r1", "r3", "r2", "r4"}},
		"unknown column":  {sort: viewstate.SortOptions{Column: "nope"}, want: []string{"r1", "r2", "r3", "r4"}},
	}

	reg := columns.Default()
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			st := viewstate.Initial(reg)
			st.Combine = true
			sort := test.sort
			st.Sort = &sort

			v := Build(testCrag(), st, testOverlay(), nil, reg)

			assert.Equal(t, test.want, routeIDs(v))
		})
	}
}

func TestBuild_sortWithinSectors(t *testing.T) {
	reg := columns.Default()
	st := viewstate.Initial(reg)
	st.Sort = &viewstate.SortOptions{Column: columns.Name, Direction: viewstate.Asc}

	v := Build(testCrag(), st, testOverlay(), expanded{0: true, 1: true}, reg)

	assert.Equal(t, []string{"r2", "r1", "r4", "r3"}, routeIDs(v))
}

func TestCompareNames_slovenian(t *testing.T) {
	assert.Negative(t, compareNames("Cesta", "Čop"))
	assert.Negative(t, compareNames("Čop", "Dom"))
	assert.Negative(t, compareNames("Sova", "Šum"))
	assert.Positive(t, compareNames("Žaba", "Zob"))
}

func TestMatches_inactiveFilter(t *testing.T) {
	assert.True(t, Matches(catalog.Route{ID: "x"}, nil, ascents.Empty()))
	assert.True(t, Matches(catalog.Route{ID: "x"}, &viewstate.FilterOptions{}, ascents.Empty()))
}
