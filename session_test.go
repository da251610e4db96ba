package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/auth"
	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/logger"
	"github.com/bekirdag/cragbook/internal/queryparam"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

func ptr(v float64) *float64 { return &v }

func testCrag() *catalog.Crag {
	return &catalog.Crag{
		ID:   "crag-osp",
		Slug: "osp",
		Name: "Osp",
		Sectors: []catalog.Sector{
			{Label: "A", Name: "Babna", Routes: []catalog.Route{
				{ID: "r1", Name: "Ploščica", Grade: "5c", Difficulty: ptr(650), Length: ptr(20), NrTicks: 10},
				{ID: "r2", Name: "Črni kamen", Grade: "6b", Difficulty: ptr(800), StarRating: 1, NrTicks: 3, NrComments: 2},
			}},
			{Label: "B", Name: "Steno", Routes: []catalog.Route{
				{ID: "r3", Name: "Zmajev rep", Grade: "7a", Difficulty: ptr(900), Length: ptr(30), StarRating: 2, NrTicks: 5},
				{ID: "r4", Name: "Abeceda", NrComments: 1},
			}},
		},
	}
}

func testSource() ascents.Source {
	return ascents.SourceFunc(func(_ context.Context, cragID string) ([]ascents.Record, error) {
		return []ascents.Record{
			{AscentType: ascents.Redpoint, Route: ascents.Route{ID: "r1"}},
			{AscentType: ascents.Attempt, Route: ascents.Route{ID: "r3"}},
		}, nil
	})
}

func newTestSession(t *testing.T, router *queryparam.MemoryRouter) *session {
	t.Helper()
	s := newSession(sessionConfig{
		Router: router,
		Source: testSource(),
		Crag:   testCrag(),
		Log:    logger.Discard(),
	})
	t.Cleanup(s.close)
	return s
}

func TestNewSession_combineFromLocation(t *testing.T) {
	tests := map[string]struct {
		location string
		combine  bool
	}{
		"no flag":    {location: "/plezalisce/osp", combine: false},
		"flag set":   {location: "/plezalisce/osp?combine=true", combine: true},
		"other text": {location: "/plezalisce/osp?combine=1", combine: false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := queryparam.ParseLocation(tc.location)
			require.NoError(t, err)
			s := newTestSession(t, r)
			assert.Equal(t, tc.combine, s.state().Combine)
			assert.Equal(t, tc.combine, s.view().Combined)
		})
	}
}

func TestSession_toggleCombine(t *testing.T) {
	s := newTestSession(t, nil)
	assert.Equal(t, shareBase+"/plezalisce/osp", s.shareURL())

	require.NoError(t, s.toggleCombine())
	assert.True(t, s.state().Combine)
	assert.Equal(t, shareBase+"/plezalisce/osp?combine=true", s.shareURL())

	require.NoError(t, s.toggleCombine())
	assert.False(t, s.state().Combine)
	assert.Equal(t, shareBase+"/plezalisce/osp", s.shareURL())
}

func TestSession_toggleCombineLockedWhileSearching(t *testing.T) {
	s := newTestSession(t, nil)
	s.store.Dispatch(viewstate.SetSearch{Search: &viewstate.SearchOptions{Query: "rep"}})

	err := s.toggleCombine()
	assert.ErrorIs(t, err, errCombineLocked)
	assert.False(t, s.state().Combine)
	assert.True(t, s.view().Combined)
}

func TestSession_sectorExpansionInLocation(t *testing.T) {
	s := newTestSession(t, nil)

	require.NoError(t, s.toggleSector(1))
	assert.Equal(t, []string{"1"}, s.router.Query()["s"])
	v := s.view()
	require.Len(t, v.Rows, 4)
	assert.Equal(t, "r3", v.Rows[2].Route.ID)

	require.NoError(t, s.expandAll())
	assert.Equal(t, []string{"0", "1"}, s.router.Query()["s"])
	assert.Len(t, s.view().Rows, 6)

	require.NoError(t, s.collapseAll())
	assert.Empty(t, s.router.Query()["s"])
	assert.Len(t, s.view().Rows, 2)
}

func TestSession_observe(t *testing.T) {
	s := newTestSession(t, nil)
	assert.True(t, s.state().Compact, "compact until measured")

	bp := s.reg.WidthOf(s.state().SelectedColumns)
	s.observe(bp/s.cellPx + 1)
	assert.False(t, s.state().Compact)

	s.observe(1)
	assert.True(t, s.state().Compact)
}

func TestSession_reset(t *testing.T) {
	s := newTestSession(t, nil)
	s.observe(400)
	require.NoError(t, s.toggleCombine())
	s.store.Dispatch(
		viewstate.ToggleColumn{Name: columns.NrTries},
		viewstate.SetSort{Sort: &viewstate.SortOptions{Column: columns.Name, Direction: viewstate.Desc}},
	)

	s.reset()

	st := s.state()
	assert.Nil(t, st.Sort)
	assert.False(t, st.HasColumn(columns.NrTries))
	assert.True(t, st.Combine)
}

func TestSession_authenticateLoadsOverlay(t *testing.T) {
	s := newTestSession(t, nil)

	assert.False(t, s.authenticate(auth.LoggedOut()))
	assert.Nil(t, s.user())

	assert.True(t, s.authenticate(auth.LoggedInAs(auth.User{ID: "u1", Firstname: "Ana"})))
	require.NotNil(t, s.user())
	assert.Equal(t, "u1", s.user().ID)

	_, err := s.loader.Load(context.Background())
	require.NoError(t, err)
	s.store.Dispatch(viewstate.SetFilter{Filter: &viewstate.FilterOptions{RoutesTouches: viewstate.TouchesTicked}})
	require.NoError(t, s.toggleCombine())

	var ids []string
	for _, r := range s.view().Routes() {
		ids = append(ids, r.Route.ID)
	}
	assert.Equal(t, []string{"r1"}, ids)
}

func TestSession_onColumns(t *testing.T) {
	var got [][]string
	s := newSession(sessionConfig{
		Crag:      testCrag(),
		Log:       logger.Discard(),
		OnColumns: func(cols []string) { got = append(got, cols) },
	})
	defer s.close()

	s.store.Dispatch(viewstate.ToggleColumn{Name: columns.NrTicks})
	s.store.Dispatch(viewstate.SetSort{Sort: &viewstate.SortOptions{Column: columns.Name}})
	s.store.Dispatch(viewstate.ToggleColumn{Name: columns.Comments})

	require.Len(t, got, 2, "only column changes are reported")
	assert.Contains(t, got[0], columns.NrTicks)
	assert.Contains(t, got[0], columns.Comments)
	assert.Contains(t, got[1], columns.NrTicks)
	assert.NotContains(t, got[1], columns.Comments)
}

func TestCragSlugFromPath(t *testing.T) {
	tests := map[string]struct {
		path string
		want string
	}{
		"crag":       {path: "/plezalisce/osp", want: "osp"},
		"nested":     {path: "/plezalisce/osp/smeri", want: "osp"},
		"other path": {path: "/smer/osp", want: ""},
		"root":       {path: "/", want: ""},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, cragSlugFromPath(tc.path))
		})
	}
}
