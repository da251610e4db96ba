package viewstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/cragbook/internal/columns"
)

func TestNewStore_initialState(t *testing.T) {
	reg := columns.Default()
	st := NewStore(reg).State()

	assert.True(t, st.Compact)
	assert.False(t, st.Combine)
	assert.Equal(t, reg.DefaultColumns(), st.SelectedColumns)
	assert.Nil(t, st.Search)
	assert.Nil(t, st.Filter)
	assert.Nil(t, st.Sort)
}

func TestStore_Dispatch(t *testing.T) {
	tests := map[string]struct {
		intents []Intent
		verify  func(t *testing.T, st ViewState)
	}{
		"compact": {
			intents: []Intent{SetCompact{Compact: false}},
			verify: func(t *testing.T, st ViewState) {
				assert.False(t, st.Compact)
			},
		},
		"combine": {
			intents: []Intent{SetCombine{Combine: true}},
			verify: func(t *testing.T, st ViewState) {
				assert.True(t, st.Combine)
			},
		},
		"search then clear": {
			intents: []Intent{
				SetSearch{Search: &SearchOptions{Query: "ploš", Focus: true}},
				SetSearch{},
			},
			verify: func(t *testing.T, st ViewState) {
				assert.Nil(t, st.Search)
			},
		},
		"sort on sortable column": {
			intents: []Intent{SetSort{Sort: &SortOptions{Column: columns.Difficulty, Direction: Desc}}},
			verify: func(t *testing.T, st ViewState) {
				require.NotNil(t, st.Sort)
				assert.Equal(t, SortOptions{Column: columns.Difficulty, Direction: Desc}, *st.Sort)
			},
		},
		"sort defaults to ascending": {
			intents: []Intent{SetSort{Sort: &SortOptions{Column: columns.Name}}},
			verify: func(t *testing.T, st ViewState) {
				require.NotNil(t, st.Sort)
				assert.Equal(t, Asc, st.Sort.Direction)
			},
		},
		"sort on excluded column is ignored": {
			intents: []Intent{
				SetSort{Sort: &SortOptions{Column: columns.Length, Direction: Asc}},
				SetSort{Sort: &SortOptions{Column: columns.Sector, Direction: Asc}},
			},
			verify: func(t *testing.T, st ViewState) {
				require.NotNil(t, st.Sort)
				assert.Equal(t, columns.Length, st.Sort.Column)
			},
		},
		"filter normalizes reversed range": {
			intents: []Intent{SetFilter{Filter: &FilterOptions{Difficulty: &Range{From: 7, To: 3}}}},
			verify: func(t *testing.T, st ViewState) {
				require.NotNil(t, st.Filter)
				assert.Equal(t, Range{From: 3, To: 7}, *st.Filter.Difficulty)
			},
		},
		"inactive filter clears": {
			intents: []Intent{
				SetFilter{Filter: &FilterOptions{RoutesTouches: TouchesTicked}},
				SetFilter{Filter: &FilterOptions{StarRating: &StarRating{}}},
			},
			verify: func(t *testing.T, st ViewState) {
				assert.Nil(t, st.Filter)
			},
		},
		"invalid touches dropped": {
			intents: []Intent{SetFilter{Filter: &FilterOptions{RoutesTouches: "bogus"}}},
			verify: func(t *testing.T, st ViewState) {
				assert.Nil(t, st.Filter)
			},
		},
		"toggle optional column": {
			intents: []Intent{ToggleColumn{Name: columns.NrTicks}},
			verify: func(t *testing.T, st ViewState) {
				assert.Equal(t, columns.NrTicks, st.SelectedColumns[len(st.SelectedColumns)-1])
			},
		},
		"toggle required column is ignored": {
			intents: []Intent{ToggleColumn{Name: columns.Name}, ToggleColumn{Name: columns.Select}},
			verify: func(t *testing.T, st ViewState) {
				assert.True(t, st.HasColumn(columns.Name))
				assert.True(t, st.HasColumn(columns.Select))
			},
		},
		"set columns keeps required": {
			intents: []Intent{SetColumns{Names: []string{columns.Length}}},
			verify: func(t *testing.T, st ViewState) {
				assert.Equal(t, []string{columns.Select, columns.Sector, columns.Name, columns.Length}, st.SelectedColumns)
			},
		},
		"reset keeps layout flags": {
			intents: []Intent{
				SetCompact{Compact: false},
				SetCombine{Combine: true},
				SetSearch{Search: &SearchOptions{Query: "x"}},
				ToggleColumn{Name: columns.Length},
				Reset{},
			},
			verify: func(t *testing.T, st ViewState) {
				assert.False(t, st.Compact)
				assert.True(t, st.Combine)
				assert.Nil(t, st.Search)
				assert.Equal(t, columns.Default().DefaultColumns(), st.SelectedColumns)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			store := NewStore(columns.Default())
			test.verify(t, store.Dispatch(test.intents...))
			test.verify(t, store.State())
		})
	}
}

func TestStore_requiredColumnsSurviveAnyPickerSequence(t *testing.T) {
	reg := columns.Default()
	store := NewStore(reg)

	var all []string
	for _, c := range reg.Columns() {
		all = append(all, c.Name)
	}
	steps := []Intent{
		ToggleColumn{Name: columns.Length},
		SetColumns{Names: nil},
		ToggleColumn{Name: columns.Sector},
		SetColumns{Names: []string{columns.MyAscents, columns.NrTries}},
		ToggleColumn{Name: columns.MyAscents},
		SetColumns{Names: all},
		ToggleColumn{Name: columns.Name},
	}
	for _, step := range steps {
		st := store.Dispatch(step)
		assert.Subset(t, st.SelectedColumns, []string{columns.Select, columns.Sector, columns.Name})
		assert.Len(t, st.SelectedColumns, len(uniq(st.SelectedColumns)))
	}
}

func TestStore_Set(t *testing.T) {
	store := NewStore(columns.Default())

	next := store.State()
	next.SelectedColumns = []string{columns.Length}
	next.Combine = true
	got := store.Set(next)

	assert.True(t, got.Combine)
	assert.Equal(t, []string{columns.Select, columns.Sector, columns.Name, columns.Length}, got.SelectedColumns)
}

func TestStore_StateIsACopy(t *testing.T) {
	store := NewStore(columns.Default())
	store.Dispatch(SetSearch{Search: &SearchOptions{Query: "a"}})

	st := store.State()
	st.Search.Query = "mutated"
	st.SelectedColumns[0] = "mutated"

	again := store.State()
	assert.Equal(t, "a", again.Search.Query)
	assert.Equal(t, columns.Select, again.SelectedColumns[0])
}

func TestStore_noLostUpdates(t *testing.T) {
	store := NewStore(columns.Default())

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		store.Dispatch(SetFilter{Filter: &FilterOptions{RoutesTouches: TouchesTried}})
	}()
	go func() {
		defer wg.Done()
		store.Dispatch(SetSort{Sort: &SortOptions{Column: columns.Name, Direction: Desc}})
	}()
	go func() {
		defer wg.Done()
		store.Dispatch(SetSearch{Search: &SearchOptions{Query: "smer"}})
	}()
	wg.Wait()

	st := store.State()
	require.NotNil(t, st.Filter)
	require.NotNil(t, st.Sort)
	require.NotNil(t, st.Search)
	assert.Equal(t, TouchesTried, st.Filter.RoutesTouches)
	assert.Equal(t, Desc, st.Sort.Direction)
	assert.Equal(t, "smer", st.Search.Query)
}

func TestStore_listenersSeeChangesInOrder(t *testing.T) {
	store := NewStore(columns.Default())

	var (
		mu    sync.Mutex
		seen  []ViewState
		prevs []ViewState
	)
	store.Subscribe(func(prev, next ViewState) {
		mu.Lock()
		defer mu.Unlock()
		prevs = append(prevs, prev)
		seen = append(seen, next)
	})

	reg := store.Registry()
	optional := reg.OptionalColumns()
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			store.Dispatch(ToggleColumn{Name: name})
		}(optional[i%len(optional)].Name)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 40)
	for i := 1; i < len(seen); i++ {
		assert.Equal(t, seen[i-1].SelectedColumns, prevs[i].SelectedColumns, "change %d", i)
	}
	assert.Equal(t, store.State().SelectedColumns, seen[len(seen)-1].SelectedColumns)
}

func TestStore_Subscribe(t *testing.T) {
	store := NewStore(columns.Default())

	var calls []bool
	release := store.Subscribe(func(prev, next ViewState) {
		calls = append(calls, next.Combine)
		if next.Combine && next.Compact {
			// listeners run outside the lock and may dispatch
			store.Dispatch(SetCompact{Compact: false})
		}
	})

	store.Dispatch(SetCombine{Combine: true})
	assert.Equal(t, []bool{true, true}, calls)
	assert.False(t, store.State().Compact)

	release()
	release()
	store.Dispatch(SetCombine{Combine: false})
	assert.Len(t, calls, 2)
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
