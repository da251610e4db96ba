package viewstate

import (
	"slices"

	"github.com/bekirdag/cragbook/internal/columns"
)

// Intent is a single typed change to the view state. Each intent touches only
// its own concern and leaves every other field as it finds it.
type Intent interface {
	apply(s ViewState, reg *columns.Registry) ViewState
}

type SetCompact struct{ Compact bool }

func (i SetCompact) apply(s ViewState, _ *columns.Registry) ViewState {
	s.Compact = i.Compact
	return s
}

type SetCombine struct{ Combine bool }

func (i SetCombine) apply(s ViewState, _ *columns.Registry) ViewState {
	s.Combine = i.Combine
	return s
}

// SetColumns replaces the selection. Unknown names are dropped and
// non-optional columns are always kept.
type SetColumns struct{ Names []string }

func (i SetColumns) apply(s ViewState, reg *columns.Registry) ViewState {
	s.SelectedColumns = reg.Normalize(i.Names)
	return s
}

// ToggleColumn adds an optional column at the end of the selection or removes
// it. Non-optional columns are left alone.
type ToggleColumn struct{ Name string }

func (i ToggleColumn) apply(s ViewState, reg *columns.Registry) ViewState {
	c, ok := reg.Lookup(i.Name)
	if !ok || !c.IsOptional {
		return s
	}
	if idx := slices.Index(s.SelectedColumns, i.Name); idx >= 0 {
		s.SelectedColumns = slices.Delete(slices.Clone(s.SelectedColumns), idx, idx+1)
	} else {
		s.SelectedColumns = append(slices.Clone(s.SelectedColumns), i.Name)
	}
	return s
}

// SetSearch replaces the search options; nil clears the search.
type SetSearch struct{ Search *SearchOptions }

func (i SetSearch) apply(s ViewState, _ *columns.Registry) ViewState {
	if i.Search == nil {
		s.Search = nil
		return s
	}
	v := *i.Search
	s.Search = &v
	return s
}

// SetFilter replaces the filter; nil or an inactive filter clears it.
type SetFilter struct{ Filter *FilterOptions }

func (i SetFilter) apply(s ViewState, _ *columns.Registry) ViewState {
	if !i.Filter.Active() {
		s.Filter = nil
		return s
	}
	f := i.Filter.clone()
	if f.RoutesTouches != "" && !f.RoutesTouches.Valid() {
		f.RoutesTouches = ""
	}
	if f.Difficulty != nil && f.Difficulty.From > f.Difficulty.To {
		f.Difficulty.From, f.Difficulty.To = f.Difficulty.To, f.Difficulty.From
	}
	if f.StarRating != nil && !f.StarRating.Any() {
		f.StarRating = nil
	}
	if !f.Active() {
		s.Filter = nil
		return s
	}
	s.Filter = f
	return s
}

// SetSort replaces the sort order; nil clears it. A sort on a column that is
// unknown or excluded from sorting is ignored.
type SetSort struct{ Sort *SortOptions }

func (i SetSort) apply(s ViewState, reg *columns.Registry) ViewState {
	if i.Sort == nil {
		s.Sort = nil
		return s
	}
	if !reg.Sortable(i.Sort.Column) {
		return s
	}
	v := *i.Sort
	if v.Direction != Desc {
		v.Direction = Asc
	}
	s.Sort = &v
	return s
}

// Reset returns to the initial state while keeping the measured compact flag.
type Reset struct{}

func (Reset) apply(s ViewState, reg *columns.Registry) ViewState {
	next := Initial(reg)
	next.Compact = s.Compact
	next.Combine = s.Combine
	return next
}
