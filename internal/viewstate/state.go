// Package viewstate holds the composite state of a crag route list: selected
// columns, the compact and combine flags, search, filter and sort.
//
// Controls never write the state directly. They dispatch typed intents to a
// Store, which applies them one at a time to the latest state, so concurrent
// concerns cannot overwrite each other's changes with a stale snapshot.
package viewstate

import "slices"

type RoutesTouches string

const (
	TouchesTicked   RoutesTouches = "ticked"
	TouchesTried    RoutesTouches = "tried"
	TouchesUnticked RoutesTouches = "unticked"
	TouchesUntried  RoutesTouches = "untried"
)

func (t RoutesTouches) Valid() bool {
	switch t {
	case TouchesTicked, TouchesTried, TouchesUnticked, TouchesUntried:
		return true
	}
	return false
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Range struct {
	From float64 `yaml:"from" json:"from"`
	To   float64 `yaml:"to" json:"to"`
}

// Contains reports whether v lies in the inclusive range.
func (r Range) Contains(v float64) bool {
	return v >= r.From && v <= r.To
}

type StarRating struct {
	Marvelous    bool `yaml:"marvelous" json:"marvelous"`
	Beautiful    bool `yaml:"beautiful" json:"beautiful"`
	Unremarkable bool `yaml:"unremarkable" json:"unremarkable"`
}

// Any reports whether at least one bucket is checked.
func (s StarRating) Any() bool {
	return s.Marvelous || s.Beautiful || s.Unremarkable
}

type FilterOptions struct {
	RoutesTouches RoutesTouches `yaml:"routesTouches,omitempty" json:"routesTouches,omitempty"`
	Difficulty    *Range        `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	StarRating    *StarRating   `yaml:"starRating,omitempty" json:"starRating,omitempty"`
}

// Active reports whether the filter restricts anything.
func (f *FilterOptions) Active() bool {
	if f == nil {
		return false
	}
	return f.RoutesTouches != "" || f.Difficulty != nil || (f.StarRating != nil && f.StarRating.Any())
}

type SortOptions struct {
	Column    string    `yaml:"column" json:"column"`
	Direction Direction `yaml:"direction" json:"direction"`
}

type SearchOptions struct {
	Query string `yaml:"query,omitempty" json:"query,omitempty"`
	Focus bool   `yaml:"focus,omitempty" json:"focus,omitempty"`
}

// Active reports whether the search narrows the list.
func (s *SearchOptions) Active() bool {
	return s != nil && s.Query != ""
}

type ViewState struct {
	Compact         bool
	Combine         bool
	SelectedColumns []string
	Search          *SearchOptions
	Filter          *FilterOptions
	Sort            *SortOptions
}

// Clone returns a deep copy so callers can never alias store internals.
func (s ViewState) Clone() ViewState {
	out := s
	out.SelectedColumns = slices.Clone(s.SelectedColumns)
	if s.Search != nil {
		v := *s.Search
		out.Search = &v
	}
	if s.Filter != nil {
		out.Filter = s.Filter.clone()
	}
	if s.Sort != nil {
		v := *s.Sort
		out.Sort = &v
	}
	return out
}

// HasColumn reports whether name is among the selected columns.
func (s ViewState) HasColumn(name string) bool {
	return slices.Contains(s.SelectedColumns, name)
}

func (f *FilterOptions) clone() *FilterOptions {
	v := *f
	if f.Difficulty != nil {
		d := *f.Difficulty
		v.Difficulty = &d
	}
	if f.StarRating != nil {
		r := *f.StarRating
		v.StarRating = &r
	}
	return &v
}
