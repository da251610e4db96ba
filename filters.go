package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

// parseDifficultyRange reads "from-to" or "from..to". Each bound is either a
// numeric difficulty or a grade used by a route of the crag, e.g. "6a-7a".
// An empty input yields nil.
func parseDifficultyRange(input string, crag *catalog.Crag) (*viewstate.Range, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(input, "..")
	if !ok {
		lo, hi, ok = strings.Cut(input, "-")
	}
	if !ok {
		return nil, fmt.Errorf("expected a range like 6a-7a, got %q", input)
	}
	from, err := parseDifficulty(lo, crag)
	if err != nil {
		return nil, err
	}
	to, err := parseDifficulty(hi, crag)
	if err != nil {
		return nil, err
	}
	return &viewstate.Range{From: from, To: to}, nil
}

func parseDifficulty(s string, crag *catalog.Crag) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	if crag != nil {
		for _, sec := range crag.Sectors {
			for _, r := range sec.Routes {
				if r.Difficulty != nil && strings.EqualFold(r.Grade, s) {
					return *r.Difficulty, nil
				}
			}
		}
	}
	return 0, fmt.Errorf("unknown grade %q", s)
}

// formatDifficultyRange is the inverse of parseDifficultyRange for
// prefilling the input.
func formatDifficultyRange(r *viewstate.Range) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(r.From, 'f', -1, 64) + ".." + strconv.FormatFloat(r.To, 'f', -1, 64)
}

// parseSortFlag reads "column" or "column:asc|desc".
func parseSortFlag(value string, reg *columns.Registry) (*viewstate.SortOptions, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	name, dir, _ := strings.Cut(value, ":")
	if !reg.Sortable(name) {
		return nil, fmt.Errorf("cannot sort by %q", name)
	}
	opts := &viewstate.SortOptions{Column: name, Direction: viewstate.Asc}
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		opts.Direction = viewstate.Desc
	default:
		return nil, fmt.Errorf("unknown sort direction %q", dir)
	}
	return opts, nil
}

// filterSummary describes the active filter for the status bar.
func filterSummary(f *viewstate.FilterOptions) string {
	if !f.Active() {
		return ""
	}
	var parts []string
	if f.RoutesTouches != "" {
		for _, t := range touchesLabels {
			if t.value == f.RoutesTouches {
				parts = append(parts, t.label)
			}
		}
	}
	if f.Difficulty != nil {
		parts = append(parts, "težavnost "+formatDifficultyRange(f.Difficulty))
	}
	if f.StarRating != nil && f.StarRating.Any() {
		var stars []string
		if f.StarRating.Marvelous {
			stars = append(stars, "★★")
		}
		if f.StarRating.Beautiful {
			stars = append(stars, "★")
		}
		if f.StarRating.Unremarkable {
			stars = append(stars, "–")
		}
		parts = append(parts, strings.Join(stars, "/"))
	}
	return strings.Join(parts, ", ")
}

// sortSummary describes the active sort for the status bar.
func sortSummary(s *viewstate.SortOptions, reg *columns.Registry) string {
	if s == nil {
		return ""
	}
	c, ok := reg.Lookup(s.Column)
	if !ok {
		return ""
	}
	label := c.SortLabel
	if label == "" {
		label = c.Label
	}
	if s.Direction == viewstate.Desc {
		return label + " ↓"
	}
	return label + " ↑"
}
