package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

func TestParseDifficultyRange(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    *viewstate.Range
		wantErr bool
	}{
		"empty":          {input: "  ", want: nil},
		"numbers":        {input: "600-850", want: &viewstate.Range{From: 600, To: 850}},
		"dots":           {input: "600..850", want: &viewstate.Range{From: 600, To: 850}},
		"grades":         {input: "5c-7a", want: &viewstate.Range{From: 650, To: 900}},
		"grade any case": {input: "6B .. 7A", want: &viewstate.Range{From: 800, To: 900}},
		"mixed":          {input: "6b..1000", want: &viewstate.Range{From: 800, To: 1000}},
		"no separator":   {input: "6b", wantErr: true},
		"unknown grade":  {input: "9c-9c+", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseDifficultyRange(tc.input, testCrag())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatDifficultyRange(t *testing.T) {
	assert.Equal(t, "", formatDifficultyRange(nil))
	assert.Equal(t, "650..900", formatDifficultyRange(&viewstate.Range{From: 650, To: 900}))

	r, err := parseDifficultyRange(formatDifficultyRange(&viewstate.Range{From: 650.5, To: 900}), nil)
	require.NoError(t, err)
	assert.Equal(t, &viewstate.Range{From: 650.5, To: 900}, r)
}

func TestParseSortFlag(t *testing.T) {
	reg := columns.Default()
	tests := map[string]struct {
		value   string
		want    *viewstate.SortOptions
		wantErr bool
	}{
		"empty":          {value: "", want: nil},
		"default asc":    {value: "difficulty", want: &viewstate.SortOptions{Column: columns.Difficulty, Direction: viewstate.Asc}},
		"desc":           {value: "name:desc", want: &viewstate.SortOptions{Column: columns.Name, Direction: viewstate.Desc}},
		"unsortable":     {value: "sector", wantErr: true},
		"unknown column": {value: "height", wantErr: true},
		"bad direction":  {value: "name:up", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseSortFlag(tc.value, reg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFilterSummary(t *testing.T) {
	assert.Equal(t, "", filterSummary(nil))
	assert.Equal(t, "", filterSummary(&viewstate.FilterOptions{StarRating: &viewstate.StarRating{}}))

	f := &viewstate.FilterOptions{
		RoutesTouches: viewstate.TouchesTicked,
		Difficulty:    &viewstate.Range{From: 600, To: 700},
		StarRating:    &viewstate.StarRating{Marvelous: true, Unremarkable: true},
	}
	assert.Equal(t, "Preplezane, težavnost 600..700, ★★/–", filterSummary(f))
}

func TestSortSummary(t *testing.T) {
	reg := columns.Default()
	assert.Equal(t, "", sortSummary(nil, reg))
	assert.Equal(t, "Po abecedi ↓", sortSummary(&viewstate.SortOptions{Column: columns.Name, Direction: viewstate.Desc}, reg))
	assert.Equal(t, "# ↑", sortSummary(&viewstate.SortOptions{Column: columns.Select, Direction: viewstate.Asc}, reg))
}
