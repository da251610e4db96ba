package routeview

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/catalog"
)

// ExprPrefix marks a search query as an expression over route fields, e.g.
// "= difficulty >= 800 && stars > 0".
const ExprPrefix = "="

// exprEnv is what an expression query sees for each route.
type exprEnv struct {
	Name       string  `expr:"name"`
	Sector     string  `expr:"sector"`
	Grade      string  `expr:"grade"`
	Difficulty float64 `expr:"difficulty"`
	Length     float64 `expr:"length"`
	Stars      int     `expr:"stars"`
	Ticks      int     `expr:"ticks"`
	Tries      int     `expr:"tries"`
	Climbers   int     `expr:"climbers"`
	Comments   int     `expr:"comments"`
	Ascent     string  `expr:"ascent"`
	Ticked     bool    `expr:"ticked"`
}

func newExprEnv(r catalog.Route, overlay ascents.Overlay) exprEnv {
	env := exprEnv{
		Name:     r.Name,
		Sector:   r.SectorName,
		Grade:    r.Grade,
		Stars:    r.StarRating,
		Ticks:    r.NrTicks,
		Tries:    r.NrTries,
		Climbers: r.NrClimbers,
		Comments: r.NrComments,
	}
	if r.Difficulty != nil {
		env.Difficulty = *r.Difficulty
	}
	if r.Length != nil {
		env.Length = *r.Length
	}
	if t, ok := overlay.Lookup(r.ID); ok {
		env.Ascent = string(t)
		env.Ticked = t.IsTick()
	}
	return env
}

// matcher narrows a route list to the routes a search query selects.
type matcher interface {
	match(routes []catalog.Route, overlay ascents.Overlay) (keep []bool, err error)
}

func compileQuery(q string) (matcher, error) {
	q = strings.TrimSpace(q)
	if rest, ok := strings.CutPrefix(q, ExprPrefix); ok {
		program, err := expr.Compile(strings.TrimSpace(rest), expr.Env(exprEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("search expression: %w", err)
		}
		return exprMatcher{program: program}, nil
	}
	return fuzzyMatcher{pattern: fold(q)}, nil
}

type exprMatcher struct {
	program *vm.Program
}

func (m exprMatcher) match(routes []catalog.Route, overlay ascents.Overlay) ([]bool, error) {
	keep := make([]bool, len(routes))
	for i, r := range routes {
		out, err := expr.Run(m.program, newExprEnv(r, overlay))
		if err != nil {
			return make([]bool, len(routes)), fmt.Errorf("search expression: %w", err)
		}
		keep[i], _ = out.(bool)
	}
	return keep, nil
}

type fuzzyMatcher struct {
	pattern string
}

type routeNames []catalog.Route

func (n routeNames) String(i int) string { return fold(n[i].Name) }
func (n routeNames) Len() int            { return len(n) }

func (m fuzzyMatcher) match(routes []catalog.Route, _ ascents.Overlay) ([]bool, error) {
	keep := make([]bool, len(routes))
	for _, match := range fuzzy.FindFrom(m.pattern, routeNames(routes)) {
		keep[match.Index] = true
	}
	return keep, nil
}

var diacritics = runes.Remove(runes.In(unicode.Mn))

// fold lower-cases s and strips diacritics so "ploscica" finds "Ploščica".
func fold(s string) string {
	t := transform.Chain(norm.NFD, diacritics, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
