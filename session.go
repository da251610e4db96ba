package main

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/auth"
	"github.com/bekirdag/cragbook/internal/breakpoint"
	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/queryparam"
	"github.com/bekirdag/cragbook/internal/routeview"
	"github.com/bekirdag/cragbook/internal/sectors"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

const (
	combineParam = "combine"
	combineValue = "true"
	shareBase    = "https://plezanje.info"
	cragPrefix   = "/plezalisce/"
)

var errCombineLocked = errors.New("combine is fixed while a search is active")

// session wires the view state engine for one crag route list: the store,
// the breakpoint monitor, the location with its sector expansion and the
// ascent overlay loader.
type session struct {
	reg       *columns.Registry
	store     *viewstate.Store
	monitor   *breakpoint.Monitor
	router    *queryparam.MemoryRouter
	expansion *sectors.Expansion
	loader    *ascents.Loader
	crag      *catalog.Crag
	cellPx    int
	log       *slog.Logger

	status auth.Status

	releaseColumns func()
	releaseRouter  func()
}

type sessionConfig struct {
	Registry *columns.Registry
	Router   *queryparam.MemoryRouter
	Source   ascents.Source
	Crag     *catalog.Crag
	Columns  []string
	CellPx   int
	Log      *slog.Logger
	// OnColumns is called with every new column selection.
	OnColumns func([]string)
}

func newSession(cfg sessionConfig) *session {
	if cfg.Registry == nil {
		cfg.Registry = columns.Default()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.CellPx <= 0 {
		cfg.CellPx = 8
	}
	if cfg.Router == nil {
		path := "/"
		if cfg.Crag != nil {
			path = cragPath(cfg.Crag.Slug)
		}
		cfg.Router = queryparam.NewMemoryRouter(shareBase, path)
	}

	store := viewstate.NewStore(cfg.Registry)
	s := &session{
		reg:       cfg.Registry,
		store:     store,
		monitor:   breakpoint.NewMonitor(store),
		router:    cfg.Router,
		expansion: sectors.New(cfg.Router),
		loader:    ascents.NewLoader(cfg.Source, cfg.Log),
		crag:      cfg.Crag,
		cellPx:    cfg.CellPx,
		log:       cfg.Log,
	}
	if len(cfg.Columns) > 0 {
		store.Dispatch(viewstate.SetColumns{Names: cfg.Columns})
	}
	store.Dispatch(viewstate.SetCombine{Combine: queryparam.Present(cfg.Router, combineParam, combineValue)})

	if cfg.OnColumns != nil {
		onColumns := cfg.OnColumns
		s.releaseColumns = store.Subscribe(func(prev, next viewstate.ViewState) {
			if !slices.Equal(prev.SelectedColumns, next.SelectedColumns) {
				onColumns(next.SelectedColumns)
			}
		})
	}
	s.releaseRouter = cfg.Router.OnChange(func(ch queryparam.Change) {
		if ch.Name == combineParam {
			s.store.Dispatch(viewstate.SetCombine{Combine: queryparam.Present(s.router, combineParam, combineValue)})
		}
	})
	if cfg.Crag != nil {
		s.loader.SetCrag(cfg.Crag.ID)
	}
	return s
}

func cragPath(slug string) string {
	return cragPrefix + slug
}

// cragSlugFromPath extracts the crag slug from a location path such as
// "/plezalisce/osp". It returns "" for other paths.
func cragSlugFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, cragPrefix)
	if !ok {
		return ""
	}
	slug, _, _ := strings.Cut(rest, "/")
	return slug
}

// observe records the terminal body width in cells.
func (s *session) observe(cells int) {
	s.monitor.Observe(cells * s.cellPx)
}

// authenticate applies a resolved status. It reports whether the overlay
// loader was armed by it.
func (s *session) authenticate(st auth.Status) bool {
	s.status = st
	return s.loader.Arm(st)
}

func (s *session) user() *auth.User {
	if !s.status.LoggedIn {
		return nil
	}
	return s.status.User
}

// setCrag replaces the crag. The loader drops the overlay when the crag
// identity changes; a refreshed copy of the same crag keeps it.
func (s *session) setCrag(c *catalog.Crag) {
	s.crag = c
	if c != nil {
		s.loader.SetCrag(c.ID)
	}
}

func (s *session) state() viewstate.ViewState {
	return s.store.State()
}

func (s *session) view() routeview.View {
	return routeview.Build(s.crag, s.store.State(), s.loader.Overlay(), s.expansion, s.reg)
}

// toggleCombine flips the combine flag in the location; the store follows
// through the router listener. It is refused while a search is active since
// search always shows the combined list.
func (s *session) toggleCombine() error {
	st := s.store.State()
	if st.Search.Active() {
		return errCombineLocked
	}
	return queryparam.Toggle(s.router, combineParam, combineValue)
}

func (s *session) toggleSector(index int) error {
	return s.expansion.Toggle(index)
}

func (s *session) expandAll() error {
	if s.crag == nil {
		return nil
	}
	return s.expansion.ExpandAll(len(s.crag.Sectors))
}

func (s *session) collapseAll() error {
	return s.expansion.CollapseAll()
}

// reset restores the initial view state. Compact and combine are kept; the
// monitor re-derives compact when the column selection changes.
func (s *session) reset() {
	s.store.Dispatch(viewstate.Reset{})
}

func (s *session) shareURL() string {
	return s.router.URL()
}

func (s *session) close() {
	if s.releaseColumns != nil {
		s.releaseColumns()
	}
	if s.releaseRouter != nil {
		s.releaseRouter()
	}
	s.monitor.Close()
	s.loader.Close()
}
