package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/auth"
	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/queryparam"
	"github.com/bekirdag/cragbook/internal/routeview"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

// infoSplitWidth is the terminal width from which the crag info panel is
// shown next to the route list instead of replacing it.
const infoSplitWidth = 100

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputDifficulty
	inputPicker
)

type authResolvedMsg struct {
	status auth.Status
	err    error
}

type ascentsLoadedMsg struct {
	result ascents.Result
}

type cragLoadedMsg struct {
	crag *catalog.Crag
	err  error
}

type ascentLoggedMsg struct {
	route  string
	ascent ascents.Type
	err    error
}

type catalogChangedMsg struct{}

type cragSource interface {
	Crag(ctx context.Context, slug string) (*catalog.Crag, error)
}

type ascentLogger interface {
	LogAscent(ctx context.Context, userID, routeID string, t ascents.Type, date time.Time) (string, error)
}

type modelConfig struct {
	Session  *session
	Resolver auth.Resolver
	// Crags reloads the crag after the catalog changes on disk; nil
	// disables reloads.
	Crags cragSource
	// Ascents records new ascents; nil disables logging.
	Ascents ascentLogger
	Watcher *catalogWatcher
	// Theme is the glamour style of the info panel.
	Theme string
	Log   *slog.Logger
}

type model struct {
	ctx       context.Context
	sess      *session
	resolver  auth.Resolver
	crags     cragSource
	ascentLog ascentLogger
	watcher   *catalogWatcher
	log       *slog.Logger

	styles  styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	routes   *routesTable
	info     *infoColumn
	markdown *infoRenderer
	columns  []column
	focus    int
	showInfo bool
	width    int
	height   int

	inputActive bool
	inputMode   inputMode
	inputPrompt string
	inputField  textinput.Model
	picker      *picker

	authPending  bool
	dirty        bool
	release      []func()
	toastMessage string
	toastExpires time.Time
}

func newModel(ctx context.Context, cfg modelConfig) *model {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = auth.Static(auth.LoggedOut())
	}
	s := newStyles()
	m := &model{
		ctx:         ctx,
		sess:        cfg.Session,
		resolver:    cfg.Resolver,
		crags:       cfg.Crags,
		ascentLog:   cfg.Ascents,
		watcher:     cfg.Watcher,
		log:         cfg.Log,
		styles:      s,
		keys:        newKeyMap(),
		help:        help.New(),
		authPending: true,
	}

	m.help.ShortSeparator = " │ "
	m.help.Styles.ShortKey = m.styles.accent.Copy()
	m.help.Styles.ShortDesc = m.styles.muted.Copy()
	m.help.Styles.ShortSeparator = m.styles.muted.Copy()
	m.help.Styles.Ellipsis = m.styles.muted.Copy()
	m.help.Styles.FullKey = m.styles.accent.Copy()
	m.help.Styles.FullDesc = m.styles.muted.Copy()
	m.help.Styles.FullSeparator = m.styles.muted.Copy()

	m.inputField = textinput.New()
	m.inputField.Prompt = "> "
	m.inputField.CharLimit = 256
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spinner.Style = m.styles.accent.Copy().Bold(true)

	m.routes = newRoutesTable("Smeri", m.sess.cellPx)
	m.info = newInfoColumn("Plezališče", 40)
	m.markdown = newInfoRenderer(cfg.Theme)
	m.columns = []column{m.routes}

	m.release = append(m.release,
		m.sess.store.Subscribe(func(_, _ viewstate.ViewState) { m.dirty = true }),
		m.sess.router.OnChange(func(queryparam.Change) { m.dirty = true }),
	)
	m.refresh()
	return m
}

func resolveAuthCmd(ctx context.Context, r auth.Resolver) tea.Cmd {
	return func() tea.Msg {
		st, err := r.Status(ctx)
		return authResolvedMsg{status: st, err: err}
	}
}

func reloadCragCmd(ctx context.Context, src cragSource, slug string) tea.Cmd {
	if src == nil || slug == "" {
		return nil
	}
	return func() tea.Msg {
		c, err := src.Crag(ctx, slug)
		return cragLoadedMsg{crag: c, err: err}
	}
}

func logAscentCmd(ctx context.Context, l ascentLogger, userID string, route catalog.Route, t ascents.Type) tea.Cmd {
	return func() tea.Msg {
		_, err := l.LogAscent(ctx, userID, route.ID, t, time.Now())
		return ascentLoggedMsg{route: route.Name, ascent: t, err: err}
	}
}

// loadAscentsCmd starts a summary fetch when the loader is ready. The fetch
// runs in the command; the result is applied in Update so a stale answer
// can be dropped.
func (m *model) loadAscentsCmd() tea.Cmd {
	loader := m.sess.loader
	req, ok := loader.Begin(m.ctx)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return ascentsLoadedMsg{result: loader.Fetch(req)}
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		resolveAuthCmd(m.ctx, m.resolver),
		waitForCatalogChange(m.watcher),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}

	switch message := msg.(type) {
	case authResolvedMsg:
		m.authPending = false
		if message.err != nil {
			m.log.Warn("resolving sign-in failed", slog.Any("error", message.err))
			m.setToast("Prijava ni uspela: "+message.err.Error(), 0)
		}
		if m.sess.authenticate(message.status) {
			cmds = append(cmds, m.loadAscentsCmd())
		}
		m.dirty = true

	case ascentsLoadedMsg:
		if m.sess.loader.Resolve(message.result) {
			if message.result.Err != nil && !errors.Is(message.result.Err, context.Canceled) {
				m.setToast("Vzponov ni bilo mogoče naložiti.", 0)
			}
			m.dirty = true
		}

	case catalogChangedMsg:
		m.log.Debug("catalog changed on disk")
		if m.sess.crag != nil {
			cmds = append(cmds, reloadCragCmd(m.ctx, m.crags, m.sess.crag.Slug))
		}
		cmds = append(cmds, waitForCatalogChange(m.watcher))

	case cragLoadedMsg:
		if message.err != nil {
			m.log.Warn("reloading crag failed", slog.Any("error", message.err))
			if errors.Is(message.err, catalog.ErrNotFound) {
				m.setToast("Plezališče ni več v katalogu.", 0)
			}
			break
		}
		m.sess.setCrag(message.crag)
		m.refreshInfo()
		cmds = append(cmds, m.loadAscentsCmd())
		m.dirty = true

	case ascentLoggedMsg:
		if message.err != nil {
			m.log.Warn("logging ascent failed", slog.String("route", message.route), slog.Any("error", message.err))
			m.setToast("Vzpon ni bil shranjen: "+message.err.Error(), 0)
			break
		}
		m.setToast(fmt.Sprintf("Vzpon shranjen: %s, %s", message.route, message.ascent.Label()), 0)
		cmds = append(cmds, m.loadAscentsCmd())

	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
		m.applyLayout()
		return m, nil

	case tea.KeyMsg:
		if m.inputActive {
			cmds = append(cmds, m.handleInputKey(message))
			m.finishUpdate()
			return m, tea.Batch(cmds...)
		}
		if handled, cmd := m.handleGlobalKey(message); handled {
			cmds = append(cmds, cmd)
			m.finishUpdate()
			return m, tea.Batch(cmds...)
		}
	}

	if m.focus >= 0 && m.focus < len(m.columns) {
		var cmd tea.Cmd
		m.columns[m.focus], cmd = m.columns[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}
	m.finishUpdate()
	return m, tea.Batch(cmds...)
}

// finishUpdate rebuilds the route list when the view state, the location or
// the overlay changed while handling a message.
func (m *model) finishUpdate() {
	if m.dirty {
		m.refresh()
	}
}

func (m *model) refresh() {
	m.dirty = false
	v := m.sess.view()
	title := "Smeri · po sektorjih"
	if v.Combined {
		title = "Smeri · vse skupaj"
	}
	m.routes.SetTitle(title)
	m.routes.SetView(v)
}

func (m *model) refreshInfo() {
	if !m.showInfo {
		return
	}
	m.info.SetContent(m.markdown.Render(m.sess.crag))
}

func (m *model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.shutdown()
		return true, tea.Quit

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.applyLayout()
		return true, nil

	case key.Matches(msg, m.keys.nextFocus):
		if len(m.columns) > 1 {
			m.focus = (m.focus + 1) % len(m.columns)
		}
		return true, nil

	case key.Matches(msg, m.keys.activate):
		row, ok := m.routes.SelectedRow()
		if !ok || row.Kind != routeview.RowSector || !m.routesFocused() {
			return false, nil
		}
		if err := m.sess.toggleSector(row.SectorIndex); err != nil {
			m.setToast(err.Error(), 0)
		}
		return true, nil

	case key.Matches(msg, m.keys.search):
		query := ""
		if st := m.sess.state(); st.Search != nil {
			query = st.Search.Query
		}
		m.openInput("Iskanje (ime ali =izraz)", query, inputSearch)
		m.sess.store.Dispatch(viewstate.SetSearch{Search: &viewstate.SearchOptions{Query: query, Focus: true}})
		return true, nil

	case key.Matches(msg, m.keys.difficulty):
		var current *viewstate.Range
		if st := m.sess.state(); st.Filter != nil {
			current = st.Filter.Difficulty
		}
		m.openInput("Težavnost od-do (npr. 6a-7a)", formatDifficultyRange(current), inputDifficulty)
		return true, nil

	case key.Matches(msg, m.keys.pickColumns):
		m.openPicker(pickerColumns, "Stolpci", columnEntries(m.sess.reg, m.sess.state()))
		return true, nil

	case key.Matches(msg, m.keys.pickSort):
		m.openPicker(pickerSort, "Razvrsti", sortEntries(m.sess.reg, m.sess.state()))
		return true, nil

	case key.Matches(msg, m.keys.pickTouches):
		if m.sess.user() == nil {
			m.setToast("Za filter po vzponih se prijavi.", 0)
			return true, nil
		}
		m.openPicker(pickerTouches, "Moji vzponi", touchesEntries(m.sess.state()))
		return true, nil

	case key.Matches(msg, m.keys.pickStars):
		m.openPicker(pickerStars, "Lepota", starEntries(m.sess.state()))
		return true, nil

	case key.Matches(msg, m.keys.clearFilter):
		m.sess.store.Dispatch(viewstate.SetFilter{Filter: nil})
		return true, nil

	case key.Matches(msg, m.keys.combine):
		if err := m.sess.toggleCombine(); err != nil {
			if errors.Is(err, errCombineLocked) {
				m.setToast("Med iskanjem so smeri vedno prikazane skupaj.", 0)
			} else {
				m.setToast(err.Error(), 0)
			}
		}
		return true, nil

	case key.Matches(msg, m.keys.expandAll):
		if err := m.sess.expandAll(); err != nil {
			m.setToast(err.Error(), 0)
		}
		return true, nil

	case key.Matches(msg, m.keys.collapseAll):
		if err := m.sess.collapseAll(); err != nil {
			m.setToast(err.Error(), 0)
		}
		return true, nil

	case key.Matches(msg, m.keys.logAscent):
		return true, m.startLogAscent()

	case key.Matches(msg, m.keys.copyURL):
		link := m.sess.shareURL()
		if err := clipboard.WriteAll(link); err != nil {
			m.log.Debug("clipboard unavailable", slog.Any("error", err))
			m.setToast(link, 10*time.Second)
		} else {
			m.setToast("Povezava kopirana: "+link, 0)
		}
		return true, nil

	case key.Matches(msg, m.keys.reset):
		m.sess.reset()
		m.setToast("Pogled ponastavljen.", 0)
		return true, nil

	case key.Matches(msg, m.keys.toggleInfo):
		m.showInfo = !m.showInfo
		m.applyLayout()
		m.refreshInfo()
		return true, nil

	case key.Matches(msg, m.keys.cycleTheme):
		theme := m.markdown.NextTheme()
		m.refreshInfo()
		m.setToast("Tema: "+theme, 0)
		return true, nil
	}
	return false, nil
}

func (m *model) routesFocused() bool {
	return m.focus >= 0 && m.focus < len(m.columns) && m.columns[m.focus] == column(m.routes)
}

func (m *model) startLogAscent() tea.Cmd {
	user := m.sess.user()
	if user == nil || m.ascentLog == nil {
		m.setToast("Vzpone lahko beležiš le prijavljen v lokalnem katalogu.", 0)
		return nil
	}
	row, ok := m.routes.SelectedRow()
	if !ok || row.Kind != routeview.RowRoute {
		m.setToast("Izberi smer.", 0)
		return nil
	}
	m.openPicker(pickerAscent, "Vzpon: "+row.Route.Name, ascentEntries(row.Ascent))
	return nil
}

func (m *model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.shutdown()
		return tea.Quit
	}
	switch m.inputMode {
	case inputPicker:
		switch {
		case key.Matches(msg, m.keys.closeInput):
			m.closeInput()
			return nil
		case msg.Type == tea.KeyEnter:
			return m.choosePicker()
		}
		return m.picker.Update(msg)

	case inputSearch:
		switch {
		case key.Matches(msg, m.keys.closeInput):
			m.sess.store.Dispatch(viewstate.SetSearch{Search: nil})
			m.closeInput()
			return nil
		case msg.Type == tea.KeyEnter:
			m.applySearch(false)
			m.closeInput()
			return nil
		}
		var cmd tea.Cmd
		m.inputField, cmd = m.inputField.Update(msg)
		m.applySearch(true)
		return cmd

	case inputDifficulty:
		switch {
		case key.Matches(msg, m.keys.closeInput):
			m.closeInput()
			return nil
		case msg.Type == tea.KeyEnter:
			m.applyDifficulty(m.inputField.Value())
			m.closeInput()
			return nil
		}
	}
	var cmd tea.Cmd
	m.inputField, cmd = m.inputField.Update(msg)
	return cmd
}

// applySearch pushes the query as typed. An empty query clears the search.
func (m *model) applySearch(focus bool) {
	query := strings.TrimSpace(m.inputField.Value())
	if query == "" {
		m.sess.store.Dispatch(viewstate.SetSearch{Search: nil})
		return
	}
	m.sess.store.Dispatch(viewstate.SetSearch{Search: &viewstate.SearchOptions{Query: query, Focus: focus}})
}

func (m *model) applyDifficulty(input string) {
	r, err := parseDifficultyRange(input, m.sess.crag)
	if err != nil {
		m.setToast(err.Error(), 0)
		return
	}
	f := withFilter(m.sess.state())
	f.Difficulty = r
	m.sess.store.Dispatch(viewstate.SetFilter{Filter: &f})
}

func (m *model) choosePicker() tea.Cmd {
	e, ok := m.picker.Selected()
	if !ok {
		m.closeInput()
		return nil
	}
	st := m.sess.state()
	switch m.picker.kind {
	case pickerColumns:
		m.sess.store.Dispatch(viewstate.ToggleColumn{Name: e.value})
		m.picker.SetEntries(columnEntries(m.sess.reg, m.sess.state()))
		return nil

	case pickerStars:
		f := withFilter(st)
		var sr viewstate.StarRating
		if f.StarRating != nil {
			sr = *f.StarRating
		}
		switch e.value {
		case starsMarvelous:
			sr.Marvelous = !sr.Marvelous
		case starsBeautiful:
			sr.Beautiful = !sr.Beautiful
		case starsUnremarkable:
			sr.Unremarkable = !sr.Unremarkable
		}
		f.StarRating = &sr
		m.sess.store.Dispatch(viewstate.SetFilter{Filter: &f})
		m.picker.SetEntries(starEntries(m.sess.state()))
		return nil

	case pickerSort:
		if e.checked {
			m.sess.store.Dispatch(viewstate.SetSort{Sort: nil})
		} else {
			m.sess.store.Dispatch(viewstate.SetSort{Sort: &viewstate.SortOptions{Column: e.value, Direction: e.dir}})
		}

	case pickerTouches:
		f := withFilter(st)
		f.RoutesTouches = viewstate.RoutesTouches(e.value)
		m.sess.store.Dispatch(viewstate.SetFilter{Filter: &f})

	case pickerAscent:
		row, ok := m.routes.SelectedRow()
		user := m.sess.user()
		t, known := ascents.ParseType(e.value)
		m.closeInput()
		if !ok || row.Kind != routeview.RowRoute || user == nil || !known {
			return nil
		}
		return logAscentCmd(m.ctx, m.ascentLog, user.ID, row.Route, t)
	}
	m.closeInput()
	return nil
}

func (m *model) openInput(prompt, value string, mode inputMode) {
	m.inputMode = mode
	m.inputPrompt = prompt
	m.inputActive = true
	m.picker = nil
	m.inputField.SetValue(value)
	m.inputField.CursorEnd()
	m.inputField.Focus()
}

func (m *model) openPicker(kind pickerKind, title string, entries []pickerEntry) {
	m.inputMode = inputPicker
	m.inputPrompt = title
	m.inputActive = true
	m.inputField.Blur()
	m.picker = newPicker(kind, title, entries, m.styles)
	m.picker.SetSize(m.overlayWidth()-4, min(max(m.height/2, 8), 18))
}

func (m *model) closeInput() {
	m.inputActive = false
	m.inputMode = inputNone
	m.inputPrompt = ""
	m.picker = nil
	m.inputField.Blur()
	m.inputField.SetValue("")
}

func (m *model) overlayWidth() int {
	w := min(64, m.width-4)
	if w < 24 {
		w = 24
	}
	return w
}

func (m *model) applyLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	topChrome := 1
	bottomChrome := 1

	m.help.Width = max(m.width-4, 0)
	if helpView := m.help.View(m.keys); helpView != "" {
		bottomChrome += lipgloss.Height(helpView)
	}
	bodyHeight := m.height - topChrome - bottomChrome
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	routesWidth := m.width
	switch {
	case m.showInfo && m.width >= infoSplitWidth:
		infoWidth := m.width / 3
		routesWidth = m.width - infoWidth
		m.info.SetSize(infoWidth, bodyHeight)
		m.columns = []column{m.routes, m.info}
	case m.showInfo:
		m.info.SetSize(m.width, bodyHeight)
		m.columns = []column{m.info}
	default:
		m.columns = []column{m.routes}
	}
	if m.focus >= len(m.columns) {
		m.focus = 0
	}
	m.markdown.SetWrap(max(m.info.width-4, 20))

	m.routes.SetSize(routesWidth, bodyHeight)
	// Panel borders take two cells.
	m.sess.observe(routesWidth - 2)
	m.refresh()
}

func (m *model) View() string {
	var builder strings.Builder

	m.help.Width = max(m.width-4, 0)

	builder.WriteString(m.renderTopBar())
	builder.WriteRune('\n')

	var colViews []string
	for i, col := range m.columns {
		colViews = append(colViews, col.View(m.styles, i == m.focus))
	}
	builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, colViews...))
	builder.WriteRune('\n')

	if helpView := m.help.View(m.keys); helpView != "" {
		builder.WriteString(helpView)
		if !strings.HasSuffix(helpView, "\n") {
			builder.WriteRune('\n')
		}
	}
	builder.WriteString(m.renderStatus())

	if m.inputActive {
		builder.WriteString("\n")
		builder.WriteString(lipgloss.Place(m.width, m.height/2, lipgloss.Center, lipgloss.Center, m.renderInputOverlay()))
	}
	return m.styles.app.Render(builder.String())
}

func (m *model) renderTopBar() string {
	title := "cragbook"
	if c := m.sess.crag; c != nil {
		title += " • " + c.Name
	}
	right := ""
	switch {
	case m.authPending:
		right = m.spinner.View() + " prijava"
	case m.sess.user() != nil:
		right = m.sess.user().Initials()
	default:
		right = "neprijavljen"
	}
	if m.sess.loader.Loading() {
		right = m.spinner.View() + " nalagam vzpone • " + right
	}
	left := m.styles.topBar.Render(title)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return left + strings.Repeat(" ", gap) + m.styles.topStatus.Render(right)
}

func (m *model) renderInputOverlay() string {
	width := m.overlayWidth()
	var b strings.Builder
	if m.picker != nil {
		b.WriteString(m.picker.View(m.styles))
	} else {
		b.WriteString(m.styles.cmdPrompt.Render(m.inputPrompt))
		b.WriteRune('\n')
		b.WriteString(m.inputField.View())
		b.WriteRune('\n')
		hint := "enter confirm • esc cancel"
		if m.inputMode == inputSearch {
			hint = "enter keep • esc clear"
		}
		b.WriteString(m.styles.cmdHint.Render(hint))
	}
	return m.styles.cmdOverlay.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *model) renderStatus() string {
	v := m.routes.view
	st := m.sess.state()

	focusValue := "—"
	if len(m.columns) > 0 {
		if fv := strings.TrimSpace(m.columns[m.focus].FocusValue()); fv != "" {
			focusValue = fv
		}
	}
	segments := []string{
		m.styles.statusSeg.Render(focusValue),
		m.styles.statusSeg.Render(fmt.Sprintf("Smeri: %d/%d", v.Shown, v.Total)),
	}
	if st.Compact {
		segments = append(segments, m.styles.statusSeg.Render("Kompaktno"))
	}
	if s := filterSummary(st.Filter); s != "" {
		segments = append(segments, m.styles.statusSeg.Render("Filter: "+s))
	}
	if s := sortSummary(st.Sort, m.sess.reg); s != "" {
		segments = append(segments, m.styles.statusSeg.Render("Razvrsti: "+s))
	}
	if st.Search.Active() {
		segments = append(segments, m.styles.statusSeg.Render("Iskanje: "+st.Search.Query))
	}
	if v.SearchErr != nil {
		segments = append(segments, m.styles.statusErr.Render("Izraz: "+v.SearchErr.Error()))
	}
	if m.toastMessage != "" {
		if time.Now().After(m.toastExpires) {
			m.toastMessage = ""
		} else {
			segments = append(segments, m.styles.statusSeg.Render(m.toastMessage))
		}
	}
	content := strings.Join(segments, lipgloss.NewStyle().Render("│"))
	return m.styles.statusBar.Width(m.width).Render(content)
}

func (m *model) setToast(msg string, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}

// shutdown releases the subscriptions, cancels ascent fetches and stops the
// catalog watcher. It is safe to call more than once.
func (m *model) shutdown() {
	for _, release := range m.release {
		release()
	}
	m.release = nil
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.log.Debug("closing catalog watcher", slog.Any("error", err))
		}
	}
	m.sess.close()
}
