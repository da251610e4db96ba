// Package breakpoint decides whether the route list renders compact or
// expanded from the container width and the width of the selected columns.
package breakpoint

import (
	"slices"
	"sync"

	"github.com/bekirdag/cragbook/internal/viewstate"
)

// Compact reports whether a container of the given width is too narrow for
// columns summing to breakpoint. A width equal to the breakpoint is compact.
func Compact(containerWidth, breakpoint int) bool {
	return containerWidth <= breakpoint
}

// Monitor follows the store's column selection and the observed container
// width and dispatches the compact flag whenever it changes.
type Monitor struct {
	store *viewstate.Store

	mu         sync.Mutex
	breakpoint int
	width      int
	measured   bool
	release    func()
}

// NewMonitor subscribes to store. Call Close when the view goes away.
func NewMonitor(store *viewstate.Store) *Monitor {
	m := &Monitor{store: store}
	st := store.State()
	m.breakpoint = store.Registry().WidthOf(st.SelectedColumns)
	m.release = store.Subscribe(m.onChange)
	return m
}

func (m *Monitor) onChange(prev, next viewstate.ViewState) {
	if slices.Equal(prev.SelectedColumns, next.SelectedColumns) {
		return
	}
	m.mu.Lock()
	m.breakpoint = m.store.Registry().WidthOf(next.SelectedColumns)
	m.mu.Unlock()
	m.sync()
}

// Observe records the current container width. Widths are in the same unit
// as column widths.
func (m *Monitor) Observe(width int) {
	if width < 0 {
		width = 0
	}
	m.mu.Lock()
	m.width = width
	m.measured = true
	m.mu.Unlock()
	m.sync()
}

// sync pushes the derived flag into the store when it differs.
func (m *Monitor) sync() {
	compact := m.Compact()
	if m.store.State().Compact != compact {
		m.store.Dispatch(viewstate.SetCompact{Compact: compact})
	}
}

// Compact is the derived flag. Before the first measurement the width counts
// as 0, so the list starts compact.
func (m *Monitor) Compact() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := 0
	if m.measured {
		w = m.width
	}
	return Compact(w, m.breakpoint)
}

func (m *Monitor) Breakpoint() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.breakpoint
}

// Width returns the last observed width and whether one was observed.
func (m *Monitor) Width() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.measured
}

// Close stops following the store. It is safe to call more than once.
func (m *Monitor) Close() {
	m.mu.Lock()
	release := m.release
	m.release = nil
	m.mu.Unlock()
	if release != nil {
		release()
	}
}
