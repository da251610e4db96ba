package viewstate

import (
	"sync"

	"github.com/bekirdag/cragbook/internal/columns"
)

// Listener is called after a change with the previous and the new state.
type Listener func(prev, next ViewState)

// Store is the single serialization point for view state changes.
type Store struct {
	reg *columns.Registry

	mu        sync.Mutex
	state     ViewState
	listeners map[int]Listener
	nextID    int

	// pending holds committed changes not yet delivered. Only the caller
	// that finds delivering false drains it, so listeners see changes in
	// commit order even with concurrent writers.
	pending    []change
	delivering bool
}

type change struct {
	prev, next ViewState
}

// Initial is the state of a freshly mounted route list: default columns,
// compact until the container is measured, nothing searched, filtered or sorted.
func Initial(reg *columns.Registry) ViewState {
	return ViewState{
		Compact:         true,
		SelectedColumns: reg.DefaultColumns(),
	}
}

func NewStore(reg *columns.Registry) *Store {
	return &Store{
		reg:       reg,
		state:     Initial(reg),
		listeners: make(map[int]Listener),
	}
}

func (s *Store) Registry() *columns.Registry {
	return s.reg
}

// State returns a copy of the current state.
func (s *Store) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Set replaces the whole state. The column selection is normalized so
// non-optional columns survive any replacement.
func (s *Store) Set(next ViewState) ViewState {
	next = next.Clone()
	next.SelectedColumns = s.reg.Normalize(next.SelectedColumns)
	return s.commit(func(ViewState) ViewState { return next })
}

// Dispatch applies the intents in order to the latest state and returns the
// resulting state.
func (s *Store) Dispatch(intents ...Intent) ViewState {
	return s.commit(func(cur ViewState) ViewState {
		for _, in := range intents {
			if in == nil {
				continue
			}
			cur = in.apply(cur, s.reg)
		}
		return cur
	})
}

func (s *Store) commit(fn func(ViewState) ViewState) ViewState {
	s.mu.Lock()
	prev := s.state
	next := fn(prev.Clone())
	s.state = next
	s.pending = append(s.pending, change{prev: prev, next: next})
	if s.delivering {
		s.mu.Unlock()
		return next.Clone()
	}
	s.delivering = true
	s.mu.Unlock()

	s.deliver()
	return next.Clone()
}

// deliver fans out pending changes one at a time, outside the lock.
// Intents dispatched by a listener are queued and delivered after the
// current change has reached every listener.
func (s *Store) deliver() {
	drained := false
	defer func() {
		if !drained {
			// A listener panicked; let the next commit deliver again.
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
		}
	}()
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			drained = true
			s.mu.Unlock()
			return
		}
		ch := s.pending[0]
		s.pending = s.pending[1:]
		listeners := make([]Listener, 0, len(s.listeners))
		for id := 0; id < s.nextID; id++ {
			if l, ok := s.listeners[id]; ok {
				listeners = append(listeners, l)
			}
		}
		s.mu.Unlock()

		for _, l := range listeners {
			l(ch.prev.Clone(), ch.next.Clone())
		}
	}
}

// Subscribe registers l and returns the function that releases it. Listeners
// run outside the store lock and may dispatch further intents; those changes
// are delivered after the current one.
func (s *Store) Subscribe(l Listener) (release func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}
