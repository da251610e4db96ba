package queryparam

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Options control how a write reaches the router.
type Options struct {
	// Scroll resets the viewport to the top after navigation.
	Scroll bool
	// Shallow updates the location without reloading the page data.
	Shallow bool
	// Push adds a history entry instead of replacing the current one.
	Push bool
}

// SyncOptions is used for every view state mirror write: no scroll, no data
// reload, no new history entry.
var SyncOptions = Options{Scroll: false, Shallow: true, Push: false}

// Router is the part of navigation the synchronizer needs.
type Router interface {
	Query() url.Values
	Replace(name string, v Value, opts Options) error
}

// Toggle treats the parameter as a flag: if it already holds value it is
// removed, otherwise it is set to value.
func Toggle(r Router, name, value string) error {
	cur := FromQuery(r.Query(), name)
	if first, ok := cur.First(); ok && first == value && cur.Kind() == One {
		return r.Replace(name, Absent(), SyncOptions)
	}
	return r.Replace(name, Single(value), SyncOptions)
}

// Present reports whether the named flag parameter is set to value.
func Present(r Router, name, value string) bool {
	first, ok := FromQuery(r.Query(), name).First()
	return ok && first == value
}

// Change describes one applied write.
type Change struct {
	Name    string
	Value   Value
	Options Options
	URL     string
}

// MemoryRouter keeps the location in memory. It stands in for a browser
// location in the terminal client and produces shareable URLs.
type MemoryRouter struct {
	mu        sync.Mutex
	base      string
	path      string
	query     url.Values
	history   []string
	listeners map[int]func(Change)
	nextID    int
}

// NewMemoryRouter starts at path with an empty query.
func NewMemoryRouter(base, path string) *MemoryRouter {
	r := &MemoryRouter{
		base:      strings.TrimRight(base, "/"),
		path:      path,
		query:     url.Values{},
		listeners: make(map[int]func(Change)),
	}
	r.history = []string{r.locationLocked()}
	return r
}

// ParseLocation starts a router from a full URL or a path with a query
// string, e.g. "/plezalisce/osp?s=0&combine=true".
func ParseLocation(raw string) (*MemoryRouter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty location")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse location: %w", err)
	}
	base := ""
	if u.Scheme != "" && u.Host != "" {
		base = u.Scheme + "://" + u.Host
	}
	r := NewMemoryRouter(base, u.Path)
	r.query = u.Query()
	r.history = []string{r.locationLocked()}
	return r, nil
}

func (r *MemoryRouter) Query() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(url.Values, len(r.query))
	for k, v := range r.query {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (r *MemoryRouter) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Replace writes one parameter. The last write wins.
func (r *MemoryRouter) Replace(name string, v Value, opts Options) error {
	if name == "" {
		return errors.New("empty parameter name")
	}
	r.mu.Lock()
	if v.IsAbsent() {
		r.query.Del(name)
	} else {
		r.query[name] = v.Strings()
	}
	loc := r.locationLocked()
	if opts.Push {
		r.history = append(r.history, loc)
	} else {
		r.history[len(r.history)-1] = loc
	}
	listeners := r.listenersLocked()
	full := r.base + loc
	r.mu.Unlock()

	ch := Change{Name: name, Value: v, Options: opts, URL: full}
	for _, l := range listeners {
		l(ch)
	}
	return nil
}

// Navigate moves to another path with a fresh query and a new history entry.
func (r *MemoryRouter) Navigate(path string) {
	r.mu.Lock()
	r.path = path
	r.query = url.Values{}
	r.history = append(r.history, r.locationLocked())
	r.mu.Unlock()
}

// Back restores the previous history entry. It reports false at the start.
func (r *MemoryRouter) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) < 2 {
		return false
	}
	r.history = r.history[:len(r.history)-1]
	u, err := url.Parse(r.history[len(r.history)-1])
	if err != nil {
		return false
	}
	r.path = u.Path
	r.query = u.Query()
	return true
}

// HistoryLen is the number of entries, including the current one.
func (r *MemoryRouter) HistoryLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}

// URL returns the shareable location, absolute when a base is known.
func (r *MemoryRouter) URL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.base + r.locationLocked()
}

// OnChange registers l for every applied write and returns its release.
func (r *MemoryRouter) OnChange(l func(Change)) (release func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *MemoryRouter) listenersLocked() []func(Change) {
	out := make([]func(Change), 0, len(r.listeners))
	for id := 0; id < r.nextID; id++ {
		if l, ok := r.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// locationLocked encodes the query keeping the value order of every key.
// url.Values.Encode sorts keys, which keeps the output stable.
func (r *MemoryRouter) locationLocked() string {
	q := r.query.Encode()
	if q == "" {
		return r.path
	}
	return r.path + "?" + q
}
