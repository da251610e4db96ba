package ascents

// Record is one ascent in a crag summary.
type Record struct {
	AscentType Type   `json:"ascentType"`
	Route      Route  `json:"route"`
	Date       string `json:"date,omitempty"`
}

type Route struct {
	ID   string `json:"id"`
	Slug string `json:"slug,omitempty"`
}

// Overlay maps route ids to ascent types. It is built once per fetch result
// and never changed afterwards; the zero value is an empty overlay.
type Overlay struct {
	m map[string]Type
}

// Build creates an overlay from records. A later record for the same route
// replaces an earlier one. Nil or empty input yields an empty overlay.
func Build(records []Record) Overlay {
	m := make(map[string]Type, len(records))
	for _, r := range records {
		if r.Route.ID == "" {
			continue
		}
		m[r.Route.ID] = r.AscentType
	}
	return Overlay{m: m}
}

// Empty is an overlay with no ascents.
func Empty() Overlay {
	return Overlay{m: map[string]Type{}}
}

// Lookup returns the ascent type recorded for routeID.
func (o Overlay) Lookup(routeID string) (Type, bool) {
	t, ok := o.m[routeID]
	return t, ok
}

func (o Overlay) Has(routeID string) bool {
	_, ok := o.m[routeID]
	return ok
}

func (o Overlay) Len() int {
	return len(o.m)
}

// Range calls fn for every entry until fn returns false.
func (o Overlay) Range(fn func(routeID string, t Type) bool) {
	for id, t := range o.m {
		if !fn(id, t) {
			return
		}
	}
}
