// Package catalog stores crags, sectors, routes, climbers and their ascents.
package catalog

type Crag struct {
	ID          string
	Slug        string
	Name        string
	Country     string
	Description string
	Sectors     []Sector
}

// Routes returns every route of the crag in sector order.
func (c *Crag) Routes() []Route {
	var out []Route
	for _, s := range c.Sectors {
		out = append(out, s.Routes...)
	}
	return out
}

// RouteCount is the number of routes over all sectors.
func (c *Crag) RouteCount() int {
	n := 0
	for _, s := range c.Sectors {
		n += len(s.Routes)
	}
	return n
}

type Sector struct {
	ID       string
	Label    string
	Name     string
	Position int
	Routes   []Route
}

// Title joins the sector label and name, e.g. "A - Glavna stena".
func (s Sector) Title() string {
	switch {
	case s.Label != "" && s.Name != "":
		return s.Label + " - " + s.Name
	case s.Label != "":
		return s.Label
	default:
		return s.Name
	}
}

type Route struct {
	ID         string
	Slug       string
	SectorID   string
	SectorName string
	Position   int
	Name       string
	Grade      string
	// Difficulty is the numeric grade used for sorting and filtering; nil
	// when the route is ungraded.
	Difficulty *float64
	// Length in meters; nil when unknown.
	Length     *float64
	StarRating int
	NrTicks    int
	NrTries    int
	NrClimbers int
	NrComments int
}
