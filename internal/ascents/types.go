// Package ascents builds the per-route overlay of the signed-in climber's
// ascents for a crag.
package ascents

import "strings"

// Type is an ascent type as reported by the catalog.
type Type string

const (
	Onsight   Type = "onsight"
	Flash     Type = "flash"
	Redpoint  Type = "redpoint"
	Repeat    Type = "repeat"
	Allfree   Type = "allfree"
	Aid       Type = "aid"
	Attempt   Type = "attempt"
	TOnsight  Type = "t_onsight"
	TFlash    Type = "t_flash"
	TRedpoint Type = "t_redpoint"
	TRepeat   Type = "t_repeat"
	TAllfree  Type = "t_allfree"
	TAid      Type = "t_aid"
	TAttempt  Type = "t_attempt"
)

// Types lists lead ascent types followed by their top-rope variants.
var Types = []Type{
	Onsight, Flash, Redpoint, Repeat, Allfree, Aid, Attempt,
	TOnsight, TFlash, TRedpoint, TRepeat, TAllfree, TAid, TAttempt,
}

var labels = map[Type]string{
	Onsight:  "na pogled",
	Flash:    "flash",
	Redpoint: "rdeča pika",
	Repeat:   "ponovitev",
	Allfree:  "vse prosto",
	Aid:      "tehnično",
	Attempt:  "neuspešno",
}

var glyphs = map[Type]string{
	Onsight:  "◉",
	Flash:    "ϟ",
	Redpoint: "●",
	Repeat:   "↻",
	Allfree:  "○",
	Aid:      "⚒",
	Attempt:  "✗",
}

// ParseType accepts the catalog spelling in any case, including the
// upper-case GraphQL enum form ("T_REDPOINT").
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}

func (t Type) IsToprope() bool {
	return strings.HasPrefix(string(t), "t_")
}

// Lead returns the type without its top-rope marker.
func (t Type) Lead() Type {
	return Type(strings.TrimPrefix(string(t), "t_"))
}

// IsTick reports whether the ascent counts as a completed lead ascent.
func (t Type) IsTick() bool {
	switch t {
	case Onsight, Flash, Redpoint, Repeat:
		return true
	}
	return false
}

// Label is the human readable name; top-rope ascents get a suffix.
func (t Type) Label() string {
	l, ok := labels[t.Lead()]
	if !ok {
		return string(t)
	}
	if t.IsToprope() {
		return l + " (top rope)"
	}
	return l
}

// Glyph is a one-cell marker for table cells.
func (t Type) Glyph() string {
	g, ok := glyphs[t.Lead()]
	if !ok {
		return "?"
	}
	if t.IsToprope() {
		return "t" + g
	}
	return g
}

// Rank orders types from the most to the least significant ascent. Lower is
// better; unknown types rank last.
func (t Type) Rank() int {
	order := []Type{
		Onsight, Flash, Redpoint, Repeat, Allfree,
		TOnsight, TFlash, TRedpoint, TRepeat, TAllfree,
		Aid, TAid, Attempt, TAttempt,
	}
	for i, o := range order {
		if o == t {
			return i
		}
	}
	return len(order)
}
