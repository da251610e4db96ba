// Package queryparam mirrors parts of the view state into URL query
// parameters and reads them back.
package queryparam

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Kind tells how many values a parameter carries.
type Kind int

const (
	None Kind = iota
	One
	Many
)

func (k Kind) String() string {
	switch k {
	case One:
		return "one"
	case Many:
		return "many"
	default:
		return "none"
	}
}

// Value is a query parameter value in one of three shapes: absent, a single
// string, or an ordered sequence of strings. Routers may report a one element
// sequence as a single string, so readers must treat the shapes alike.
type Value struct {
	kind   Kind
	values []string
}

func Absent() Value { return Value{} }

func Single(v string) Value { return Value{kind: One, values: []string{v}} }

// Sequence returns a Many value. Use Encode to pick the canonical shape.
func Sequence(vs ...string) Value {
	return Value{kind: Many, values: slices.Clone(vs)}
}

// Encode picks the canonical shape for vs: absent when empty, a single
// string for one value and a sequence otherwise.
func Encode(vs []string) Value {
	switch len(vs) {
	case 0:
		return Absent()
	case 1:
		return Single(vs[0])
	default:
		return Sequence(vs...)
	}
}

// FromQuery reads the named parameter from q.
func FromQuery(q url.Values, name string) Value {
	return Encode(q[name])
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == None || len(v.values) == 0 }

// Strings normalizes every shape to a slice: nil, one element, or all of them.
func (v Value) Strings() []string {
	if v.IsAbsent() {
		return nil
	}
	return slices.Clone(v.values)
}

// First returns the first value, if any.
func (v Value) First() (string, bool) {
	if v.IsAbsent() {
		return "", false
	}
	return v.values[0], true
}

// Equal compares the normalized values, so Single("a") equals Sequence("a").
func (v Value) Equal(o Value) bool {
	return slices.Equal(v.Strings(), o.Strings())
}

func (v Value) String() string {
	switch v.kind {
	case One:
		return v.values[0]
	case Many:
		return "[" + strings.Join(v.values, ",") + "]"
	default:
		return "<absent>"
	}
}

// DecodeIndices parses every entry as a non-negative integer. Entries that do
// not parse are skipped and repeated indices are kept once, in first-seen order.
func DecodeIndices(v Value) []int {
	var out []int
	for _, s := range v.Strings() {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 {
			continue
		}
		if slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// EncodeIndices is the inverse of DecodeIndices.
func EncodeIndices(indices []int) Value {
	vs := make([]string, 0, len(indices))
	for _, i := range indices {
		vs = append(vs, strconv.Itoa(i))
	}
	return Encode(vs)
}
