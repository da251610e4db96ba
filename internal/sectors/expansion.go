// Package sectors tracks which sectors of a crag are expanded and keeps that
// set mirrored in the "s" query parameter.
package sectors

import (
	"slices"
	"sync"

	"github.com/bekirdag/cragbook/internal/queryparam"
)

// Param is the query parameter holding expanded sector indices.
const Param = "s"

// Expansion is the set of expanded sector indices in toggle order.
type Expansion struct {
	mu      sync.Mutex
	router  queryparam.Router
	param   string
	indices []int
}

// New seeds the set from the router's current query. Malformed entries are
// ignored.
func New(r queryparam.Router) *Expansion {
	return NewWithParam(r, Param)
}

func NewWithParam(r queryparam.Router, param string) *Expansion {
	return &Expansion{
		router:  r,
		param:   param,
		indices: queryparam.DecodeIndices(queryparam.FromQuery(r.Query(), param)),
	}
}

// Toggle expands a collapsed sector or collapses an expanded one, then writes
// the updated set to the router. The in-memory set is authoritative: a failed
// write leaves it changed and is only reported.
func (e *Expansion) Toggle(index int) error {
	if index < 0 {
		return nil
	}
	e.mu.Lock()
	if i := slices.Index(e.indices, index); i >= 0 {
		e.indices = slices.Delete(e.indices, i, i+1)
	} else {
		e.indices = append(e.indices, index)
	}
	enc := queryparam.EncodeIndices(e.indices)
	e.mu.Unlock()

	return e.router.Replace(e.param, enc, queryparam.SyncOptions)
}

// ExpandAll expands sectors 0..n-1 in order.
func (e *Expansion) ExpandAll(n int) error {
	e.mu.Lock()
	e.indices = e.indices[:0]
	for i := 0; i < n; i++ {
		e.indices = append(e.indices, i)
	}
	enc := queryparam.EncodeIndices(e.indices)
	e.mu.Unlock()
	return e.router.Replace(e.param, enc, queryparam.SyncOptions)
}

func (e *Expansion) CollapseAll() error {
	e.mu.Lock()
	e.indices = nil
	e.mu.Unlock()
	return e.router.Replace(e.param, queryparam.Absent(), queryparam.SyncOptions)
}

func (e *Expansion) IsExpanded(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.indices, index)
}

// Indices returns the expanded indices in toggle order.
func (e *Expansion) Indices() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.indices)
}
