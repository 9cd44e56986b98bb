// Package search implements the HNSW search primitives: the greedy single-path layer walk used while descending
// from the entry point, the best-first layer search that produces a
// candidate set of size ef, and the k-NN / radius queries built on top
// of them.
package search

import (
	"sort"

	"github.com/mohit67890/realm-core-hnsw/distance"
	"github.com/mohit67890/realm-core-hnsw/internal/graphstore"
)

// Result is one (row-key, distance) pair returned by a query.
type Result struct {
	RowKey   int64
	Distance float64
}

// Engine runs searches against a graphstore.Store using a single
// distance kernel. It holds no lock of its own — callers (the hnsw
// package) are responsible for holding the appropriate read or write
// lock for the duration of a call.
type Engine struct {
	store *graphstore.Store
	dist  distance.Func
}

// New returns an Engine over store using dist for all distance
// computations.
func New(store *graphstore.Store, dist distance.Func) *Engine {
	return &Engine{store: store, dist: dist}
}

// Walk performs the greedy single-path descent used above the target
// layer: it starts at entry and repeatedly moves to whichever unvisited
// neighbor at layer l is strictly closer to query, until no neighbor
// improves on the current best. Returns the row-key it settled on.
func (e *Engine) Walk(query []float64, entry int64, l int) int64 {
	best := entry
	bestNode := e.store.Lookup(best)
	if bestNode == nil {
		return entry
	}
	bestDist := e.dist(query, bestNode.Vector)

	for {
		improved := false
		for _, nb := range e.store.Neighbors(best, l) {
			nbNode := e.store.Lookup(nb)
			if nbNode == nil {
				continue
			}
			d := e.dist(query, nbNode.Vector)
			if d < bestDist {
				best = nb
				bestDist = d
				improved = true
			}
		}
		if !improved {
			return best
		}
	}
}

// SearchLayer runs the best-first layer search: starting
// at entry (assumed present, dimension-matched), it maintains a min-heap
// of open candidates and a max-heap of the best ef results seen, and
// returns the best set sorted ascending by distance.
func (e *Engine) SearchLayer(query []float64, entry int64, ef int, l int) []Result {
	entryNode := e.store.Lookup(entry)
	if entryNode == nil {
		return nil
	}
	entryDist := e.dist(query, entryNode.Vector)

	candidates := NewMin()
	top := NewMax()
	visited := map[int64]struct{}{entry: {}}

	candidates.PushItem(entry, entryDist)
	top.PushItem(entry, entryDist)

	for candidates.Len() > 0 {
		c := candidates.PopItem()
		if top.Len() >= ef {
			worst := top.Top()
			if c.Distance > worst.Distance {
				break
			}
		}

		cNode := e.store.Lookup(c.RowKey)
		if cNode == nil {
			continue
		}
		for _, nb := range e.store.Neighbors(c.RowKey, l) {
			if _, seen := visited[nb]; seen {
				continue
			}
			visited[nb] = struct{}{}

			nbNode := e.store.Lookup(nb)
			if nbNode == nil {
				continue
			}
			d := e.dist(query, nbNode.Vector)

			shouldPush := top.Len() < ef
			if !shouldPush {
				worst := top.Top()
				shouldPush = d < worst.Distance
			}
			if shouldPush {
				candidates.PushItem(nb, d)
				top.PushItem(nb, d)
				if top.Len() > ef {
					top.PopItem()
				}
			}
		}
	}

	items := top.Drain()
	results := make([]Result, len(items))
	for i, it := range items {
		// Drain on a max-heap yields farthest-first; reverse into ascending.
		results[len(items)-1-i] = Result{RowKey: it.RowKey, Distance: it.Distance}
	}
	return results
}

// SearchKNN performs a full k-nearest-neighbor query descending from
// the graph's entry point. Returns an
// empty slice if the graph is empty or k is 0.
func (e *Engine) SearchKNN(query []float64, k int, ef int) []Result {
	n := e.store.Len()
	if n == 0 || k == 0 {
		return nil
	}
	entry, ok := e.store.EntryPoint()
	if !ok {
		return nil
	}
	if k > n {
		k = n
	}
	if ef < k {
		ef = k
	}
	if ef > n {
		ef = n
	}

	start := entry
	for l := e.store.EntryLayer(); l >= 1; l-- {
		start = e.Walk(query, start, l)
	}

	results := e.SearchLayer(query, start, ef, 0)
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// SearchRadius runs a k-NN query sized to the whole graph and
// truncates to the prefix within rmax. Because k = n, SearchKNN raises
// ef to n, so the layer-0 search keeps every node it reaches. This is an
// approximation (see DESIGN.md): it may miss vectors within the radius
// that are not reachable from the entry point, but never returns a
// vector farther than rmax.
func (e *Engine) SearchRadius(query []float64, rmax float64, efSearch int) []Result {
	n := e.store.Len()
	if n == 0 {
		return nil
	}

	m := efSearch
	if n > m {
		m = n
	}
	ef := 2 * efSearch
	if m < ef {
		ef = m
	}

	all := e.SearchKNN(query, n, ef)
	idx := sort.Search(len(all), func(i int) bool { return all[i].Distance > rmax })
	return all[:idx]
}
