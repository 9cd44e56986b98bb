package hnsw

import (
	"context"
	"time"

	"github.com/mohit67890/realm-core-hnsw/internal/graphstore"
	"github.com/mohit67890/realm-core-hnsw/internal/neighbor"
	"github.com/mohit67890/realm-core-hnsw/vectorsource"
)

// Insert fetches row-key's vector via the configured VectorSource and
// links it into the graph. A row with an empty vector (host signals
// "skip indexing") is a silent no-op. Inserting an already-present
// row-key replaces its node (the old node is unlinked and removed
// first), so the node count does not grow.
func (idx *Index) Insert(ctx context.Context, rowKey int64) error {
	start := time.Now()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	err := idx.insertLocked(ctx, rowKey)
	if err == nil {
		err = idx.saveLocked()
	}
	idx.cfg.MetricsCollector.RecordInsert(time.Since(start), err)
	idx.cfg.MetricsCollector.SetNodeCount(idx.store.Len())
	idx.cfg.Logger.LogInsert(ctx, rowKey, idx.store.EntryLayer(), err)
	return err
}

func (idx *Index) insertLocked(ctx context.Context, rowKey int64) error {
	v, err := idx.fetchAndValidate(ctx, rowKey)
	if err != nil || v == nil {
		return err
	}
	// The store holds one node per row-key; unlink any existing one so
	// registering the new node leaves no stale edges behind.
	idx.eraseLocked(rowKey)
	idx.linkNode(rowKey, v)
	return nil
}

// fetchAndValidate fetches row-key's vector and checks it against the
// established dimension without touching any graph state. Callers that
// need to mutate an existing node (Set) must call this before erasing
// the old node, so a fetch error or dimension mismatch leaves the prior
// node completely intact. A nil, nil return means "empty vector, skip
// indexing" — the caller's existing no-op case.
func (idx *Index) fetchAndValidate(ctx context.Context, rowKey int64) ([]float64, error) {
	v, err := idx.source.Fetch(ctx, rowKey)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	if err := vectorsource.Validate(&idx.dimension, v); err != nil {
		return nil, err
	}
	return v, nil
}

// linkNode runs the insert algorithm over an already-validated,
// already-dimension-checked vector: sample a layer, register the node,
// then link and prune at every layer from min(L, entry-layer) down to 0.
func (idx *Index) linkNode(rowKey int64, v []float64) {
	layer := idx.sampler.Sample()
	node := &graphstore.Node{
		RowKey:    rowKey,
		Vector:    v,
		TopLayer:  layer,
		Adjacency: make([][]int64, layer+1),
	}

	entry, hasEntry := idx.store.EntryPoint()
	entryLayer := idx.store.EntryLayer()

	if !hasEntry {
		idx.store.Register(node)
		idx.store.SetEntryPoint(rowKey, layer)
		return
	}

	start := entry
	for l := entryLayer; l > layer; l-- {
		start = idx.engine.Walk(v, start, l)
	}

	idx.store.Register(node)

	top := layer
	if entryLayer < top {
		top = entryLayer
	}
	for l := top; l >= 0; l-- {
		results := idx.engine.SearchLayer(v, start, idx.cfg.EFConstruction, l)
		candidates := make([]neighbor.Candidate, 0, len(results))
		for _, r := range results {
			n := idx.store.Lookup(r.RowKey)
			if n == nil {
				continue
			}
			candidates = append(candidates, neighbor.Candidate{
				RowKey:   r.RowKey,
				Distance: r.Distance,
				Vector:   n.Vector,
			})
		}

		mL := idx.cfg.M
		useHeuristic := idx.cfg.UseHeuristic
		if l == 0 {
			mL = idx.cfg.M0
			useHeuristic = false
		} else if useHeuristic {
			candidates = neighbor.Extend(idx.store, idx.dist, v, candidates, l)
		}

		chosen := neighbor.Select(idx.dist, candidates, mL, useHeuristic)
		for _, c := range chosen {
			idx.store.Link(rowKey, c.RowKey, l)
			neighborCap := idx.cfg.M
			if l == 0 {
				neighborCap = idx.cfg.M0
			}
			neighbor.Prune(idx.store, idx.dist, l, neighborCap, idx.cfg.UseHeuristic, c.RowKey)
		}

		if len(results) > 0 {
			start = results[0].RowKey
		}
	}

	if layer > entryLayer {
		idx.store.SetEntryPoint(rowKey, layer)
	}
}

// Set replaces row-key's vector: erase then insert, re-sampling the
// layer. The new vector is fetched and validated before anything is
// erased, so a failing fetch or a dimension mismatch leaves the prior
// node untouched rather than deleting it with nothing to replace it.
func (idx *Index) Set(ctx context.Context, rowKey int64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	v, err := idx.fetchAndValidate(ctx, rowKey)
	if err != nil {
		idx.cfg.Logger.LogInsert(ctx, rowKey, idx.store.EntryLayer(), err)
		return err
	}

	idx.eraseLocked(rowKey)
	if v != nil {
		idx.linkNode(rowKey, v)
	}
	err = idx.saveLocked()
	idx.cfg.Logger.LogInsert(ctx, rowKey, idx.store.EntryLayer(), err)
	return err
}

// Erase removes row-key from the graph, if present, and restores
// entry-point maximality. Erasing an absent row-key is a no-op, not an
// error. A non-nil error here is always a storage failure from the
// subsequent persist, never a sign the in-memory erase didn't happen:
// in-memory state already reflects the mutation when the error is
// returned.
func (idx *Index) Erase(ctx context.Context, rowKey int64) error {
	start := time.Now()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	found := idx.eraseLocked(rowKey)
	var err error
	if found {
		err = idx.saveLocked()
	}
	idx.cfg.MetricsCollector.RecordErase(time.Since(start))
	idx.cfg.MetricsCollector.SetNodeCount(idx.store.Len())
	idx.cfg.Logger.LogErase(ctx, rowKey, found)
	return err
}

func (idx *Index) eraseLocked(rowKey int64) bool {
	node := idx.store.Lookup(rowKey)
	if node == nil {
		return false
	}

	for l := 0; l <= node.TopLayer; l++ {
		for _, b := range idx.store.Neighbors(rowKey, l) {
			idx.store.Unlink(rowKey, b, l)
		}
	}
	idx.store.Remove(rowKey)

	if entry, hasEntry := idx.store.EntryPoint(); hasEntry && entry == rowKey {
		idx.store.RecomputeEntryPoint()
	}
	return true
}

// Rebuild tears down the graph and reinserts every node in map
// iteration order. Used for offline repair, not incremental
// maintenance. Unlike Insert, Rebuild does not re-fetch from the host's
// VectorSource: it reinserts the vectors already held by the graph, so
// a concurrent host-side row change is not observed until the next
// ordinary Insert/Set.
func (idx *Index) Rebuild(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	type saved struct {
		rowKey int64
		vector []float64
	}
	nodes := idx.store.Nodes()
	all := make([]saved, 0, len(nodes))
	for rowKey, n := range nodes {
		all = append(all, saved{rowKey: rowKey, vector: n.Vector})
	}

	idx.store.Clear()

	for _, s := range all {
		idx.linkNode(s.rowKey, s.vector)
	}
	err := idx.saveLocked()
	idx.cfg.Logger.LogRebuild(ctx, len(all), err)
	idx.cfg.MetricsCollector.SetNodeCount(idx.store.Len())
	return err
}
