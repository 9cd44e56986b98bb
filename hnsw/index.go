// Package hnsw implements an on-disk Hierarchical Navigable Small World
// approximate nearest-neighbor index over variable-length float vectors
// attached to rows of a host database. It wires together the graph
// store, layer sampler, search engine, and neighbor selector into a
// single concurrency-safe Index guarded by one readers-writer lock.
package hnsw

import (
	"context"
	"sync"

	"github.com/mohit67890/realm-core-hnsw/distance"
	"github.com/mohit67890/realm-core-hnsw/internal/graphstore"
	"github.com/mohit67890/realm-core-hnsw/internal/sampler"
	"github.com/mohit67890/realm-core-hnsw/internal/search"
	"github.com/mohit67890/realm-core-hnsw/storage"
	"github.com/mohit67890/realm-core-hnsw/vectorsource"
)

// Index is the CORE's public entry point: a single in-memory graph plus
// configuration, guarded end-to-end by one sync.RWMutex.
type Index struct {
	mu sync.RWMutex

	cfg    Config
	dist   distance.Func
	source vectorsource.VectorSource

	store   *graphstore.Store
	engine  *search.Engine
	sampler *sampler.Sampler

	// persist is the attached block-arena root. It is nil
	// for an in-memory-only index (New without Create), in which case
	// saveLocked is a no-op.
	persist *storage.Store

	dimension int
}

// New creates a new, empty index over source, applying opts on top of
// DefaultConfig. The persisted root is the caller's
// responsibility via the storage package's Save.
func New(source vectorsource.VectorSource, opts ...Option) (*Index, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	distFn, err := distance.ForMetric(cfg.Metric)
	if err != nil {
		return nil, err
	}

	store := graphstore.New()
	idx := &Index{
		cfg:     cfg,
		dist:    distFn,
		source:  source,
		store:   store,
		engine:  search.New(store, distFn),
		sampler: sampler.New(cfg.RandomSeed, cfg.Ml),
	}
	return idx, nil
}

// Count returns the number of indexed nodes.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.store.Len()
}

// IsEmpty reports whether the index holds no nodes.
func (idx *Index) IsEmpty() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.store.Len() == 0
}

// MaxLayer returns the current entry-layer, -1 when empty.
func (idx *Index) MaxLayer() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.store.EntryLayer()
}

// EntryPoint returns the current entry-point row-key and whether the
// index is non-empty.
func (idx *Index) EntryPoint() (int64, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.store.EntryPoint()
}

// Dimension returns the configured vector dimension, 0 until the first
// successful insert.
func (idx *Index) Dimension() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Metrics returns the configured MetricsCollector.
func (idx *Index) Metrics() MetricsCollector {
	return idx.cfg.MetricsCollector
}

// Clear empties the graph, resetting entry-point and dimension, but
// keeps configuration (metric, M, ef, ...) intact.
func (idx *Index) Clear(ctx context.Context) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.store.Clear()
	idx.dimension = 0
	idx.cfg.Logger.LogPersist(ctx, "clear", 0, nil)
}

// Verify checks the index's structural invariants against the live
// graph and returns the first violation found, or nil. It is
// assertion-based and intended for tests.
func (idx *Index) Verify() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.verifyLocked()
}

func (idx *Index) verifyLocked() error {
	entry, hasEntry := idx.store.EntryPoint()
	layer := idx.store.EntryLayer()

	if idx.store.Len() == 0 {
		if hasEntry || layer != -1 {
			return &ErrIndexCorrupt{Reason: "empty graph has an entry-point"}
		}
		return nil
	}
	if !hasEntry {
		return &ErrIndexCorrupt{Reason: "non-empty graph has no entry-point"}
	}

	maxTop := -1
	for _, n := range idx.store.Nodes() {
		if n.TopLayer > maxTop {
			maxTop = n.TopLayer
		}
		if len(n.Vector) != idx.dimension {
			return &ErrIndexCorrupt{Reason: "node vector length does not match index dimension"}
		}
		if len(n.Adjacency) != n.TopLayer+1 {
			return &ErrIndexCorrupt{Reason: "node missing adjacency slice for a layer it occupies"}
		}
		for l, neighbors := range n.Adjacency {
			seen := make(map[int64]struct{}, len(neighbors))
			for _, b := range neighbors {
				if b == n.RowKey {
					return &ErrIndexCorrupt{Reason: "node has itself as neighbor"}
				}
				if _, dup := seen[b]; dup {
					return &ErrIndexCorrupt{Reason: "duplicate neighbor within a layer"}
				}
				seen[b] = struct{}{}

				other := idx.store.Lookup(b)
				if other == nil {
					return &ErrIndexCorrupt{Reason: "adjacency references a missing node"}
				}
				if !containsInt64(other.Adjacency[l], n.RowKey) {
					return &ErrIndexCorrupt{Reason: "adjacency is not symmetric"}
				}
			}
			bound := idx.cfg.M
			if l == 0 {
				bound = idx.cfg.M0
			}
			if len(neighbors) > bound+2 {
				return &ErrIndexCorrupt{Reason: "degree bound exceeded beyond tolerated slack"}
			}
		}
	}
	if n := idx.store.Lookup(entry); n == nil || n.TopLayer != maxTop {
		return &ErrIndexCorrupt{Reason: "entry-point is not a maximal-layer node"}
	}
	return nil
}

func containsInt64(s []int64, v int64) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
