package hnsw

import (
	"context"

	"github.com/mohit67890/realm-core-hnsw/distance"
	"github.com/mohit67890/realm-core-hnsw/internal/graphstore"
	"github.com/mohit67890/realm-core-hnsw/internal/sampler"
	"github.com/mohit67890/realm-core-hnsw/internal/search"
	"github.com/mohit67890/realm-core-hnsw/storage"
	"github.com/mohit67890/realm-core-hnsw/vectorsource"
)

// Create makes a new, empty index backed by a fresh persisted root at
// store.
func Create(source vectorsource.VectorSource, store *storage.Store, opts ...Option) (*Index, error) {
	idx, err := New(source, opts...)
	if err != nil {
		return nil, err
	}
	idx.persist = store
	if err := idx.saveLocked(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Open attaches to an existing persisted root. The on-disk format does
// not persist the metric, so if the persisted root is non-empty and the
// caller never called WithMetric, Open returns ErrMetricNotConfigured
// rather than silently guessing.
func Open(ctx context.Context, source vectorsource.VectorSource, store *storage.Store, opts ...Option) (*Index, error) {
	meta, nodes, err := store.Load()
	if err != nil {
		if corrupt, ok := err.(storage.ErrCorrupt); ok {
			return nil, &ErrIndexCorrupt{Reason: string(corrupt)}
		}
		return nil, &ErrStorageFailure{Op: "load", cause: err}
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if meta.Dimension != 0 && !cfg.metricSet {
		return nil, &ErrMetricNotConfigured{}
	}

	distFn, err := distance.ForMetric(cfg.Metric)
	if err != nil {
		return nil, err
	}
	if meta.Dimension != 0 {
		cfg.M = int(meta.M)
		cfg.M0 = 2 * int(meta.M)
		cfg.EFConstruction = int(meta.EFConstruction)
		cfg.EFSearch = int(meta.EFSearch)
	}

	gs := graphstore.New()
	for _, rec := range nodes {
		gs.Register(&graphstore.Node{
			RowKey:    rec.RowKey,
			Vector:    rec.Vector,
			TopLayer:  int(rec.TopLayer),
			Adjacency: rec.Adjacency,
		})
	}
	if meta.EntryPointSet {
		gs.SetEntryPoint(meta.EntryPointKey, int(meta.EntryLayer))
	}

	idx := &Index{
		cfg:       cfg,
		dist:      distFn,
		source:    source,
		store:     gs,
		engine:    search.New(gs, distFn),
		sampler:   sampler.New(cfg.RandomSeed, cfg.Ml),
		dimension: int(meta.Dimension),
		persist:   store,
	}
	idx.cfg.Logger.LogPersist(ctx, "open", gs.Len(), nil)
	return idx, nil
}

// Save persists the current in-memory graph via the atomic root swap.
// Insert/Set/Erase/Rebuild call this automatically at the end of their
// write critical section; exposed directly for tests and for callers
// that built an Index with New instead of Create and want to attach
// persistence later.
func (idx *Index) Save(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	err := idx.saveLocked()
	idx.cfg.Logger.LogPersist(ctx, "save", idx.store.Len(), err)
	return err
}

// AttachStorage wires a block-arena root to an index created with New.
// It does not save; call Save afterward if an immediate root is wanted.
func (idx *Index) AttachStorage(store *storage.Store) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.persist = store
}

func (idx *Index) saveLocked() error {
	if idx.persist == nil {
		return nil
	}
	entry, hasEntry := idx.store.EntryPoint()
	meta := storage.Metadata{
		FormatVersion:  storage.FormatVersion,
		EntryPointSet:  hasEntry,
		EntryPointKey:  entry,
		EntryLayer:     int64(idx.store.EntryLayer()),
		Dimension:      uint64(idx.dimension),
		M:              uint64(idx.cfg.M),
		EFConstruction: uint64(idx.cfg.EFConstruction),
		EFSearch:       uint64(idx.cfg.EFSearch),
	}

	nodes := idx.store.Nodes()
	records := make([]storage.NodeRecord, 0, len(nodes))
	for _, n := range nodes {
		records = append(records, storage.NodeRecord{
			RowKey:    n.RowKey,
			TopLayer:  int64(n.TopLayer),
			Vector:    n.Vector,
			Adjacency: n.Adjacency,
		})
	}

	if err := idx.persist.Save(meta, records); err != nil {
		return &ErrStorageFailure{Op: "save", cause: err}
	}
	return nil
}
