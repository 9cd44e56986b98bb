package hnsw

import (
	"context"
	"errors"
	"time"

	"github.com/mohit67890/realm-core-hnsw/internal/search"
	"github.com/mohit67890/realm-core-hnsw/vectorsource"
)

// ErrInvalidK is returned when a negative k is passed to SearchKNN. k
// == 0 is a valid empty query and returns an empty result, not an error.
var ErrInvalidK = errors.New("hnsw: k must be non-negative")

// Result is a single (row-key, distance) hit, ordered ascending by
// Distance across a result set.
type Result struct {
	RowKey   int64
	Distance float64
}

// SearchKNN runs an approximate k-nearest-neighbor query. efSearch of 0 uses the configured default.
func (idx *Index) SearchKNN(ctx context.Context, query []float64, k int, efSearch int) ([]Result, error) {
	start := time.Now()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results, err := idx.searchKNNLocked(query, k, efSearch)
	idx.cfg.MetricsCollector.RecordSearch(k, time.Since(start), err)
	idx.cfg.Logger.LogSearch(ctx, k, len(results), err)
	return results, err
}

func (idx *Index) searchKNNLocked(query []float64, k int, efSearch int) ([]Result, error) {
	if k < 0 {
		return nil, ErrInvalidK
	}
	dim := idx.dimension
	if dim != 0 {
		if err := vectorsource.Validate(&dim, query); err != nil {
			return nil, err
		}
	}
	if k == 0 {
		return nil, nil
	}

	ef := efSearch
	if ef <= 0 {
		ef = idx.cfg.EFSearch
	}
	if ef < k {
		ef = k
	}

	out := idx.engine.SearchKNN(query, k, ef)
	return toResults(out), nil
}

// SearchRadius returns every indexed vector within rmax of query, using
// the ef-bounded approximation described in DESIGN.md: containment is
// guaranteed, completeness is not.
func (idx *Index) SearchRadius(ctx context.Context, query []float64, rmax float64, efSearch int) ([]Result, error) {
	start := time.Now()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results, err := idx.searchRadiusLocked(query, rmax, efSearch)
	idx.cfg.MetricsCollector.RecordRadiusSearch(time.Since(start), err)
	idx.cfg.Logger.LogRadiusSearch(ctx, rmax, len(results), err)
	return results, err
}

func (idx *Index) searchRadiusLocked(query []float64, rmax float64, efSearch int) ([]Result, error) {
	dim := idx.dimension
	if dim != 0 {
		if err := vectorsource.Validate(&dim, query); err != nil {
			return nil, err
		}
	}

	ef := efSearch
	if ef <= 0 {
		ef = idx.cfg.EFSearch
	}

	out := idx.engine.SearchRadius(query, rmax, ef)
	return toResults(out), nil
}

func toResults(in []search.Result) []Result {
	if len(in) == 0 {
		return nil
	}
	out := make([]Result, len(in))
	for i, r := range in {
		out[i] = Result{RowKey: r.RowKey, Distance: r.Distance}
	}
	return out
}
