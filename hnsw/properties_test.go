package hnsw

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohit67890/realm-core-hnsw/vectorsource"
)

func buildSmallIndex(t *testing.T, n int) (*Index, *memorySource) {
	t.Helper()
	ctx := context.Background()
	src := newMemorySource()
	idx, err := New(src, WithMetric(Euclidean), WithM(8), WithEFConstruction(64))
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		v := []float64{float64(i), float64(i) * 2, float64(i%5) * 0.3}
		src.put(int64(i), v)
		require.NoError(t, idx.Insert(ctx, int64(i)))
	}
	return idx, src
}

// Dimension uniformity.
func TestPropertyDimensionUniformity(t *testing.T) {
	ctx := context.Background()
	idx, src := buildSmallIndex(t, 5)

	// A row with no vector (empty list column) is a silent no-op, not
	// an error, and leaves the graph unchanged.
	countBefore := idx.Count()
	require.NoError(t, idx.Insert(ctx, 999))
	assert.Equal(t, countBefore, idx.Count())

	// A row whose vector length disagrees with the established
	// dimension fails with DimensionMismatch and leaves the graph
	// unchanged.
	src.put(1000, []float64{1, 2})
	err := idx.Insert(ctx, 1000)
	assert.Error(t, err)
	assert.IsType(t, &vectorsource.ErrDimensionMismatch{}, err)
	assert.Equal(t, countBefore, idx.Count())

	for _, n := range idx.store.Nodes() {
		assert.Len(t, n.Vector, idx.dimension)
	}
}

// Symmetry.
func TestPropertySymmetry(t *testing.T) {
	idx, _ := buildSmallIndex(t, 30)
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, n := range idx.store.Nodes() {
		for l, adj := range n.Adjacency {
			for _, b := range adj {
				other := idx.store.Lookup(b)
				require.NotNil(t, other)
				assert.Contains(t, other.Adjacency[l], n.RowKey)
			}
		}
	}
}

// Degree bound.
func TestPropertyDegreeBound(t *testing.T) {
	idx, _ := buildSmallIndex(t, 40)
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, n := range idx.store.Nodes() {
		for l, adj := range n.Adjacency {
			bound := idx.cfg.M
			if l == 0 {
				bound = idx.cfg.M0
			}
			assert.LessOrEqual(t, len(adj), bound+2)
		}
	}
}

// Entry-point maximality.
func TestPropertyEntryPointMaximality(t *testing.T) {
	idx, _ := buildSmallIndex(t, 25)
	assert.NoError(t, idx.Verify())
}

// Erase closure.
func TestPropertyEraseClosure(t *testing.T) {
	ctx := context.Background()
	idx, _ := buildSmallIndex(t, 20)

	require.NoError(t, idx.Erase(ctx, 5))

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, n := range idx.store.Nodes() {
		for _, adj := range n.Adjacency {
			assert.NotContains(t, adj, int64(5))
		}
	}
}

// Self-query.
func TestPropertySelfQuery(t *testing.T) {
	ctx := context.Background()
	idx, src := buildSmallIndex(t, 15)

	for rk, v := range src.vectors {
		results, err := idx.SearchKNN(ctx, v, 1, 0)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, rk, results[0].RowKey)
		assert.Less(t, results[0].Distance, 1e-6)
	}
}

// Result ordering.
func TestPropertyResultOrdering(t *testing.T) {
	ctx := context.Background()
	idx, _ := buildSmallIndex(t, 30)

	results, err := idx.SearchKNN(ctx, []float64{10, 20, 1}, 15, 0)
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

// Radius containment.
func TestPropertyRadiusContainment(t *testing.T) {
	ctx := context.Background()
	idx, _ := buildSmallIndex(t, 30)

	results, err := idx.SearchRadius(ctx, []float64{0, 0, 0}, 5.0, 0)
	require.NoError(t, err)
	for _, r := range results {
		assert.LessOrEqual(t, r.Distance, 5.0)
	}
}

// Size bound.
func TestPropertySizeBound(t *testing.T) {
	ctx := context.Background()
	idx, _ := buildSmallIndex(t, 10)

	results, err := idx.SearchKNN(ctx, []float64{1, 1, 1}, 100, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), idx.Count())
}

// Persistence round-trip is covered by TestScenarioPersistenceRoundTrip.

// Update atomicity.
func TestPropertyUpdateAtomicity(t *testing.T) {
	ctx := context.Background()
	idx, src := buildSmallIndex(t, 10)

	src.put(3, []float64{99, 99, 99})
	require.NoError(t, idx.Set(ctx, 3))

	assert.NoError(t, idx.Verify())

	results, err := idx.SearchKNN(ctx, []float64{99, 99, 99}, 1, 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, int64(3), results[0].RowKey)
}

// Update atomicity, failure path: a Set that fails validation must
// leave the prior node exactly as it was, not delete it.
func TestPropertyUpdateAtomicityFailureLeavesPriorState(t *testing.T) {
	ctx := context.Background()
	idx, src := buildSmallIndex(t, 10)

	before := idx.store.Lookup(3)
	require.NotNil(t, before)
	beforeVector := append([]float64(nil), before.Vector...)
	countBefore := idx.Count()

	src.put(3, []float64{1, 2})
	err := idx.Set(ctx, 3)
	assert.Error(t, err)
	assert.IsType(t, &vectorsource.ErrDimensionMismatch{}, err)

	assert.Equal(t, countBefore, idx.Count())
	after := idx.store.Lookup(3)
	require.NotNil(t, after)
	assert.Equal(t, beforeVector, after.Vector)
	assert.NoError(t, idx.Verify())
}

// Non-growth on repeated insert: inserting an already-indexed row-key
// replaces its node instead of adding a second one, and Set behaves
// the same way.
func TestPropertyRepeatedInsertReplacesNode(t *testing.T) {
	ctx := context.Background()
	idx, src := buildSmallIndex(t, 5)
	before := idx.Count()

	require.NoError(t, idx.Insert(ctx, 2))
	assert.Equal(t, before, idx.Count())

	src.put(2, src.vectors[2])
	require.NoError(t, idx.Set(ctx, 2))
	assert.Equal(t, before, idx.Count())
}
