package hnsw

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Self-query exact-match.
func TestScenarioSelfQueryExactMatch(t *testing.T) {
	ctx := context.Background()
	src := newMemorySource()
	idx, err := New(src, WithMetric(Euclidean), WithM(16), WithEFConstruction(200))
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		src.put(i, []float64{float64(i) * 1.0, float64(i) * 2.0, float64(i) * 0.5})
		require.NoError(t, idx.Insert(ctx, i))
	}

	results, err := idx.SearchKNN(ctx, []float64{5.0, 10.0, 2.5}, 5, 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, int64(5), results[0].RowKey)
	assert.Less(t, results[0].Distance, 1e-6)
}

// Ordering with isoceles midpoint.
func TestScenarioIsocelesOrdering(t *testing.T) {
	ctx := context.Background()
	src := newMemorySource()
	idx, err := New(src, WithMetric(Euclidean))
	require.NoError(t, err)

	src.put(1, []float64{1, 2, 3})
	src.put(2, []float64{4, 5, 6})
	src.put(3, []float64{7, 8, 9})
	for _, k := range []int64{1, 2, 3} {
		require.NoError(t, idx.Insert(ctx, k))
	}

	results, err := idx.SearchKNN(ctx, []float64{2.5, 3.5, 4.5}, 2, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	keys := map[int64]bool{results[0].RowKey: true, results[1].RowKey: true}
	assert.True(t, keys[1])
	assert.True(t, keys[2])
	assert.False(t, keys[3])
	assert.InDelta(t, math.Sqrt(6.75), results[0].Distance, 1e-2)
	assert.InDelta(t, math.Sqrt(6.75), results[1].Distance, 1e-2)
}

// Radius threshold.
func TestScenarioRadiusThreshold(t *testing.T) {
	ctx := context.Background()
	src := newMemorySource()
	idx, err := New(src, WithMetric(Euclidean))
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		src.put(i, []float64{float64(i), 0})
		require.NoError(t, idx.Insert(ctx, i))
	}

	results, err := idx.SearchRadius(ctx, []float64{0, 0}, 3.5, 0)
	require.NoError(t, err)
	for _, r := range results {
		assert.LessOrEqual(t, r.Distance, 3.5)
	}

	seen := map[int64]bool{}
	for _, r := range results {
		seen[r.RowKey] = true
	}
	for _, k := range []int64{0, 1, 2, 3} {
		assert.True(t, seen[k], "expected row-key %d within radius", k)
	}
}

// Erase closure.
func TestScenarioEraseClosure(t *testing.T) {
	ctx := context.Background()
	src := newMemorySource()
	idx, err := New(src, WithMetric(Euclidean))
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		src.put(i, []float64{float64(i), float64(i) * 2, float64(i) * 0.5})
		require.NoError(t, idx.Insert(ctx, i))
	}

	require.NoError(t, idx.Erase(ctx, 0))
	require.NoError(t, idx.Erase(ctx, 1))
	require.NoError(t, idx.Erase(ctx, 2))

	assert.Equal(t, 7, idx.Count())

	results, err := idx.SearchKNN(ctx, []float64{4, 8, 2}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, results, 7)
	for _, r := range results {
		assert.NotContains(t, []int64{0, 1, 2}, r.RowKey)
	}
}

// Cosine direction sensitivity.
func TestScenarioCosineDirectionSensitivity(t *testing.T) {
	ctx := context.Background()
	src := newMemorySource()
	idx, err := New(src, WithMetric(Cosine))
	require.NoError(t, err)

	src.put(1, []float64{1, 0, 0})
	src.put(2, []float64{2, 0, 0})
	src.put(3, []float64{0, 1, 0})
	src.put(4, []float64{-1, 0, 0})
	for _, k := range []int64{1, 2, 3, 4} {
		require.NoError(t, idx.Insert(ctx, k))
	}

	results, err := idx.SearchKNN(ctx, []float64{1, 0, 0}, 4, 0)
	require.NoError(t, err)
	require.Len(t, results, 4)

	byKey := map[int64]float64{}
	for _, r := range results {
		byKey[r.RowKey] = r.Distance
	}
	assert.InDelta(t, 0, byKey[1], 1e-6)
	assert.InDelta(t, 0, byKey[2], 1e-6)
	assert.InDelta(t, 1, byKey[3], 1e-6)
	assert.InDelta(t, 2, byKey[4], 1e-6)
}

// Persistence round-trip.
func TestScenarioPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := newBoltStorePath(t)
	store := openTestStore(t, dbPath)

	src := newMemorySource()
	idx, err := Create(src, store, WithMetric(Euclidean), WithRandomSeed(7))
	require.NoError(t, err)

	for i := int64(0); i < 100; i++ {
		v := make([]float64, 32)
		for d := range v {
			v[d] = float64((int(i)*37+d*11)%97) / 10.0
		}
		src.put(i, v)
		require.NoError(t, idx.Insert(ctx, i))
	}

	queries := make([][]float64, 10)
	for q := range queries {
		v := make([]float64, 32)
		for d := range v {
			v[d] = float64((q*53+d*7)%89) / 9.0
		}
		queries[q] = v
	}

	before := make([][]Result, 10)
	for i, q := range queries {
		r, err := idx.SearchKNN(ctx, q, 10, 0)
		require.NoError(t, err)
		before[i] = r
	}

	reopened, err := Open(ctx, src, store, WithMetric(Euclidean), WithRandomSeed(7))
	require.NoError(t, err)

	for i, q := range queries {
		after, err := reopened.SearchKNN(ctx, q, 10, 0)
		require.NoError(t, err)
		require.Len(t, after, len(before[i]))
		for j := range after {
			assert.Equal(t, before[i][j].RowKey, after[j].RowKey)
		}
	}
}
