package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(rowKey int64, topLayer int) *Node {
	return &Node{
		RowKey:    rowKey,
		Vector:    []float64{1, 2, 3},
		TopLayer:  topLayer,
		Adjacency: make([][]int64, topLayer+1),
	}
}

func TestStoreEmptyInvariant(t *testing.T) {
	s := New()
	_, ok := s.EntryPoint()
	assert.False(t, ok)
	assert.Equal(t, -1, s.EntryLayer())
	assert.Equal(t, 0, s.Len())
}

func TestRegisterAndSetEntryPoint(t *testing.T) {
	s := New()
	n := newTestNode(1, 2)
	s.Register(n)
	s.SetEntryPoint(1, 2)

	ep, ok := s.EntryPoint()
	require.True(t, ok)
	assert.Equal(t, int64(1), ep)
	assert.Equal(t, 2, s.EntryLayer())
	assert.Same(t, n, s.Lookup(1))
}

func TestLinkSymmetry(t *testing.T) {
	s := New()
	s.Register(newTestNode(1, 1))
	s.Register(newTestNode(2, 1))

	s.Link(1, 2, 0)

	assert.Contains(t, s.Neighbors(1, 0), int64(2))
	assert.Contains(t, s.Neighbors(2, 0), int64(1))

	// Linking again is a no-op, no duplicates.
	s.Link(1, 2, 0)
	assert.Len(t, s.Neighbors(1, 0), 1)
	assert.Len(t, s.Neighbors(2, 0), 1)
}

func TestLinkSelfIsNoop(t *testing.T) {
	s := New()
	s.Register(newTestNode(1, 1))
	s.Link(1, 1, 0)
	assert.Empty(t, s.Neighbors(1, 0))
}

func TestUnlinkSymmetry(t *testing.T) {
	s := New()
	s.Register(newTestNode(1, 1))
	s.Register(newTestNode(2, 1))
	s.Link(1, 2, 0)

	s.Unlink(1, 2, 0)
	assert.Empty(t, s.Neighbors(1, 0))
	assert.Empty(t, s.Neighbors(2, 0))
}

func TestReplaceAdjacency(t *testing.T) {
	s := New()
	s.Register(newTestNode(1, 0))
	s.ReplaceAdjacency(1, 0, []int64{2, 3, 4})
	assert.Equal(t, []int64{2, 3, 4}, s.Neighbors(1, 0))
}

func TestRecomputeEntryPointAfterErase(t *testing.T) {
	s := New()
	s.Register(newTestNode(1, 3))
	s.Register(newTestNode(2, 5))
	s.Register(newTestNode(3, 1))
	s.SetEntryPoint(2, 5)

	s.Remove(2)
	s.RecomputeEntryPoint()

	ep, ok := s.EntryPoint()
	require.True(t, ok)
	assert.Equal(t, int64(1), ep)
	assert.Equal(t, 3, s.EntryLayer())
}

func TestRecomputeEntryPointEmpty(t *testing.T) {
	s := New()
	s.Register(newTestNode(1, 0))
	s.SetEntryPoint(1, 0)
	s.Remove(1)
	s.RecomputeEntryPoint()

	_, ok := s.EntryPoint()
	assert.False(t, ok)
	assert.Equal(t, -1, s.EntryLayer())
}

func TestClear(t *testing.T) {
	s := New()
	s.Register(newTestNode(1, 0))
	s.SetEntryPoint(1, 0)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok := s.EntryPoint()
	assert.False(t, ok)
}
