package hnsw

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mohit67890/realm-core-hnsw/storage"
)

// memorySource is a tiny VectorSource backed by an in-memory map, used
// throughout this package's tests in place of a real host column.
type memorySource struct {
	vectors map[int64][]float64
}

func newMemorySource() *memorySource {
	return &memorySource{vectors: make(map[int64][]float64)}
}

func (m *memorySource) put(rowKey int64, v []float64) {
	m.vectors[rowKey] = v
}

func (m *memorySource) Fetch(ctx context.Context, rowKey int64) ([]float64, error) {
	return m.vectors[rowKey], nil
}

func newBoltStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "index.db")
}

func openTestStore(t *testing.T, path string) *storage.Store {
	t.Helper()
	s, err := storage.Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
