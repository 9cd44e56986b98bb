// Package vectorsource adapts the host database's cluster/column storage
// to the flat []float64 vectors the HNSW core operates on. It is the only point of contact between the core and the
// host's row storage: everything else in this module deals in row-keys
// and in-memory vectors the core itself owns a copy of.
package vectorsource

import (
	"context"
	"fmt"
)

// RowKey is the opaque 64-bit identifier the host database assigns to a
// row. The core never interprets it beyond using it as a map key.
type RowKey = int64

// FloatListColumn is the host's cluster storage column holding a
// variable-length list of doubles per row — the column the index is
// attached to. Implementations come from the host; this module only
// consumes the interface.
type FloatListColumn interface {
	// FloatList returns the list-of-double values stored for rowKey. An
	// absent or never-set row yields a nil/empty slice, not an error.
	FloatList(ctx context.Context, rowKey RowKey) ([]float64, error)
}

// VectorSource fetches a dense vector for a row-key.
type VectorSource interface {
	// Fetch reads the row's vector. If the row has no vector (the list
	// column is empty), Fetch returns a zero-length slice and a nil
	// error — this signals "skip indexing" to the mutator, not a
	// failure.
	Fetch(ctx context.Context, rowKey RowKey) ([]float64, error)
}

// ColumnSource is the default VectorSource: it reads directly from a
// FloatListColumn on the host's cluster storage.
type ColumnSource struct {
	column FloatListColumn
}

// NewColumnSource wraps column as a VectorSource.
func NewColumnSource(column FloatListColumn) *ColumnSource {
	return &ColumnSource{column: column}
}

// Fetch implements VectorSource.
func (s *ColumnSource) Fetch(ctx context.Context, rowKey RowKey) ([]float64, error) {
	v, err := s.column.FloatList(ctx, rowKey)
	if err != nil {
		return nil, fmt.Errorf("vectorsource: fetch row %d: %w", rowKey, err)
	}
	return v, nil
}

// ErrDimensionMismatch is returned by Validate when a vector's length
// does not match the index's established dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("vectorsource: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Validate checks v against the index's dimension, held at *dim. If
// *dim is 0 (no vector indexed yet) it is set to len(v), fixing the
// dimension for the lifetime of the index. Otherwise v must match *dim
// exactly. Query vectors and update vectors follow this same path.
//
// Callers are responsible for holding whatever lock protects *dim;
// this function performs no synchronization of its own.
func Validate(dim *int, v []float64) error {
	if *dim == 0 {
		*dim = len(v)
		return nil
	}
	if len(v) != *dim {
		return &ErrDimensionMismatch{Expected: *dim, Actual: len(v)}
	}
	return nil
}
